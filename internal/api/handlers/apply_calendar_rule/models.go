package apply_calendar_rule

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// RecurrenceRequest описание повторения правила
type RecurrenceRequest struct {
	Frequency  string   `json:"frequency"` // DAILY, WEEKLY, MONTHLY, YEARLY
	Interval   int      `json:"interval"`
	DaysOfWeek []string `json:"daysOfWeek,omitempty"` // MONDAY..SUNDAY
	EndDate    *string  `json:"endDate,omitempty"`
}

// ApplyRuleRequest HTTP request model
type ApplyRuleRequest struct {
	Type       string             `json:"type"` // BLOCK, UNBLOCK, PRICE, MIN_STAY, ADVANCE_NOTICE
	StartDate  string             `json:"startDate"`
	EndDate    string             `json:"endDate"`
	Value      *float64           `json:"value,omitempty"`
	Notes      *string            `json:"notes,omitempty"`
	Recurrence *RecurrenceRequest `json:"recurrence,omitempty"`
}

// ApplyRuleResponse HTTP response model
type ApplyRuleResponse struct {
	PropertyID   int64  `json:"propertyId"`
	Type         string `json:"type"`
	AffectedDays int    `json:"affectedDays"`
}

var weekdays = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// ToDomainRule конвертирует запрос в правило календаря
func (r *ApplyRuleRequest) ToDomainRule() (domain.CalendarRule, error) {
	action, err := domain.ParseRuleAction(r.Type, r.Value)
	if err != nil {
		return domain.CalendarRule{}, err
	}

	start, err := handlers.ParseDate(r.StartDate)
	if err != nil {
		return domain.CalendarRule{}, fmt.Errorf("startDate: %w", err)
	}
	end, err := handlers.ParseDate(r.EndDate)
	if err != nil {
		return domain.CalendarRule{}, fmt.Errorf("endDate: %w", err)
	}

	rule := domain.CalendarRule{
		StartDate: start,
		EndDate:   end,
		Action:    action,
		Notes:     r.Notes,
	}

	if r.Recurrence != nil {
		recurrence, err := r.Recurrence.toDomain()
		if err != nil {
			return domain.CalendarRule{}, err
		}
		rule.Recurrence = recurrence
	}

	return rule, nil
}

func (r *RecurrenceRequest) toDomain() (*domain.Recurrence, error) {
	recurrence := &domain.Recurrence{
		Frequency: domain.Frequency(strings.ToUpper(strings.TrimSpace(r.Frequency))),
		Interval:  r.Interval,
	}

	for _, name := range r.DaysOfWeek {
		weekday, ok := weekdays[strings.ToUpper(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("daysOfWeek: unknown day %q", name)
		}
		recurrence.DaysOfWeek = append(recurrence.DaysOfWeek, weekday)
	}

	if r.EndDate != nil {
		end, err := handlers.ParseDate(*r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("recurrence.endDate: %w", err)
		}
		recurrence.EndDate = &end
	}

	return recurrence, nil
}
