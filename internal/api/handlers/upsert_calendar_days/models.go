package upsert_calendar_days

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// DayRequest полное состояние одного дня, отсутствующие поля сбрасываются
type DayRequest struct {
	Date               string   `json:"date"`
	IsBlocked          bool     `json:"isBlocked"`
	Price              *float64 `json:"price,omitempty"`
	MinStay            *int     `json:"minStay,omitempty"`
	AdvanceNoticeHours *int     `json:"advanceNoticeHours,omitempty"`
	Notes              *string  `json:"notes,omitempty"`
}

// UpsertDaysRequest HTTP request model
type UpsertDaysRequest struct {
	Days []DayRequest `json:"days"`
}

// UpsertDaysResponse HTTP response model
type UpsertDaysResponse struct {
	PropertyID  int64 `json:"propertyId"`
	UpdatedDays int   `json:"updatedDays"`
}

// ToDomainDays конвертирует запрос в дни календаря
func (r *UpsertDaysRequest) ToDomainDays(propertyID int64) ([]*domain.AvailabilityDay, error) {
	days := make([]*domain.AvailabilityDay, 0, len(r.Days))
	for i, d := range r.Days {
		date, err := handlers.ParseDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("days[%d].date: %w", i, err)
		}
		days = append(days, &domain.AvailabilityDay{
			PropertyID:         propertyID,
			Date:               date,
			IsBlocked:          d.IsBlocked,
			Price:              d.Price,
			MinStay:            d.MinStay,
			AdvanceNoticeHours: d.AdvanceNoticeHours,
			Notes:              d.Notes,
		})
	}
	return days, nil
}
