package calendar

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Expand разворачивает правило в список мутаций по дням
//
// Окно правила: [StartDate, min(EndDate, Recurrence.EndDate)].
// Без повторения затрагивается каждый день окна.
// DAILY и WEEKLY отсчитывают периоды (день или 7 дней) от StartDate, берется каждый Interval-й период.
// Для WEEKLY без фильтра дней недели внутри периода берется день недели StartDate.
// MONTHLY и YEARLY берут число месяца StartDate, несуществующие даты (31-е, 29 февраля) пропускаются.
// Фильтр DaysOfWeek сужает даты частоты и никогда их не добавляет.
func Expand(rule domain.CalendarRule) ([]domain.DayMutation, error) {
	if rule.Action == nil {
		return nil, fmt.Errorf("%w: action is required", ErrInvalidRule)
	}

	start := domain.TruncateToDay(rule.StartDate)
	end := domain.TruncateToDay(rule.EndDate)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s",
			ErrInvalidRule, end.Format(domain.DateFormat), start.Format(domain.DateFormat))
	}

	rec := rule.Recurrence
	if rec != nil {
		if err := validateRecurrence(rec, start); err != nil {
			return nil, err
		}
		if rec.EndDate != nil {
			if recEnd := domain.TruncateToDay(*rec.EndDate); recEnd.Before(end) {
				end = recEnd
			}
		}
	}

	if span := domain.DaysBetween(start, end) + 1; span > domain.MaxRuleSpanDays {
		return nil, fmt.Errorf("%w: rule spans %d days, maximum is %d", ErrRangeTooWide, span, domain.MaxRuleSpanDays)
	}

	var dates []time.Time
	if rec == nil {
		dates = domain.DatesInRange(start, end)
	} else {
		dates = recurringDates(rec, start, end)
	}

	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: rule does not touch any date", ErrInvalidRule)
	}

	mutations := make([]domain.DayMutation, 0, len(dates))
	for _, date := range dates {
		mutations = append(mutations, domain.DayMutation{Date: date, Action: rule.Action})
	}
	return mutations, nil
}

func validateRecurrence(rec *domain.Recurrence, start time.Time) error {
	if !rec.Frequency.IsValid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidRule, rec.Frequency)
	}
	if rec.Interval < 1 {
		return fmt.Errorf("%w: interval must be at least 1", ErrInvalidRule)
	}
	if rec.EndDate != nil && domain.TruncateToDay(*rec.EndDate).Before(start) {
		return fmt.Errorf("%w: recurrence end date %s is before rule start date %s",
			ErrInvalidRule, rec.EndDate.Format(domain.DateFormat), start.Format(domain.DateFormat))
	}
	for _, wd := range rec.DaysOfWeek {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("%w: invalid day of week %d", ErrInvalidRule, wd)
		}
	}
	return nil
}

func recurringDates(rec *domain.Recurrence, start, end time.Time) []time.Time {
	filter := make(map[time.Weekday]bool, len(rec.DaysOfWeek))
	for _, wd := range rec.DaysOfWeek {
		filter[wd] = true
	}
	allowed := func(d time.Time) bool {
		return len(filter) == 0 || filter[d.Weekday()]
	}

	dates := make([]time.Time, 0)
	switch rec.Frequency {
	case domain.FrequencyDaily:
		for _, d := range domain.DatesInRange(start, end) {
			if domain.DaysBetween(start, d)%rec.Interval == 0 && allowed(d) {
				dates = append(dates, d)
			}
		}
	case domain.FrequencyWeekly:
		for _, d := range domain.DatesInRange(start, end) {
			offset := domain.DaysBetween(start, d)
			if (offset/7)%rec.Interval != 0 {
				continue
			}
			if len(filter) == 0 {
				if offset%7 == 0 {
					dates = append(dates, d)
				}
				continue
			}
			if filter[d.Weekday()] {
				dates = append(dates, d)
			}
		}
	case domain.FrequencyMonthly, domain.FrequencyYearly:
		months := rec.Interval
		if rec.Frequency == domain.FrequencyYearly {
			months = rec.Interval * 12
		}
		for k := 0; ; k++ {
			d := time.Date(start.Year(), start.Month()+time.Month(k*months), start.Day(), 0, 0, 0, 0, time.UTC)
			if d.After(end) {
				break
			}
			// time.Date нормализует 31 апреля в 1 мая, такие даты пропускаем
			if d.Day() != start.Day() {
				continue
			}
			if allowed(d) {
				dates = append(dates, d)
			}
		}
	}
	return dates
}
