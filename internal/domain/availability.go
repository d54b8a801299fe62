package domain

import "time"

// AvailabilityDay is the per-property per-day calendar record
// A missing row means "available at base price"
type AvailabilityDay struct {
	PropertyID         int64
	Date               time.Time // UTC midnight
	IsBlocked          bool
	Price              *float64 // override of Property.BasePrice for this date only
	MinStay            *int
	AdvanceNoticeHours *int
	Notes              *string
	UpdatedAt          time.Time
}

// NewDefaultDay returns the record synthesized for a day without a stored row
func NewDefaultDay(propertyID int64, date time.Time) *AvailabilityDay {
	return &AvailabilityDay{
		PropertyID: propertyID,
		Date:       TruncateToDay(date),
	}
}

// EffectivePrice returns the override price or the base price when there is none
func (d *AvailabilityDay) EffectivePrice(basePrice float64) float64 {
	if d.Price != nil {
		return *d.Price
	}
	return basePrice
}

// TruncateToDay normalizes an instant to the UTC midnight of its calendar day
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days in [from, to)
func DaysBetween(from, to time.Time) int {
	return int(TruncateToDay(to).Sub(TruncateToDay(from)).Hours() / 24)
}

// DatesInRange returns every calendar day of [from, to] inclusive
func DatesInRange(from, to time.Time) []time.Time {
	from, to = TruncateToDay(from), TruncateToDay(to)
	if to.Before(from) {
		return nil
	}
	dates := make([]time.Time, 0, DaysBetween(from, to)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
