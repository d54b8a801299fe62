package cancellation

import (
	"math"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ComputeRefund считает возврат при отмене бронирования
//
//	до заезда >= freeWindowHours      → 100%
//	до заезда в [0, freeWindowHours)  → 50%
//	заезд уже наступил                → 0%
//
// Сравнение идет по time.Duration, поэтому граница точная
func ComputeRefund(totalPrice float64, checkIn, cancelledAt time.Time, freeWindowHours int) domain.Refund {
	untilCheckIn := checkIn.Sub(cancelledAt)
	window := time.Duration(freeWindowHours) * time.Hour

	var percentage int
	switch {
	case untilCheckIn >= window:
		percentage = 100
	case untilCheckIn >= 0:
		percentage = 50
	default:
		percentage = 0
	}

	return domain.Refund{
		Percentage: percentage,
		Amount:     math.Round(totalPrice*float64(percentage)) / 100,
	}
}

// Policy политика отмены с настройками площадки
type Policy struct {
	freeWindowHours int
	checkInHour     int
}

// NewPolicy создает политику отмены
func NewPolicy(freeWindowHours, checkInHour int) *Policy {
	return &Policy{
		freeWindowHours: freeWindowHours,
		checkInHour:     checkInHour,
	}
}

// CheckInInstant момент заезда: дата заезда в checkInHour UTC
func (p *Policy) CheckInInstant(checkIn time.Time) time.Time {
	return domain.TruncateToDay(checkIn).Add(time.Duration(p.checkInHour) * time.Hour)
}

// Refund считает возврат по бронированию на момент cancelledAt
func (p *Policy) Refund(r *domain.Reservation, cancelledAt time.Time) domain.Refund {
	return ComputeRefund(r.TotalPrice, p.CheckInInstant(r.CheckIn), cancelledAt, p.freeWindowHours)
}

// FreeWindowHours окно бесплатной отмены в часах
func (p *Policy) FreeWindowHours() int {
	return p.freeWindowHours
}
