package create_reservation

import (
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// validateRequest валидирует запрос до любого обращения к хранилищу
func validateRequest(req *Request, maxStayNights int, now time.Time) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.GuestID <= 0 {
		return fmt.Errorf("%w: guestID must be positive", ErrInvalidInput)
	}

	if req.PropertyID <= 0 {
		return fmt.Errorf("%w: propertyID must be positive", ErrInvalidInput)
	}

	if req.Guests <= 0 {
		return fmt.Errorf("%w: guests must be positive", ErrInvalidInput)
	}

	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return fmt.Errorf("%w: checkIn and checkOut are required", ErrInvalidInput)
	}

	checkIn, checkOut := domain.TruncateToDay(req.CheckIn), domain.TruncateToDay(req.CheckOut)
	if !checkOut.After(checkIn) {
		return fmt.Errorf("%w: checkOut must be after checkIn", ErrInvalidInput)
	}

	if nights := domain.DaysBetween(checkIn, checkOut); nights > maxStayNights {
		return fmt.Errorf("%w: stay of %d nights exceeds maximum of %d", ErrInvalidInput, nights, maxStayNights)
	}

	// Заезд в прошлом
	if checkIn.Before(domain.TruncateToDay(now)) {
		return fmt.Errorf("%w: checkIn %s is in the past", ErrInvalidInput, checkIn.Format(domain.DateFormat))
	}

	return nil
}

// validateProperty проверяет вместимость и ограничения длительности объекта
func validateProperty(property *domain.Property, guests, nights int) error {
	if !property.IsActive {
		return ErrPropertyInactive
	}

	if property.MaxGuests > 0 && guests > property.MaxGuests {
		return fmt.Errorf("%w: %d guests, maximum is %d", ErrTooManyGuests, guests, property.MaxGuests)
	}

	if property.MinStay > 0 && nights < property.MinStay {
		return fmt.Errorf("%w: %d nights, minimum is %d", ErrStayTooShort, nights, property.MinStay)
	}

	if property.MaxStay > 0 && nights > property.MaxStay {
		return fmt.Errorf("%w: %d nights, maximum is %d", ErrStayTooLong, nights, property.MaxStay)
	}

	return nil
}

// validateCheckInDay проверяет переопределения дня заезда: минимальный срок и уведомление
func validateCheckInDay(day *domain.AvailabilityDay, nights int, checkInInstant, now time.Time) error {
	if day == nil {
		return nil
	}

	if day.MinStay != nil && nights < *day.MinStay {
		return fmt.Errorf("%w: check-in on %s requires at least %d nights",
			ErrStayTooShort, day.Date.Format(domain.DateFormat), *day.MinStay)
	}

	if day.AdvanceNoticeHours != nil {
		notice := time.Duration(*day.AdvanceNoticeHours) * time.Hour
		if checkInInstant.Sub(now) < notice {
			return fmt.Errorf("%w: check-in on %s must be booked %d hours ahead",
				ErrAdvanceNotice, day.Date.Format(domain.DateFormat), *day.AdvanceNoticeHours)
		}
	}

	return nil
}

// totalPrice сумма действующих цен всех ночей [checkIn, checkOut)
func totalPrice(property *domain.Property, days []*domain.AvailabilityDay, checkIn, checkOut time.Time) float64 {
	byDate := make(map[string]*domain.AvailabilityDay, len(days))
	for _, d := range days {
		byDate[d.Date.Format(domain.DateFormat)] = d
	}

	var total float64
	for night := checkIn; night.Before(checkOut); night = night.AddDate(0, 0, 1) {
		if d, ok := byDate[night.Format(domain.DateFormat)]; ok {
			total += d.EffectivePrice(property.BasePrice)
			continue
		}
		total += property.BasePrice
	}
	return math.Round(total*100) / 100
}
