package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Report результат проверки диапазона
type Report struct {
	ConflictingReservationIDs []int64
	BlockedDates              []time.Time
}

// HasConflict true, если диапазон недоступен
func (r *Report) HasConflict() bool {
	return len(r.ConflictingReservationIDs) > 0 || len(r.BlockedDates) > 0
}

// Detector проверяет полуоткрытый диапазон [checkIn, checkOut) на пересечения
// с блокирующими бронированиями и заблокированными днями
type Detector struct {
	reservationRepo  ReservationRepository
	availabilityRepo AvailabilityRepository
}

// NewDetector создает детектор конфликтов
func NewDetector(reservationRepo ReservationRepository, availabilityRepo AvailabilityRepository) *Detector {
	return &Detector{
		reservationRepo:  reservationRepo,
		availabilityRepo: availabilityRepo,
	}
}

// Check возвращает все причины недоступности диапазона
// excludeID исключает бронирование из проверки (пересчет существующего бронирования)
func (d *Detector) Check(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeID *int64) (*Report, error) {
	checkIn, checkOut = domain.TruncateToDay(checkIn), domain.TruncateToDay(checkOut)
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidRange
	}

	reservations, err := d.reservationRepo.GetOverlapping(ctx, propertyID, checkIn, checkOut, excludeID)
	if err != nil {
		return nil, fmt.Errorf("%w: Check - get overlapping reservations: %v", ErrInternal, err)
	}

	report := &Report{
		ConflictingReservationIDs: make([]int64, 0),
		BlockedDates:              make([]time.Time, 0),
	}

	// Репозиторий фильтрует по статусу, но правило пересечения проверяем здесь
	for _, r := range reservations {
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		if r.IsBlocking() && r.Overlaps(checkIn, checkOut) {
			report.ConflictingReservationIDs = append(report.ConflictingReservationIDs, r.ID)
		}
	}

	blocked, err := d.availabilityRepo.GetBlockedDates(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("%w: Check - get blocked dates: %v", ErrInternal, err)
	}
	for _, date := range blocked {
		date = domain.TruncateToDay(date)
		if !date.Before(checkIn) && date.Before(checkOut) {
			report.BlockedDates = append(report.BlockedDates, date)
		}
	}

	return report, nil
}

// HasConflict true, если в диапазоне есть блокирующее бронирование или закрытый день
func (d *Detector) HasConflict(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeID *int64) (bool, error) {
	report, err := d.Check(ctx, propertyID, checkIn, checkOut, excludeID)
	if err != nil {
		return false, err
	}
	return report.HasConflict(), nil
}
