package conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ReservationRepository интерфейс чтения пересекающихся бронирований
type ReservationRepository interface {
	GetOverlapping(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeID *int64) ([]*domain.Reservation, error)
}

// AvailabilityRepository интерфейс чтения заблокированных дней
type AvailabilityRepository interface {
	GetBlockedDates(ctx context.Context, propertyID int64, from, to time.Time) ([]time.Time, error)
}
