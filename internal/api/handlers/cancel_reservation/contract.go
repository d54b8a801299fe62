package cancel_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/reservations/models"
)

type ReservationService interface {
	Cancel(ctx context.Context, id int64, userID int64, cancelledAt time.Time) (*models.CancelResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
