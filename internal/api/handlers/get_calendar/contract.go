package get_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

type CalendarService interface {
	GetAvailability(ctx context.Context, propertyID int64, from, to time.Time) ([]*domain.AvailabilityDay, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
