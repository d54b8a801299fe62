package upsert_calendar_days

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

type CalendarService interface {
	BulkUpsert(ctx context.Context, userID int64, propertyID int64, days []*domain.AvailabilityDay) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
