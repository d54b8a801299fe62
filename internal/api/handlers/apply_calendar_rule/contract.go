package apply_calendar_rule

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

type CalendarService interface {
	ApplyRule(ctx context.Context, userID int64, propertyID int64, rule domain.CalendarRule) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
