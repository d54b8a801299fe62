package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория календаря
type AvailabilityRepository interface {
	GetRange(ctx context.Context, propertyID int64, from, to time.Time) ([]*domain.AvailabilityDay, error)
	UpsertDays(ctx context.Context, days []*domain.AvailabilityDay) error
	ApplyMutations(ctx context.Context, propertyID int64, mutations []domain.DayMutation, notes *string) error
}

// PropertyRepository интерфейс репозитория объектов
type PropertyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
