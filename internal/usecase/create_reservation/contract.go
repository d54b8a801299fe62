package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/conflicts"
)

// PropertyRepository интерфейс репозитория объектов
type PropertyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	LockProperty(ctx context.Context, propertyID int64) error
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
}

// AvailabilityRepository интерфейс репозитория календаря
type AvailabilityRepository interface {
	GetRange(ctx context.Context, propertyID int64, from, to time.Time) ([]*domain.AvailabilityDay, error)
}

// ConflictDetector проверка диапазона на пересечения
type ConflictDetector interface {
	Check(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeID *int64) (*conflicts.Report, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик отказов из-за занятых дат
type Metrics interface {
	IncReservationConflict()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
