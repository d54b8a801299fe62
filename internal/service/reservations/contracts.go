package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, refund domain.Refund, cancelledAt time.Time) error
	ExpirePending(ctx context.Context, createdBefore, now time.Time) ([]int64, error)
}

// PropertyRepository интерфейс репозитория объектов
type PropertyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}

// ConflictDetector проверка диапазона на пересечения
type ConflictDetector interface {
	HasConflict(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeID *int64) (bool, error)
}

// CancellationPolicy расчет возврата при отмене
type CancellationPolicy interface {
	Refund(r *domain.Reservation, cancelledAt time.Time) domain.Refund
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик истекших бронирований
type Metrics interface {
	AddExpiredReservations(n int)
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
