package market

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// PropertyRepository интерфейс чтения когорты
type PropertyRepository interface {
	GetCohort(ctx context.Context, cohort domain.Cohort) ([]*domain.Property, error)
}

// ReservationRepository интерфейс подсчета недавних бронирований
type ReservationRepository interface {
	CountCreatedSince(ctx context.Context, propertyIDs []int64, since time.Time) (int, error)
}

// Cache порт кэша снимков. Жизненным циклом соединения владеет main
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// Metrics счетчики попаданий в кэш
type Metrics interface {
	IncMarketCache(result string)
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
