package get_pricing_recommendations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/pricing"
)

// ContextLoader загрузчик данных объекта для движка цен
type ContextLoader interface {
	Load(ctx context.Context, propertyID int64, from, to, now time.Time) (*pricing.Context, error)
}

// Engine движок рекомендаций
type Engine interface {
	Recommend(ctx context.Context, pc *pricing.Context, dates []time.Time) []domain.PricingRecommendation
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
