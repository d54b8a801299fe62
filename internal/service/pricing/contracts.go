package pricing

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/pricingadvisor"
)

// Advisor внешний советник. Возвращает pricingadvisor.ErrNoAdvice, если советовать нечего
type Advisor interface {
	Advise(ctx context.Context, req *pricingadvisor.AdviceRequest) (float64, error)
}

// PropertyRepository интерфейс чтения объекта и его статистики
type PropertyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	GetStats(ctx context.Context, propertyID int64, since time.Time) (*domain.PropertyStats, error)
}

// MarketAnalyzer источник рыночного снимка когорты
type MarketAnalyzer interface {
	GetMarketSnapshot(ctx context.Context, cohort domain.Cohort) *domain.MarketSnapshot
	LocationTag(city string) domain.LocationTag
}

// Calendar источник текущих цен по дням
type Calendar interface {
	GetAvailability(ctx context.Context, propertyID int64, from, to time.Time) ([]*domain.AvailabilityDay, error)
}

// Metrics счетчики сбоев советника
type Metrics interface {
	IncAdvisorFailure(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
