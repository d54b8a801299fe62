package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	propertyRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/property"
)

// ContextLoader собирает Context объекта: сам объект, статистику, рынок и текущие цены
type ContextLoader struct {
	propertyRepo PropertyRepository
	market       MarketAnalyzer
	calendar     Calendar
}

// NewContextLoader создает загрузчик контекста
func NewContextLoader(propertyRepo PropertyRepository, market MarketAnalyzer, calendar Calendar) *ContextLoader {
	return &ContextLoader{
		propertyRepo: propertyRepo,
		market:       market,
		calendar:     calendar,
	}
}

// Load загружает контекст ценообразования для дат [from, to]
func (l *ContextLoader) Load(ctx context.Context, propertyID int64, from, to, now time.Time) (*Context, error) {
	property, err := l.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, propertyRepo.ErrPropertyNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("%w: Load - get property: %v", ErrInternal, err)
	}

	stats, err := l.propertyRepo.GetStats(ctx, propertyID, now.AddDate(0, 0, -domain.MarketTrailingDays))
	if err != nil {
		return nil, fmt.Errorf("%w: Load - get stats: %v", ErrInternal, err)
	}

	days, err := l.calendar.GetAvailability(ctx, propertyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: Load - get calendar: %v", ErrInternal, err)
	}

	prices := make(map[string]float64, len(days))
	for _, day := range days {
		prices[day.Date.Format(domain.DateFormat)] = day.EffectivePrice(property.BasePrice)
	}

	return &Context{
		Property:      property,
		Stats:         *stats,
		Market:        l.market.GetMarketSnapshot(ctx, property.Cohort()),
		LocationTag:   l.market.LocationTag(property.Location.City),
		CurrentPrices: prices,
	}, nil
}
