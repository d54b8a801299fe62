package pricing

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/pricingadvisor"
)

// Config настройки движка
type Config struct {
	AdvisorTimeout time.Duration
}

// Context данные объекта, на которых строятся рекомендации
type Context struct {
	Property    *domain.Property
	Stats       domain.PropertyStats
	Market      *domain.MarketSnapshot
	LocationTag domain.LocationTag

	// CurrentPrices действующая цена по дате (YYYY-MM-DD), по умолчанию базовая
	CurrentPrices map[string]float64
}

// OriginalPrice действующая цена даты
func (c *Context) OriginalPrice(date time.Time) float64 {
	if price, ok := c.CurrentPrices[domain.TruncateToDay(date).Format(domain.DateFormat)]; ok {
		return price
	}
	return c.Property.BasePrice
}

// Engine движок рекомендаций цен
// Создается один раз на процесс, советник и настройки передаются снаружи
type Engine struct {
	advisor Advisor
	metrics Metrics
	logger  Logger
	cfg     Config
}

// NewEngine создает движок. advisor и metrics могут быть nil
func NewEngine(advisor Advisor, metrics Metrics, logger Logger, cfg Config) *Engine {
	if cfg.AdvisorTimeout <= 0 {
		cfg.AdvisorTimeout = domain.DefaultAdvisorTimeout
	}
	return &Engine{
		advisor: advisor,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Recommend возвращает по рекомендации на каждую дату в порядке входа
func (e *Engine) Recommend(ctx context.Context, pc *Context, dates []time.Time) []domain.PricingRecommendation {
	if pc == nil || pc.Property == nil || len(dates) == 0 {
		return []domain.PricingRecommendation{}
	}

	advisory := e.advise(ctx, pc, dates)
	confidence := Confidence(pc.Market, pc.Stats)

	result := make([]domain.PricingRecommendation, 0, len(dates))
	for _, date := range dates {
		date = domain.TruncateToDay(date)

		factors := domain.PricingFactors{
			Demand:      DemandFactor(date, pc.Stats),
			Competition: CompetitionFactor(pc.Property.BasePrice, pc.Market),
			Seasonality: SeasonalityFactor(date, pc.LocationTag),
			Quality:     QualityFactor(pc.Property, pc.Stats),
		}

		final := FinalAdjustment(factors, advisory)
		recommended := RecommendedPrice(pc.Property.BasePrice, final)
		original := pc.OriginalPrice(date)

		var adjustmentPct float64
		if original > 0 {
			adjustmentPct = round2((recommended - original) / original * 100)
		}

		result = append(result, domain.PricingRecommendation{
			Date:              date,
			OriginalPrice:     original,
			RecommendedPrice:  recommended,
			AdjustmentPercent: adjustmentPct,
			Reasoning:         Reasoning(factors, date, pc.Stats, advisory),
			Confidence:        confidence,
			DemandFactor:      round2(factors.Demand * 100),
			CompetitionFactor: round2(factors.Competition * 100),
			SeasonalityFactor: round2(factors.Seasonality * 100),
			QualityFactor:     round2(factors.Quality * 100),
		})
	}
	return result
}

type advice struct {
	value float64
	err   error
}

// advise вызывает советника один раз на запрос с ограничением по времени
// nil означает "без советника"
func (e *Engine) advise(ctx context.Context, pc *Context, dates []time.Time) *float64 {
	if e.advisor == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.AdvisorTimeout)
	defer cancel()

	req := adviceRequest(pc, dates)
	ch := make(chan advice, 1)
	go func() {
		value, err := e.advisor.Advise(ctx, req)
		ch <- advice{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		e.logger.Warn("Recommend: advisor timed out for property_id=%d after %s", pc.Property.ID, e.cfg.AdvisorTimeout)
		e.incFailure("timeout")
		return nil
	case res := <-ch:
		if errors.Is(res.err, pricingadvisor.ErrNoAdvice) {
			return nil
		}
		if res.err != nil {
			e.logger.Warn("Recommend: advisor failed for property_id=%d: %v", pc.Property.ID, res.err)
			e.incFailure("error")
			return nil
		}
		if math.IsNaN(res.value) || math.IsInf(res.value, 0) {
			e.incFailure("invalid")
			return nil
		}
		value := math.Max(domain.MinAdvisoryAdjustment, math.Min(domain.MaxAdvisoryAdjustment, res.value))
		return &value
	}
}

func (e *Engine) incFailure(reason string) {
	if e.metrics != nil {
		e.metrics.IncAdvisorFailure(reason)
	}
}

func adviceRequest(pc *Context, dates []time.Time) *pricingadvisor.AdviceRequest {
	from, to := domain.TruncateToDay(dates[0]), domain.TruncateToDay(dates[0])
	for _, d := range dates[1:] {
		d = domain.TruncateToDay(d)
		if d.Before(from) {
			from = d
		}
		if d.After(to) {
			to = d
		}
	}

	req := &pricingadvisor.AdviceRequest{
		PropertyID:    pc.Property.ID,
		City:          pc.Property.Location.City,
		State:         pc.Property.Location.State,
		PropertyType:  pc.Property.PropertyType,
		Bedrooms:      pc.Property.Bedrooms,
		BasePrice:     pc.Property.BasePrice,
		AverageRating: pc.Stats.AverageRating,
		ReviewCount:   pc.Stats.ReviewCount,
		From:          from.Format(domain.DateFormat),
		To:            to.Format(domain.DateFormat),
	}
	if pc.Market != nil {
		req.MarketPrice = pc.Market.AveragePrice
		req.Occupancy = pc.Market.OccupancyRate
		req.DemandScore = pc.Market.DemandScore
		req.Seasonality = string(pc.Market.Seasonality)
	}
	return req
}
