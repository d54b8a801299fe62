package get_pricing_recommendations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/pricing"
)

// Config настройки use case
type Config struct {
	MaxRangeDays int
}

// UseCase use case для получения рекомендаций цен хозяином объекта
type UseCase struct {
	loader       ContextLoader
	engine       Engine
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(loader ContextLoader, engine Engine, logger Logger, cfg Config) *UseCase {
	if cfg.MaxRangeDays <= 0 {
		cfg.MaxRangeDays = domain.DefaultMaxPricingRangeDays
	}
	return &UseCase{
		loader:       loader,
		engine:       engine,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		cfg:          cfg,
	}
}

// Execute выполняет use case получения рекомендаций
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req, uc.cfg.MaxRangeDays); err != nil {
		uc.logger.Warn("GetPricingRecommendations: validation failed: %v", err)
		return nil, err
	}

	from, to := domain.TruncateToDay(req.From), domain.TruncateToDay(req.To)
	uc.logger.Info("GetPricingRecommendations: user=%d property=%d %s..%s",
		req.UserID, req.PropertyID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	// 2. Загружаем объект, статистику, рынок и текущие цены
	pc, err := uc.loader.Load(ctx, req.PropertyID, from, to, uc.timeProvider.Now())
	if err != nil {
		if errors.Is(err, pricing.ErrPropertyNotFound) {
			uc.logger.Warn("GetPricingRecommendations: property id=%d not found", req.PropertyID)
			return nil, ErrPropertyNotFound
		}
		uc.logger.Error("GetPricingRecommendations: failed to load property id=%d: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: failed to load pricing context: %v", ErrInternal, err)
	}

	// 3. Рекомендации видит только хозяин
	if !pc.Property.IsOwnedBy(req.UserID) {
		uc.logger.Warn("GetPricingRecommendations: user=%d is not host of property id=%d", req.UserID, req.PropertyID)
		return nil, ErrAccessDenied
	}

	// 4. Считаем рекомендации
	recommendations := uc.engine.Recommend(ctx, pc, domain.DatesInRange(from, to))

	uc.logger.Info("GetPricingRecommendations: %d recommendations for property id=%d",
		len(recommendations), req.PropertyID)
	return &Response{
		PropertyID:      req.PropertyID,
		Recommendations: recommendations,
	}, nil
}
