package reprice_properties

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Config настройки переоценки
type Config struct {
	HorizonDays int
	Concurrency int
}

// UseCase периодическая переоценка всех активных объектов
// Пишет только колонку цены, поэтому не мешает параллельным бронированиям и блокировкам
type UseCase struct {
	propertyRepo PropertyRepository
	loader       ContextLoader
	engine       Engine
	calendar     Calendar
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	propertyRepo PropertyRepository,
	loader ContextLoader,
	engine Engine,
	calendar Calendar,
	metrics Metrics,
	logger Logger,
	cfg Config,
) *UseCase {
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = domain.DefaultRepriceHorizonDays
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = domain.DefaultRepriceConcurrency
	}
	return &UseCase{
		propertyRepo: propertyRepo,
		loader:       loader,
		engine:       engine,
		calendar:     calendar,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		cfg:          cfg,
	}
}

// Execute переоценивает горизонт [завтра, завтра + HorizonDays) для каждого активного объекта
// Ошибка по одному объекту не прерывает запуск
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	now := uc.timeProvider.Now()
	from := domain.TruncateToDay(now).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, uc.cfg.HorizonDays-1)

	// 1. Активные объекты
	ids, err := uc.propertyRepo.ListActiveIDs(ctx)
	if err != nil {
		uc.logger.Error("RepriceProperties: run=%s failed to list properties: %v", runID, err)
		return nil, fmt.Errorf("%w: failed to list properties: %v", ErrInternal, err)
	}

	uc.logger.Info("RepriceProperties: run=%s started, %d properties, %s..%s",
		runID, len(ids), from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	result := &Result{RunID: runID}
	var mu sync.Mutex

	// 2. Объекты обрабатываются параллельно, не больше Concurrency одновременно
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(uc.cfg.Concurrency))

	for _, id := range ids {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			days, err := uc.repriceProperty(gctx, id, from, to, now)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				uc.logger.Warn("RepriceProperties: run=%s property id=%d failed: %v", runID, id, err)
				result.Failed++
				uc.incRepriced(resultFailure)
				return nil
			}
			result.Processed++
			result.Days += days
			uc.incRepriced(resultSuccess)
			return nil
		})
	}

	// Ошибка возможна только при отмене контекста
	if err := g.Wait(); err != nil {
		uc.logger.Warn("RepriceProperties: run=%s interrupted: %v", runID, err)
		return result, err
	}

	uc.logger.Info("RepriceProperties: run=%s finished, processed=%d failed=%d days=%d",
		runID, result.Processed, result.Failed, result.Days)
	return result, nil
}

func (uc *UseCase) repriceProperty(ctx context.Context, propertyID int64, from, to, now time.Time) (int, error) {
	pc, err := uc.loader.Load(ctx, propertyID, from, to, now)
	if err != nil {
		return 0, err
	}

	recommendations := uc.engine.Recommend(ctx, pc, domain.DatesInRange(from, to))
	mutations := make([]domain.DayMutation, 0, len(recommendations))
	for _, rec := range recommendations {
		mutations = append(mutations, domain.DayMutation{
			Date:   rec.Date,
			Action: domain.PriceOverrideAction{Price: rec.RecommendedPrice},
		})
	}

	if err := uc.calendar.ApplyMutations(ctx, propertyID, mutations); err != nil {
		return 0, err
	}
	return len(mutations), nil
}

func (uc *UseCase) incRepriced(result string) {
	if uc.metrics != nil {
		uc.metrics.IncRepriced(result)
	}
}
