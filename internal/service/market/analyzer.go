package market

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Config настройки анализатора рынка
type Config struct {
	CacheTTL       time.Duration
	BeachCities    []string
	MountainCities []string
}

// Analyzer считает рыночный снимок когорты и кэширует его
type Analyzer struct {
	propertyRepo    PropertyRepository
	reservationRepo ReservationRepository
	cache           Cache
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger

	ttl      time.Duration
	cityTags map[string]domain.LocationTag
}

// NewAnalyzer создает анализатор. cache и metrics могут быть nil
func NewAnalyzer(
	propertyRepo PropertyRepository,
	reservationRepo ReservationRepository,
	cache Cache,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
	cfg Config,
) *Analyzer {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = domain.DefaultMarketCacheTTL
	}

	tags := make(map[string]domain.LocationTag, len(cfg.BeachCities)+len(cfg.MountainCities))
	for _, city := range cfg.BeachCities {
		tags[normalizeCity(city)] = domain.LocationBeach
	}
	for _, city := range cfg.MountainCities {
		tags[normalizeCity(city)] = domain.LocationMountain
	}

	return &Analyzer{
		propertyRepo:    propertyRepo,
		reservationRepo: reservationRepo,
		cache:           cache,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
		ttl:             cfg.CacheTTL,
		cityTags:        tags,
	}
}

// LocationTag возвращает тег города (без учета регистра)
func (a *Analyzer) LocationTag(city string) domain.LocationTag {
	if tag, ok := a.cityTags[normalizeCity(city)]; ok {
		return tag
	}
	return domain.LocationNone
}

// GetMarketSnapshot возвращает снимок когорты. Никогда не возвращает ошибку:
// при пустой когорте или сбое хранилища отдается нейтральный снимок
func (a *Analyzer) GetMarketSnapshot(ctx context.Context, cohort domain.Cohort) *domain.MarketSnapshot {
	key := cohort.CacheKey()

	// 1. Пробуем кэш
	if snapshot, ok := a.fromCache(ctx, key); ok {
		return snapshot
	}

	now := a.timeProvider.Now()

	// 2. Считаем по хранилищу
	snapshot, err := a.compute(ctx, cohort, now)
	if err != nil {
		a.logger.Error("GetMarketSnapshot: store error for %s, using neutral snapshot: %v", key, err)
		return domain.NeutralSnapshot(cohort, now)
	}

	// 3. Сохраняем в кэш
	a.toCache(ctx, key, snapshot)
	return snapshot
}

func (a *Analyzer) compute(ctx context.Context, cohort domain.Cohort, now time.Time) (*domain.MarketSnapshot, error) {
	properties, err := a.propertyRepo.GetCohort(ctx, cohort)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		a.logger.Info("GetMarketSnapshot: empty cohort %s", cohort.CacheKey())
		return domain.NeutralSnapshot(cohort, now), nil
	}

	ids := make([]int64, 0, len(properties))
	var priceSum float64
	for _, p := range properties {
		ids = append(ids, p.ID)
		priceSum += p.BasePrice
	}

	since := now.AddDate(0, 0, -domain.MarketTrailingDays)
	recent, err := a.reservationRepo.CountCreatedSince(ctx, ids, since)
	if err != nil {
		return nil, err
	}

	size := float64(len(properties))
	bookingsPerProperty := float64(recent) / size
	occupancy := math.Min(bookingsPerProperty/domain.MarketTrailingDays*100, 100)
	demand := math.Min(bookingsPerProperty*10+occupancy*0.5, 100)

	return &domain.MarketSnapshot{
		Cohort:          cohort,
		AveragePrice:    priceSum / size,
		OccupancyRate:   occupancy,
		DemandScore:     demand,
		ComparableCount: len(properties),
		Seasonality:     domain.BucketFor(now.Month(), a.LocationTag(cohort.City)),
		ComputedAt:      now,
	}, nil
}

func (a *Analyzer) fromCache(ctx context.Context, key string) (*domain.MarketSnapshot, bool) {
	if a.cache == nil {
		return nil, false
	}

	data, found, err := a.cache.Get(ctx, key)
	if err != nil {
		a.logger.Warn("GetMarketSnapshot: cache get failed for %s: %v", key, err)
		a.incCache(cacheError)
		return nil, false
	}
	if !found {
		a.incCache(cacheMiss)
		return nil, false
	}

	var snapshot domain.MarketSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		a.logger.Warn("GetMarketSnapshot: broken cache entry for %s: %v", key, err)
		a.incCache(cacheError)
		return nil, false
	}

	a.incCache(cacheHit)
	return &snapshot, true
}

func (a *Analyzer) toCache(ctx context.Context, key string, snapshot *domain.MarketSnapshot) {
	if a.cache == nil {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		a.logger.Warn("GetMarketSnapshot: failed to marshal snapshot for %s: %v", key, err)
		return
	}
	if err := a.cache.Set(ctx, key, data, a.ttl); err != nil {
		a.logger.Warn("GetMarketSnapshot: cache set failed for %s: %v", key, err)
	}
}

func (a *Analyzer) incCache(result string) {
	if a.metrics != nil {
		a.metrics.IncMarketCache(result)
	}
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
