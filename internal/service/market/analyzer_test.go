package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	memoryCache "github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/memory"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type countingProperties struct {
	PropertyRepository
	calls int
	err   error
}

func (c *countingProperties) GetCohort(ctx context.Context, cohort domain.Cohort) ([]*domain.Property, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.PropertyRepository.GetCohort(ctx, cohort)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("redis down")
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("redis down")
}

type cacheMetrics struct{ results []string }

func (m *cacheMetrics) IncMarketCache(result string) { m.results = append(m.results, result) }

var january = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

var cohort = domain.Cohort{City: "Florianópolis", State: "SC", PropertyType: "apartment", Bedrooms: 2}

func newAnalyzer(t *testing.T, props PropertyRepository, store *memory.Store, cache Cache, m Metrics) *Analyzer {
	t.Helper()
	return NewAnalyzer(props, store.Reservations(), cache, m, &fixedTime{now: january}, logger.NewNop(), Config{
		CacheTTL:       time.Hour,
		BeachCities:    []string{"Florianópolis"},
		MountainCities: []string{"Gramado"},
	})
}

func TestGetMarketSnapshot_EmptyCohortIsNeutral(t *testing.T) {
	store := memory.NewStore()
	analyzer := newAnalyzer(t, store.Properties(), store, nil, nil)

	snapshot := analyzer.GetMarketSnapshot(context.Background(), cohort)

	require.NotNil(t, snapshot)
	assert.Equal(t, 50.0, snapshot.DemandScore)
	assert.Equal(t, domain.SeasonalityMedium, snapshot.Seasonality)
	assert.Zero(t, snapshot.AveragePrice)
	assert.Zero(t, snapshot.OccupancyRate)
}

func TestGetMarketSnapshot_Computation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.SetClock(func() time.Time { return january.AddDate(0, 0, -3) })

	props := store.Properties()
	a := props.Add(&domain.Property{Location: domain.Location{City: "Florianópolis", State: "SC"}, PropertyType: "apartment", Bedrooms: 2, BasePrice: 200, IsActive: true})
	b := props.Add(&domain.Property{Location: domain.Location{City: "florianópolis", State: "sc"}, PropertyType: "Apartment", Bedrooms: 2, BasePrice: 300, IsActive: true})
	props.Add(&domain.Property{Location: domain.Location{City: "Florianópolis", State: "SC"}, PropertyType: "apartment", Bedrooms: 2, BasePrice: 900, IsActive: false})

	// 6 бронирований на 2 объекта: 3 на объект
	for i := 0; i < 3; i++ {
		for _, id := range []int64{a.ID, b.ID} {
			checkIn := time.Date(2026, 3, 1+i*5, 0, 0, 0, 0, time.UTC)
			_, err := store.Reservations().Create(ctx, &domain.Reservation{
				PropertyID: id, CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 2), Status: domain.StatusConfirmed,
			})
			require.NoError(t, err)
		}
	}

	snapshot := newAnalyzer(t, props, store, nil, nil).GetMarketSnapshot(ctx, cohort)

	assert.Equal(t, 2, snapshot.ComparableCount)
	assert.InDelta(t, 250.0, snapshot.AveragePrice, 1e-9)
	// 3 / 30 * 100
	assert.InDelta(t, 10.0, snapshot.OccupancyRate, 1e-9)
	// 3*10 + 10*0.5
	assert.InDelta(t, 35.0, snapshot.DemandScore, 1e-9)
	// январь, пляж
	assert.Equal(t, domain.SeasonalityPeak, snapshot.Seasonality)
}

func TestGetMarketSnapshot_OccupancyCapped(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.SetClock(func() time.Time { return january.AddDate(0, 0, -1) })

	p := store.Properties().Add(&domain.Property{Location: domain.Location{City: "Florianópolis", State: "SC"}, PropertyType: "apartment", Bedrooms: 2, BasePrice: 100, IsActive: true})
	for i := 0; i < 40; i++ {
		checkIn := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i*2)
		_, err := store.Reservations().Create(ctx, &domain.Reservation{
			PropertyID: p.ID, CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 1), Status: domain.StatusConfirmed,
		})
		require.NoError(t, err)
	}

	snapshot := newAnalyzer(t, store.Properties(), store, nil, nil).GetMarketSnapshot(ctx, cohort)

	assert.Equal(t, 100.0, snapshot.OccupancyRate)
	assert.Equal(t, 100.0, snapshot.DemandScore)
}

func TestGetMarketSnapshot_CacheHitAvoidsStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.Properties().Add(&domain.Property{Location: domain.Location{City: "Florianópolis", State: "SC"}, PropertyType: "apartment", Bedrooms: 2, BasePrice: 200, IsActive: true})

	cache, err := memoryCache.New(16)
	require.NoError(t, err)
	props := &countingProperties{PropertyRepository: store.Properties()}
	m := &cacheMetrics{}
	analyzer := newAnalyzer(t, props, store, cache, m)

	first := analyzer.GetMarketSnapshot(ctx, cohort)
	second := analyzer.GetMarketSnapshot(ctx, cohort)

	assert.Equal(t, 1, props.calls)
	assert.Equal(t, first.AveragePrice, second.AveragePrice)
	assert.Equal(t, first.ComparableCount, second.ComparableCount)
	assert.Equal(t, []string{cacheMiss, cacheHit}, m.results)
}

func TestGetMarketSnapshot_StoreFailureIsNeutralAndNotCached(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cache, err := memoryCache.New(16)
	require.NoError(t, err)

	props := &countingProperties{PropertyRepository: store.Properties(), err: errors.New("connection refused")}
	analyzer := newAnalyzer(t, props, store, cache, nil)

	snapshot := analyzer.GetMarketSnapshot(ctx, cohort)
	assert.Equal(t, 50.0, snapshot.DemandScore)
	assert.Equal(t, domain.SeasonalityMedium, snapshot.Seasonality)

	_, found, err := cache.Get(ctx, cohort.CacheKey())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetMarketSnapshot_CacheErrorsAreMisses(t *testing.T) {
	store := memory.NewStore()
	store.Properties().Add(&domain.Property{Location: domain.Location{City: "Florianópolis", State: "SC"}, PropertyType: "apartment", Bedrooms: 2, BasePrice: 200, IsActive: true})

	snapshot := newAnalyzer(t, store.Properties(), store, failingCache{}, nil).GetMarketSnapshot(context.Background(), cohort)

	assert.Equal(t, 1, snapshot.ComparableCount)
}

func TestLocationTag(t *testing.T) {
	store := memory.NewStore()
	analyzer := newAnalyzer(t, store.Properties(), store, nil, nil)

	assert.Equal(t, domain.LocationBeach, analyzer.LocationTag(" FLORIANÓPOLIS "))
	assert.Equal(t, domain.LocationMountain, analyzer.LocationTag("gramado"))
	assert.Equal(t, domain.LocationNone, analyzer.LocationTag("Brasília"))
}
