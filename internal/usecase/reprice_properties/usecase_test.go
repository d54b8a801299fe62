package reprice_properties

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/calendar"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/market"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/pricing"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type repricedCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *repricedCounter) IncRepriced(result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[result]++
}

// brokenCalendar отказывает в записи для одного объекта
type brokenCalendar struct {
	Calendar
	propertyID int64
}

func (c brokenCalendar) ApplyMutations(ctx context.Context, propertyID int64, mutations []domain.DayMutation) error {
	if propertyID == c.propertyID {
		return errors.New("calendar: write failed")
	}
	return c.Calendar.ApplyMutations(ctx, propertyID, mutations)
}

type failingList struct{}

func (failingList) ListActiveIDs(context.Context) ([]int64, error) {
	return nil, errors.New("connection refused")
}

type fixture struct {
	store    *memory.Store
	calendar *calendar.Service
	loader   *pricing.ContextLoader
	engine   *pricing.Engine
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	props := store.Properties()
	now := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)

	cal := calendar.NewService(store.Availability(), props, memory.NewTransactionManager(store), logger.NewNop(), calendar.Config{})
	analyzer := market.NewAnalyzer(props, store.Reservations(), nil, nil, fixedTime{now: now}, logger.NewNop(), market.Config{})
	return &fixture{
		store:    store,
		calendar: cal,
		loader:   pricing.NewContextLoader(props, analyzer, cal),
		engine:   pricing.NewEngine(nil, nil, logger.NewNop(), pricing.Config{}),
		now:      now,
	}
}

func (f *fixture) addProperty(active bool) *domain.Property {
	return f.store.Properties().Add(&domain.Property{
		HostID: 1, Location: domain.Location{City: "Curitiba", State: "PR"}, PropertyType: "house",
		Bedrooms: 3, BasePrice: 180, IsActive: active,
	})
}

func (f *fixture) useCase(cal Calendar, metrics Metrics, concurrency int) *UseCase {
	uc := NewUseCase(f.store.Properties(), f.loader, f.engine, cal, metrics, logger.NewNop(), Config{
		HorizonDays: 10, Concurrency: concurrency,
	})
	uc.timeProvider = fixedTime{now: f.now}
	return uc
}

func TestExecute_WritesHorizonPricesOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addProperty(true)
	inactive := f.addProperty(false)

	// закрытый день должен остаться закрытым
	require.NoError(t, f.calendar.ApplyMutations(ctx, p.ID, []domain.DayMutation{
		{Date: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), Action: domain.BlockAction{}},
	}))

	counter := &repricedCounter{}
	result, err := f.useCase(f.calendar, counter, 2).Execute(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 10, result.Days)
	assert.Equal(t, 1, counter.counts[resultSuccess])

	days, err := f.calendar.GetAvailability(ctx, p.ID, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, days, 12)

	// сегодня и день после горизонта не трогаются
	assert.Nil(t, days[0].Price)
	assert.Nil(t, days[11].Price)
	for _, d := range days[1:11] {
		require.NotNil(t, d.Price, d.Date.Format(domain.DateFormat))
		assert.Greater(t, *d.Price, 0.0)
	}
	assert.True(t, days[2].IsBlocked)

	untouched, err := f.store.Availability().GetRange(ctx, inactive.ID, days[0].Date, days[11].Date)
	require.NoError(t, err)
	assert.Empty(t, untouched)
}

func TestExecute_PropertyFailureIsCounted(t *testing.T) {
	f := newFixture(t)
	ok1 := f.addProperty(true)
	broken := f.addProperty(true)
	ok2 := f.addProperty(true)

	counter := &repricedCounter{}
	result, err := f.useCase(brokenCalendar{Calendar: f.calendar, propertyID: broken.ID}, counter, 1).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, counter.counts[resultSuccess])
	assert.Equal(t, 1, counter.counts[resultFailure])

	for _, id := range []int64{ok1.ID, ok2.ID} {
		days, err := f.store.Availability().GetRange(context.Background(), id, f.now, f.now.AddDate(0, 0, 30))
		require.NoError(t, err)
		assert.Len(t, days, 10)
	}
}

func TestExecute_ListFailure(t *testing.T) {
	f := newFixture(t)
	uc := NewUseCase(failingList{}, f.loader, f.engine, f.calendar, nil, logger.NewNop(), Config{})

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_CancelledContext(t *testing.T) {
	f := newFixture(t)
	f.addProperty(true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.useCase(f.calendar, nil, 1).Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
