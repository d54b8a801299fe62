package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/calendar"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/market"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func TestContextLoader_Load(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	props := store.Properties()
	p := props.Add(&domain.Property{
		HostID:       5,
		Location:     domain.Location{City: "Gramado", State: "RS"},
		PropertyType: "chalet",
		Bedrooms:     1,
		BasePrice:    300,
		IsActive:     true,
	})
	props.AddReview(p.ID, 5)

	cal := calendar.NewService(store.Availability(), props, memory.NewTransactionManager(store), logger.NewNop(), calendar.Config{})
	_, err := cal.ApplyRule(ctx, 5, p.ID, domain.CalendarRule{
		StartDate: day("2026-07-10"), EndDate: day("2026-07-10"), Action: domain.PriceOverrideAction{Price: 420},
	})
	require.NoError(t, err)

	now := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	analyzer := market.NewAnalyzer(props, store.Reservations(), nil, nil, fixedTime{now: now}, logger.NewNop(), market.Config{
		MountainCities: []string{"Gramado"},
	})

	pc, err := NewContextLoader(props, analyzer, cal).Load(ctx, p.ID, day("2026-07-09"), day("2026-07-11"), now)
	require.NoError(t, err)

	assert.Equal(t, p.ID, pc.Property.ID)
	assert.Equal(t, 1, pc.Stats.ReviewCount)
	assert.Equal(t, domain.LocationMountain, pc.LocationTag)
	assert.Equal(t, 1, pc.Market.ComparableCount)
	assert.Equal(t, 420.0, pc.OriginalPrice(day("2026-07-10")))
	assert.Equal(t, 300.0, pc.OriginalPrice(day("2026-07-11")))

	_, err = NewContextLoader(props, analyzer, cal).Load(ctx, 999, day("2026-07-09"), day("2026-07-11"), now)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}
