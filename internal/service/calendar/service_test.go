package calendar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

const hostID = 77

type fixture struct {
	service  *Service
	store    *memory.Store
	calendar *memory.AvailabilityRepository
	property *domain.Property
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	calendar := store.Availability()
	property := store.Properties().Add(&domain.Property{
		HostID:    hostID,
		Title:     "Casa na praia",
		Location:  domain.Location{City: "Búzios", State: "RJ"},
		BasePrice: 200,
		IsActive:  true,
	})
	service := NewService(calendar, store.Properties(), memory.NewTransactionManager(store), logger.NewNop(), Config{MaxRangeDays: 366})
	return &fixture{service: service, store: store, calendar: calendar, property: property}
}

func TestGetAvailability_SynthesizesMissingDays(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.service.UpsertDay(ctx, hostID, &domain.AvailabilityDay{
		PropertyID: f.property.ID, Date: day("2026-03-02"), Price: ptr.Ptr(350.0),
	}))

	days, err := f.service.GetAvailability(ctx, f.property.ID, day("2026-03-01"), day("2026-03-03"))
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, day("2026-03-01"), days[0].Date)
	assert.False(t, days[0].IsBlocked)
	assert.Nil(t, days[0].Price)
	assert.Equal(t, 350.0, days[1].EffectivePrice(f.property.BasePrice))
	assert.Equal(t, 200.0, days[2].EffectivePrice(f.property.BasePrice))
}

func TestGetAvailability_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.GetAvailability(ctx, f.property.ID, day("2026-03-02"), day("2026-03-01"))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = f.service.GetAvailability(ctx, f.property.ID, day("2026-01-01"), day("2027-01-02"))
	assert.ErrorIs(t, err, ErrRangeTooWide)

	_, err = f.service.GetAvailability(ctx, 999, day("2026-03-01"), day("2026-03-02"))
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestBulkUpsert_InvalidEntryWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.service.BulkUpsert(ctx, hostID, f.property.ID, []*domain.AvailabilityDay{
		{Date: day("2026-03-01"), IsBlocked: true},
		{Date: day("2026-03-02"), Price: ptr.Ptr(-5.0)},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	stored, err := f.calendar.GetRange(ctx, f.property.ID, day("2026-03-01"), day("2026-03-02"))
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestBulkUpsert_StoreFailureRollsBackAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.calendar.FailOn(day("2026-03-03"), errors.New("disk full"))

	err := f.service.BulkUpsert(ctx, hostID, f.property.ID, []*domain.AvailabilityDay{
		{Date: day("2026-03-01"), IsBlocked: true},
		{Date: day("2026-03-02"), IsBlocked: true},
		{Date: day("2026-03-03"), IsBlocked: true},
	})
	require.ErrorIs(t, err, ErrInternal)

	stored, err := f.calendar.GetRange(ctx, f.property.ID, day("2026-03-01"), day("2026-03-03"))
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestBulkUpsert_RejectsDuplicatesAndForeignHost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.service.BulkUpsert(ctx, hostID, f.property.ID, []*domain.AvailabilityDay{
		{Date: day("2026-03-01")},
		{Date: day("2026-03-01")},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = f.service.BulkUpsert(ctx, hostID+1, f.property.ID, []*domain.AvailabilityDay{{Date: day("2026-03-01")}})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestApplyRule_BlockThenUnblockRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	from, to := day("2026-07-01"), day("2026-07-31")

	n, err := f.service.ApplyRule(ctx, hostID, f.property.ID, domain.CalendarRule{StartDate: from, EndDate: to, Action: domain.BlockAction{}})
	require.NoError(t, err)
	assert.Equal(t, 31, n)

	days, err := f.service.GetAvailability(ctx, f.property.ID, from, to)
	require.NoError(t, err)
	for _, d := range days {
		assert.True(t, d.IsBlocked, d.Date)
	}

	_, err = f.service.ApplyRule(ctx, hostID, f.property.ID, domain.CalendarRule{StartDate: from, EndDate: to, Action: domain.UnblockAction{}})
	require.NoError(t, err)

	days, err = f.service.GetAvailability(ctx, f.property.ID, from, to)
	require.NoError(t, err)
	require.Len(t, days, 31)
	for _, d := range days {
		assert.False(t, d.IsBlocked, d.Date)
	}
}

func TestApplyRule_TouchesOnlyOwnColumn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	from, to := day("2026-08-01"), day("2026-08-03")

	_, err := f.service.ApplyRule(ctx, hostID, f.property.ID, domain.CalendarRule{StartDate: from, EndDate: to, Action: domain.BlockAction{}})
	require.NoError(t, err)
	_, err = f.service.ApplyRule(ctx, hostID, f.property.ID, domain.CalendarRule{
		StartDate: from, EndDate: to, Action: domain.PriceOverrideAction{Price: 500}, Notes: ptr.Ptr("feriado"),
	})
	require.NoError(t, err)
	_, err = f.service.ApplyRule(ctx, hostID, f.property.ID, domain.CalendarRule{StartDate: from, EndDate: to, Action: domain.MinStayAction{Nights: 3}})
	require.NoError(t, err)

	days, err := f.service.GetAvailability(ctx, f.property.ID, from, to)
	require.NoError(t, err)
	for _, d := range days {
		assert.True(t, d.IsBlocked)
		require.NotNil(t, d.Price)
		assert.Equal(t, 500.0, *d.Price)
		require.NotNil(t, d.MinStay)
		assert.Equal(t, 3, *d.MinStay)
		assert.Nil(t, d.AdvanceNoticeHours)
		require.NotNil(t, d.Notes)
		assert.Equal(t, "feriado", *d.Notes)
	}
}

func TestApplyRule_RejectsBeforeTouchingStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	recEnd := day("2026-01-01")

	_, err := f.service.ApplyRule(ctx, hostID, f.property.ID, domain.CalendarRule{
		StartDate: day("2026-03-01"), EndDate: day("2026-03-31"), Action: domain.BlockAction{},
		Recurrence: &domain.Recurrence{Frequency: domain.FrequencyWeekly, Interval: 1, EndDate: &recEnd},
	})
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = f.service.ApplyRule(ctx, hostID+1, f.property.ID, domain.CalendarRule{
		StartDate: day("2026-03-01"), EndDate: day("2026-03-02"), Action: domain.BlockAction{},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	stored, err := f.calendar.GetRange(ctx, f.property.ID, day("2026-03-01"), day("2026-03-31"))
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestApplyMutations_SystemPathFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.calendar.FailOn(day("2026-09-02"), errors.New("timeout"))

	err := f.service.ApplyMutations(ctx, f.property.ID, []domain.DayMutation{
		{Date: day("2026-09-01"), Action: domain.PriceOverrideAction{Price: 210}},
		{Date: day("2026-09-02"), Action: domain.PriceOverrideAction{Price: 220}},
	})
	require.ErrorIs(t, err, ErrInternal)

	stored, err := f.calendar.GetRange(ctx, f.property.ID, day("2026-09-01"), day("2026-09-02"))
	require.NoError(t, err)
	assert.Empty(t, stored)
}
