package get_pricing_recommendations

import (
	"context"
	"errors"
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

func day(s string) time.Time {
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

type failingLoader struct{ err error }

func (l failingLoader) Load(context.Context, int64, time.Time, time.Time, time.Time) (*pricing.Context, error) {
	return nil, l.err
}

func newUseCase(t *testing.T) (*UseCase, *domain.Property) {
	t.Helper()
	store := memory.NewStore()
	props := store.Properties()
	p := props.Add(&domain.Property{
		HostID:       7,
		Location:     domain.Location{City: "Florianópolis", State: "SC"},
		PropertyType: "apartment",
		Bedrooms:     2,
		BasePrice:    250,
		IsActive:     true,
	})

	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	cal := calendar.NewService(store.Availability(), props, memory.NewTransactionManager(store), logger.NewNop(), calendar.Config{})
	analyzer := market.NewAnalyzer(props, store.Reservations(), nil, nil, fixedTime{now: now}, logger.NewNop(), market.Config{
		BeachCities: []string{"Florianópolis"},
	})
	engine := pricing.NewEngine(nil, nil, logger.NewNop(), pricing.Config{})

	uc := NewUseCase(pricing.NewContextLoader(props, analyzer, cal), engine, logger.NewNop(), Config{})
	uc.timeProvider = fixedTime{now: now}
	return uc, p
}

func TestExecute_OneRecommendationPerDate(t *testing.T) {
	uc, p := newUseCase(t)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 7, PropertyID: p.ID, From: day("2026-01-10"), To: day("2026-01-16"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Recommendations, 7)
	for i, rec := range resp.Recommendations {
		assert.True(t, rec.Date.Equal(day("2026-01-10").AddDate(0, 0, i)))
		assert.Equal(t, 250.0, rec.OriginalPrice)
		assert.Greater(t, rec.RecommendedPrice, 0.0)
	}
}

func TestExecute_SingleDayRange(t *testing.T) {
	uc, p := newUseCase(t)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 7, PropertyID: p.ID, From: day("2026-02-01"), To: day("2026-02-01"),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Recommendations, 1)
}

func TestExecute_Errors(t *testing.T) {
	uc, p := newUseCase(t)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"nil request", nil, ErrInvalidInput},
		{"to before from", &Request{UserID: 7, PropertyID: p.ID, From: day("2026-02-10"), To: day("2026-02-09")}, ErrInvalidInput},
		{"too wide", &Request{UserID: 7, PropertyID: p.ID, From: day("2026-02-01"), To: day("2026-02-01").AddDate(0, 0, 180)}, ErrRangeTooWide},
		{"not found", &Request{UserID: 7, PropertyID: 999, From: day("2026-02-01"), To: day("2026-02-02")}, ErrPropertyNotFound},
		{"not host", &Request{UserID: 8, PropertyID: p.ID, From: day("2026-02-01"), To: day("2026-02-02")}, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// ровно 180 дней допустимо
	_, err := uc.Execute(context.Background(), &Request{
		UserID: 7, PropertyID: p.ID, From: day("2026-02-01"), To: day("2026-02-01").AddDate(0, 0, 179),
	})
	assert.NoError(t, err)
}

func TestExecute_LoaderFailureIsInternal(t *testing.T) {
	uc := NewUseCase(failingLoader{err: errors.New("connection reset")}, nil, logger.NewNop(), Config{})

	_, err := uc.Execute(context.Background(), &Request{UserID: 1, PropertyID: 1, From: day("2026-02-01"), To: day("2026-02-02")})
	assert.ErrorIs(t, err, ErrInternal)
}
