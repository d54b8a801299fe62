package upsert_calendar_days

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/calendar"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type fixture struct {
	router   *mux.Router
	calendar *calendar.Service
	property int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	p := store.Properties().Add(&domain.Property{HostID: 1, BasePrice: 150, IsActive: true})
	svc := calendar.NewService(store.Availability(), store.Properties(), memory.NewTransactionManager(store), logger.NewNop(), calendar.Config{})

	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/properties/{propertyId}/calendar/days", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPut)
	return &fixture{router: r, calendar: svc, property: p.ID}
}

func (f *fixture) put(userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/properties/"+strconv.FormatInt(f.property, 10)+"/calendar/days", strings.NewReader(body))
	req.Header.Set("X-User-ID", userID)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) days(t *testing.T) []*domain.AvailabilityDay {
	t.Helper()
	days, err := f.calendar.GetAvailability(context.Background(), f.property,
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return days
}

func TestHandle_Upserts(t *testing.T) {
	f := newFixture(t)
	rec := f.put("1", `{"days":[
		{"date":"2026-07-01","isBlocked":true},
		{"date":"2026-07-02","price":199.9,"minStay":3}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	days := f.days(t)
	assert.True(t, days[0].IsBlocked)
	require.NotNil(t, days[1].Price)
	assert.Equal(t, 199.9, *days[1].Price)
	assert.Equal(t, 3, *days[1].MinStay)
}

func TestHandle_InvalidEntryWritesNothing(t *testing.T) {
	f := newFixture(t)
	rec := f.put("1", `{"days":[
		{"date":"2026-07-01","isBlocked":true},
		{"date":"2026-07-02","price":-5}
	]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, d := range f.days(t) {
		assert.False(t, d.IsBlocked)
		assert.Nil(t, d.Price)
	}
}

func TestHandle_Errors(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusBadRequest, f.put("1", `{"days":[]}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.put("1", `{"days":[{"date":"July 1"}]}`).Code)
	assert.Equal(t, http.StatusForbidden, f.put("2", `{"days":[{"date":"2026-07-01"}]}`).Code)
	assert.Equal(t, http.StatusUnauthorized, f.put("", `{"days":[{"date":"2026-07-01"}]}`).Code)
}
