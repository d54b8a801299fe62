package get_reservation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/reservations"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/reservations/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type stubService struct{ err error }

func (s stubService) GetByID(_ context.Context, id, userID int64) (*models.ReservationResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.ReservationResponse{
		ID: id, PropertyID: 2, GuestID: userID,
		CheckIn: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), CheckOut: time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
		Nights: 2, Status: "confirmed",
	}, nil
}

func serve(svc ReservationService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/reservations/{reservationId}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("X-User-ID", "12")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Found(t *testing.T) {
	rec := serve(stubService{}, "/reservations/5")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-05-01", body["checkIn"])
	assert.Equal(t, float64(12), body["guestId"])
	assert.NotContains(t, body, "refundPercentage")
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(stubService{}, "/reservations/abc").Code)
	assert.Equal(t, http.StatusNotFound, serve(stubService{err: reservations.ErrReservationNotFound}, "/reservations/5").Code)
	assert.Equal(t, http.StatusForbidden, serve(stubService{err: reservations.ErrAccessDenied}, "/reservations/5").Code)
}
