package cancel_reservation

import (
	"context"
	"encoding/json"
	"errors"
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

var now = time.Date(2026, 4, 20, 9, 30, 0, 0, time.UTC)

type stubService struct {
	gotID, gotUser int64
	gotAt          time.Time
	err            error
}

func (s *stubService) Cancel(_ context.Context, id, userID int64, cancelledAt time.Time) (*models.CancelResponse, error) {
	s.gotID, s.gotUser, s.gotAt = id, userID, cancelledAt
	if s.err != nil {
		return nil, s.err
	}
	return &models.CancelResponse{ReservationID: id, Status: "cancelled", RefundPercentage: 100, RefundAmount: 750, CancelledAt: cancelledAt}, nil
}

func serve(svc ReservationService, target, userID string) *httptest.ResponseRecorder {
	h := NewHandler(svc, logger.NewNop())
	h.now = func() time.Time { return now }

	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/reservations/{reservationId}/cancel", h.Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, target, nil)
	req.Header.Set("X-User-ID", userID)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Cancelled(t *testing.T) {
	svc := &stubService{}
	rec := serve(svc, "/reservations/8/cancel", "3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(8), svc.gotID)
	assert.Equal(t, int64(3), svc.gotUser)
	assert.Equal(t, now, svc.gotAt)

	var body CancelReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 100, body.RefundPercentage)
	assert.Equal(t, 750.0, body.RefundAmount)
	assert.Equal(t, "cancelled", body.Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		err      error
		wantCode int
	}{
		{"bad id", "/reservations/zero/cancel", nil, http.StatusBadRequest},
		{"not found", "/reservations/8/cancel", reservations.ErrReservationNotFound, http.StatusNotFound},
		{"forbidden", "/reservations/8/cancel", reservations.ErrAccessDenied, http.StatusForbidden},
		{"already cancelled", "/reservations/8/cancel", reservations.ErrCannotCancel, http.StatusConflict},
		{"internal", "/reservations/8/cancel", errors.New("db"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, serve(&stubService{err: tt.err}, tt.target, "3").Code)
		})
	}
}
