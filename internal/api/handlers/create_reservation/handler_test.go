package create_reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type stubUseCase struct {
	got *createReservation.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &createReservation.Response{
		ID: 11, PropertyID: req.PropertyID, GuestID: req.GuestID, CheckIn: req.CheckIn, CheckOut: req.CheckOut,
		Nights: 3, Guests: req.Guests, TotalPrice: 600, Status: "pending",
	}, nil
}

func serve(uc CreateReservationUseCase, userID string, body string) *httptest.ResponseRecorder {
	handler := middleware.Auth(http.HandlerFunc(NewHandler(uc, logger.NewNop()).Handle))
	r := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body))
	if userID != "" {
		r.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec
}

const validBody = `{"propertyId":4,"checkIn":"2026-05-01","checkOut":"2026-05-04","guests":2}`

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(uc, "9", validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(9), uc.got.GuestID)
	assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), uc.got.CheckOut)

	var body ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(11), body.ID)
	assert.Equal(t, "2026-05-01", body.CheckIn)
	assert.Equal(t, "pending", body.Status)
	assert.Equal(t, 600.0, body.TotalPrice)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		body     string
		err      error
		wantCode int
	}{
		{"no user", "", validBody, nil, http.StatusUnauthorized},
		{"broken json", "9", `{"propertyId":`, nil, http.StatusBadRequest},
		{"bad date", "9", `{"propertyId":4,"checkIn":"01.05.2026","checkOut":"2026-05-04","guests":2}`, nil, http.StatusBadRequest},
		{"unavailable", "9", validBody, createReservation.ErrDatesUnavailable, http.StatusConflict},
		{"not found", "9", validBody, createReservation.ErrPropertyNotFound, http.StatusNotFound},
		{"invalid", "9", validBody, fmt.Errorf("%w: guests", createReservation.ErrInvalidInput), http.StatusBadRequest},
		{"too short", "9", validBody, createReservation.ErrStayTooShort, http.StatusBadRequest},
		{"internal", "9", validBody, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, tt.userID, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
