package get_pricing_recommendations

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
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getPricing "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_pricing_recommendations"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type stubUseCase struct {
	got *getPricing.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *getPricing.Request) (*getPricing.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &getPricing.Response{
		PropertyID: req.PropertyID,
		Recommendations: []domain.PricingRecommendation{{
			Date: req.From, OriginalPrice: 200, RecommendedPrice: 215, AdjustmentPercent: 7.5,
			Reasoning: "high season", Confidence: 50, SeasonalityFactor: 30,
		}},
	}, nil
}

func serve(uc PricingRecommendationsUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/properties/{propertyId}/pricing/recommendations", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("X-User-ID", "7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Recommendations(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(uc, "/properties/4/pricing/recommendations?from=2026-01-10&to=2026-01-12")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), uc.got.UserID)
	assert.Equal(t, time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), uc.got.To)

	var body RecommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Recommendations, 1)
	assert.Equal(t, "2026-01-10", body.Recommendations[0].Date)
	assert.Equal(t, 215.0, body.Recommendations[0].RecommendedPrice)
	assert.Equal(t, 30.0, body.Recommendations[0].Factors.Seasonality)
}

func TestHandle_Errors(t *testing.T) {
	base := "/properties/4/pricing/recommendations?from=2026-01-10&to=2026-01-12"
	assert.Equal(t, http.StatusBadRequest, serve(&stubUseCase{}, "/properties/4/pricing/recommendations?from=2026-01-10").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&stubUseCase{err: getPricing.ErrRangeTooWide}, base).Code)
	assert.Equal(t, http.StatusNotFound, serve(&stubUseCase{err: getPricing.ErrPropertyNotFound}, base).Code)
	assert.Equal(t, http.StatusForbidden, serve(&stubUseCase{err: getPricing.ErrAccessDenied}, base).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&stubUseCase{err: getPricing.ErrInternal}, base).Code)
}
