package get_pricing_recommendations

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	getPricing "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_pricing_recommendations"
)

// FactorsResponse вклад факторов в процентах
type FactorsResponse struct {
	Demand      float64 `json:"demand"`
	Competition float64 `json:"competition"`
	Seasonality float64 `json:"seasonality"`
	Quality     float64 `json:"quality"`
}

// RecommendationResponse рекомендация на одну дату
type RecommendationResponse struct {
	Date              string          `json:"date"`
	OriginalPrice     float64         `json:"originalPrice"`
	RecommendedPrice  float64         `json:"recommendedPrice"`
	AdjustmentPercent float64         `json:"adjustmentPercent"`
	Reasoning         string          `json:"reasoning"`
	Confidence        int             `json:"confidence"`
	Factors           FactorsResponse `json:"factors"`
}

// RecommendationsResponse HTTP response model
type RecommendationsResponse struct {
	PropertyID      int64                    `json:"propertyId"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}

func FromUseCaseResponse(resp *getPricing.Response) *RecommendationsResponse {
	out := &RecommendationsResponse{
		PropertyID:      resp.PropertyID,
		Recommendations: make([]RecommendationResponse, 0, len(resp.Recommendations)),
	}
	for _, rec := range resp.Recommendations {
		out.Recommendations = append(out.Recommendations, RecommendationResponse{
			Date:              handlers.FormatDate(rec.Date),
			OriginalPrice:     rec.OriginalPrice,
			RecommendedPrice:  rec.RecommendedPrice,
			AdjustmentPercent: rec.AdjustmentPercent,
			Reasoning:         rec.Reasoning,
			Confidence:        rec.Confidence,
			Factors: FactorsResponse{
				Demand:      rec.DemandFactor,
				Competition: rec.CompetitionFactor,
				Seasonality: rec.SeasonalityFactor,
				Quality:     rec.QualityFactor,
			},
		})
	}
	return out
}
