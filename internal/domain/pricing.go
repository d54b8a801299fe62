package domain

import "time"

// PricingFactors are signed fractional adjustments (0.15 = +15%)
type PricingFactors struct {
	Demand      float64
	Competition float64
	Seasonality float64
	Quality     float64
}

// Mean returns the arithmetic mean of the four factors
func (f PricingFactors) Mean() float64 {
	return (f.Demand + f.Competition + f.Seasonality + f.Quality) / 4
}

// PricingRecommendation is the engine output for one date
type PricingRecommendation struct {
	Date              time.Time
	OriginalPrice     float64
	RecommendedPrice  float64
	AdjustmentPercent float64
	Reasoning         string
	Confidence        int // 0-95

	// factor percentages: 15 = +15%
	DemandFactor      float64
	CompetitionFactor float64
	SeasonalityFactor float64
	QualityFactor     float64
}
