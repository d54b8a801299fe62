package domain

import (
	"fmt"
	"strings"
	"time"
)

// Cohort identifies the set of comparable properties
type Cohort struct {
	City         string
	State        string
	PropertyType string
	Bedrooms     int
}

// CacheKey returns the snapshot cache key of the cohort
func (c Cohort) CacheKey() string {
	return fmt.Sprintf("market:%s:%s:%s:%d",
		strings.ToLower(c.City), strings.ToLower(c.State), strings.ToLower(c.PropertyType), c.Bedrooms)
}

// SeasonalityBucket is a coarse demand-intensity class
type SeasonalityBucket string

const (
	SeasonalityLow    SeasonalityBucket = "low"
	SeasonalityMedium SeasonalityBucket = "medium"
	SeasonalityHigh   SeasonalityBucket = "high"
	SeasonalityPeak   SeasonalityBucket = "peak"
)

// LocationTag classifies a city for seasonality
type LocationTag string

const (
	LocationNone     LocationTag = "none"
	LocationBeach    LocationTag = "beach"
	LocationMountain LocationTag = "mountain"
)

// Season of the Brazilian calendar
type Season string

const (
	SeasonSummer   Season = "summer"   // December - March
	SeasonWinter   Season = "winter"   // June - September
	SeasonShoulder Season = "shoulder" // April, May, October, November
)

// SeasonOf returns the Brazilian season of a month
func SeasonOf(month time.Month) Season {
	switch month {
	case time.December, time.January, time.February, time.March:
		return SeasonSummer
	case time.June, time.July, time.August, time.September:
		return SeasonWinter
	default:
		return SeasonShoulder
	}
}

// BucketFor returns the seasonality bucket of a month for a location tag
func BucketFor(month time.Month, tag LocationTag) SeasonalityBucket {
	switch SeasonOf(month) {
	case SeasonSummer:
		if tag == LocationBeach {
			return SeasonalityPeak
		}
		return SeasonalityHigh
	case SeasonWinter:
		switch tag {
		case LocationMountain:
			return SeasonalityPeak
		case LocationBeach:
			return SeasonalityLow
		}
		return SeasonalityMedium
	default:
		return SeasonalityMedium
	}
}

// MarketSnapshot is the cached aggregate of a cohort
type MarketSnapshot struct {
	Cohort          Cohort            `json:"cohort"`
	AveragePrice    float64           `json:"averagePrice"`
	OccupancyRate   float64           `json:"occupancyRate"` // percent, 0-100
	DemandScore     float64           `json:"demandScore"`   // 0-100
	ComparableCount int               `json:"comparableCount"`
	Seasonality     SeasonalityBucket `json:"seasonality"`
	ComputedAt      time.Time         `json:"computedAt"`
}

// NeutralSnapshot is returned when market data is absent
func NeutralSnapshot(cohort Cohort, now time.Time) *MarketSnapshot {
	return &MarketSnapshot{
		Cohort:      cohort,
		DemandScore: 50,
		Seasonality: SeasonalityMedium,
		ComputedAt:  now,
	}
}

// HasComparables returns true if the snapshot is backed by cohort data
func (s *MarketSnapshot) HasComparables() bool {
	return s.ComparableCount > 0 && s.AveragePrice > 0
}
