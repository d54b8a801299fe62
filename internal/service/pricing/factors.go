package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Пороги и веса факторов
const (
	summerBeach    = 0.30
	summerOther    = 0.10
	winterMountain = 0.25
	winterBeach    = -0.10
	shoulderBoost  = 0.05

	weekendDemand     = 0.15
	strongBookings    = 0.10
	strongBookingsMin = 2.0
	demandCap         = 0.30

	overpricedRatio   = 1.10
	overpricedAdjust  = -0.10
	underpricedRatio  = 0.80
	underpricedAdjust = 0.15

	topRating          = 4.5
	topRatingReviews   = 10
	topRatingBoost     = 0.10
	goodRating         = 4.0
	goodRatingReviews  = 5
	goodRatingBoost    = 0.05
	amenityBoost       = 0.05
	qualityCap         = 0.20

	baseConfidence = 50
	maxConfidence  = 95
)

// Пороги попадания фактора в пояснение
const (
	notableSeasonality = 0.10
	notableQuality     = 0.10
	notableAdvisory    = 0.05
)

// SeasonalityFactor надбавка сезона для даты и тега города
func SeasonalityFactor(date time.Time, tag domain.LocationTag) float64 {
	switch domain.SeasonOf(date.Month()) {
	case domain.SeasonSummer:
		if tag == domain.LocationBeach {
			return summerBeach
		}
		return summerOther
	case domain.SeasonWinter:
		switch tag {
		case domain.LocationMountain:
			return winterMountain
		case domain.LocationBeach:
			return winterBeach
		}
		return 0
	default:
		return shoulderBoost
	}
}

// DemandFactor надбавка спроса: выходные и высокая частота бронирований
func DemandFactor(date time.Time, stats domain.PropertyStats) float64 {
	var f float64
	if isWeekend(date) {
		f += weekendDemand
	}
	if stats.BookingsPerDay() > strongBookingsMin {
		f += strongBookings
	}
	return math.Min(f, demandCap)
}

// CompetitionFactor поправка на цену относительно средней по когорте
func CompetitionFactor(basePrice float64, market *domain.MarketSnapshot) float64 {
	if market == nil || market.AveragePrice <= 0 {
		return 0
	}
	switch {
	case basePrice > market.AveragePrice*overpricedRatio:
		return overpricedAdjust
	case basePrice < market.AveragePrice*underpricedRatio:
		return underpricedAdjust
	default:
		return 0
	}
}

// QualityFactor надбавка за рейтинг и премиальные удобства
func QualityFactor(property *domain.Property, stats domain.PropertyStats) float64 {
	var f float64
	switch {
	case stats.AverageRating >= topRating && stats.ReviewCount >= topRatingReviews:
		f += topRatingBoost
	case stats.AverageRating >= goodRating && stats.ReviewCount >= goodRatingReviews:
		f += goodRatingBoost
	}
	if property.HasPremiumAmenity() {
		f += amenityBoost
	}
	return math.Min(f, qualityCap)
}

// Confidence уверенность рекомендации. От советника не зависит
func Confidence(market *domain.MarketSnapshot, stats domain.PropertyStats) int {
	c := baseConfidence
	if market != nil {
		switch {
		case market.ComparableCount >= 10:
			c += 20
		case market.ComparableCount >= 5:
			c += 10
		}
	}
	switch {
	case stats.ReviewCount >= 20:
		c += 15
	case stats.ReviewCount >= 10:
		c += 10
	case stats.ReviewCount >= 5:
		c += 5
	}
	if market != nil && market.OccupancyRate > 0 {
		c += 15
	}
	if c > maxConfidence {
		c = maxConfidence
	}
	return c
}

// FinalAdjustment среднее внутренних факторов, усредненное с советником, если он есть
func FinalAdjustment(f domain.PricingFactors, advisory *float64) float64 {
	mean := f.Mean()
	if advisory == nil {
		return mean
	}
	return (*advisory + mean) / 2
}

// RecommendedPrice округленная цена, не меньше 1
func RecommendedPrice(basePrice, adjustment float64) float64 {
	return math.Max(1, math.Round(basePrice*(1+adjustment)))
}

// Reasoning человекочитаемое пояснение по заметным факторам
func Reasoning(f domain.PricingFactors, date time.Time, stats domain.PropertyStats, advisory *float64) string {
	reasons := make([]string, 0, 6)
	switch {
	case f.Seasonality > notableSeasonality:
		reasons = append(reasons, "high season")
	case f.Seasonality < 0:
		reasons = append(reasons, "low season")
	}
	if isWeekend(date) {
		reasons = append(reasons, "weekend demand")
	}
	if stats.BookingsPerDay() > strongBookingsMin {
		reasons = append(reasons, "strong recent bookings")
	}
	switch {
	case f.Competition > 0:
		reasons = append(reasons, "priced below market")
	case f.Competition < 0:
		reasons = append(reasons, "priced above market")
	}
	if f.Quality >= notableQuality {
		reasons = append(reasons, "well-reviewed listing")
	}
	if advisory != nil && math.Abs(*advisory) > notableAdvisory {
		reasons = append(reasons, "market model adjustment")
	}
	if len(reasons) == 0 {
		return "maintain current price"
	}
	return strings.Join(reasons, ", ")
}

func isWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
