package domain

import "time"

// Default configuration values
const (
	DefaultMaxRangeDays          = 366
	DefaultMaxStayNights         = 365
	DefaultFreeCancellationHours = 48
	DefaultCheckInHour           = 15 // 15:00 UTC
	DefaultPendingTTL            = 30 * time.Minute
	DefaultMarketCacheTTL        = 6 * time.Hour
	DefaultAdvisorTimeout        = 2 * time.Second
	DefaultMaxPricingRangeDays   = 180
	DefaultRepriceHorizonDays    = 60
	DefaultRepriceConcurrency    = 4
)

// Business validation constants
const (
	// MaxRuleSpanDays ограничение на ширину окна одного правила календаря
	MaxRuleSpanDays = 731
	MaxNotesLength  = 500

	// MarketTrailingDays окно, за которое считаются недавние бронирования
	MarketTrailingDays = 30

	MinAdvisoryAdjustment = -0.5
	MaxAdvisoryAdjustment = 1.0
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы бронирований, занимающих даты
// PENDING тоже блокирует: иначе два неоплаченных запроса могут занять одни и те же даты
var BlockingStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// InactiveStatuses статусы, которые никогда не блокируют новые бронирования
var InactiveStatuses = []ReservationStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// PremiumAmenities удобства, повышающие оценку качества объекта
var PremiumAmenities = []string{
	"pool",
	"wifi",
	"kitchen",
	"parking",
	"air conditioning",
}
