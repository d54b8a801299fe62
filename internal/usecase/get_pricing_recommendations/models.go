package get_pricing_recommendations

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модель запроса рекомендаций
type Request struct {
	UserID     int64     // ID хозяина
	PropertyID int64     // ID объекта
	From       time.Time // Первая дата (включительно)
	To         time.Time // Последняя дата (включительно)
}

// Response рекомендации по каждой дате диапазона
type Response struct {
	PropertyID      int64
	Recommendations []domain.PricingRecommendation
}
