package get_pricing_recommendations

import (
	"context"

	getPricing "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_pricing_recommendations"
)

type PricingRecommendationsUseCase interface {
	Execute(ctx context.Context, req *getPricing.Request) (*getPricing.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
