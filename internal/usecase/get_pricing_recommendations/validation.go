package get_pricing_recommendations

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

func validateRequest(req *Request, maxRangeDays int) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.PropertyID <= 0 {
		return fmt.Errorf("%w: propertyID must be positive", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	from, to := domain.TruncateToDay(req.From), domain.TruncateToDay(req.To)
	if to.Before(from) {
		return fmt.Errorf("%w: to must not be before from", ErrInvalidInput)
	}

	// Диапазон включает обе границы
	if days := domain.DaysBetween(from, to) + 1; days > maxRangeDays {
		return fmt.Errorf("%w: %d days requested, maximum is %d", ErrRangeTooWide, days, maxRangeDays)
	}

	return nil
}
