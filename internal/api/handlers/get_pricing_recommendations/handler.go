package get_pricing_recommendations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	getPricing "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_pricing_recommendations"
)

const (
	msgInvalidPropertyID = "некорректный ID объекта"
	msgInvalidDates      = "некорректные даты, ожидается from и to в формате YYYY-MM-DD"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidRange      = "некорректный диапазон дат"
	msgRangeTooWide      = "слишком широкий диапазон дат"
	msgPropertyNotFound  = "объект не найден"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	useCase PricingRecommendationsUseCase
	logger  Logger
}

func NewHandler(useCase PricingRecommendationsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/properties/{propertyId}/pricing/recommendations?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	propertyID, err := handlers.PathID(r, "propertyId")
	if err != nil {
		h.logger.Warn("GET /properties/{id}/pricing/recommendations - Invalid property ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPropertyID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	from, errFrom := handlers.QueryDate(r, "from")
	to, errTo := handlers.QueryDate(r, "to")
	if errFrom != nil || errTo != nil {
		h.logger.Warn("GET /properties/{id}/pricing/recommendations - Invalid dates: %v %v", errFrom, errTo)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getPricing.Request{
		UserID:     userID,
		PropertyID: propertyID,
		From:       from,
		To:         to,
	})
	if err != nil {
		switch {
		case errors.Is(err, getPricing.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getPricing.ErrRangeTooWide):
			handlers.RespondBadRequest(w, msgRangeTooWide)

		case errors.Is(err, getPricing.ErrPropertyNotFound):
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, getPricing.ErrAccessDenied):
			h.logger.Warn("GET /properties/{id}/pricing/recommendations - Access denied: property_id=%d, user_id=%d", propertyID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /properties/{id}/pricing/recommendations - Failed: property_id=%d, error=%v", propertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
