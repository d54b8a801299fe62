package apply_calendar_rule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/calendar"
)

const (
	msgInvalidPropertyID  = "некорректный ID объекта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRule        = "некорректное правило календаря"
	msgRangeTooWide       = "слишком широкий диапазон правила"
	msgPropertyNotFound   = "объект не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/properties/{propertyId}/calendar/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	propertyID, err := handlers.PathID(r, "propertyId")
	if err != nil {
		h.logger.Warn("POST /properties/{id}/calendar/rules - Invalid property ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPropertyID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ApplyRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /properties/{id}/calendar/rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Тип, значение и даты проверяются до обращения к сервису
	rule, err := req.ToDomainRule()
	if err != nil {
		h.logger.Warn("POST /properties/{id}/calendar/rules - Invalid rule: property_id=%d, error=%v", propertyID, err)
		handlers.RespondBadRequest(w, msgInvalidRule)
		return
	}

	affected, err := h.service.ApplyRule(r.Context(), userID, propertyID, rule)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidRule):
			h.logger.Warn("POST /properties/{id}/calendar/rules - Rule rejected: property_id=%d, error=%v", propertyID, err)
			handlers.RespondBadRequest(w, msgInvalidRule)

		case errors.Is(err, calendar.ErrRangeTooWide):
			handlers.RespondBadRequest(w, msgRangeTooWide)

		case errors.Is(err, calendar.ErrPropertyNotFound):
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, calendar.ErrAccessDenied):
			h.logger.Warn("POST /properties/{id}/calendar/rules - Access denied: property_id=%d, user_id=%d", propertyID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /properties/{id}/calendar/rules - Failed to apply rule: property_id=%d, error=%v", propertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /properties/{id}/calendar/rules - Rule applied: property_id=%d, type=%s, days=%d",
		propertyID, rule.Action.Type(), affected)
	handlers.RespondJSON(w, http.StatusOK, ApplyRuleResponse{
		PropertyID:   propertyID,
		Type:         string(rule.Action.Type()),
		AffectedDays: affected,
	})
}
