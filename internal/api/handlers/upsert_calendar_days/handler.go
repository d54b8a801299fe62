package upsert_calendar_days

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
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidDays        = "некорректные данные календаря"
	msgTooManyDays        = "слишком много дней в одном запросе"
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

// Handle PUT /api/v1/properties/{propertyId}/calendar/days
// Записываются либо все дни, либо ни одного
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	propertyID, err := handlers.PathID(r, "propertyId")
	if err != nil {
		h.logger.Warn("PUT /properties/{id}/calendar/days - Invalid property ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPropertyID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpsertDaysRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /properties/{id}/calendar/days - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	days, err := req.ToDomainDays(propertyID)
	if err != nil {
		h.logger.Warn("PUT /properties/{id}/calendar/days - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.BulkUpsert(r.Context(), userID, propertyID, days); err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("PUT /properties/{id}/calendar/days - Invalid days: property_id=%d, error=%v", propertyID, err)
			handlers.RespondBadRequest(w, msgInvalidDays)

		case errors.Is(err, calendar.ErrRangeTooWide):
			handlers.RespondBadRequest(w, msgTooManyDays)

		case errors.Is(err, calendar.ErrPropertyNotFound):
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, calendar.ErrAccessDenied):
			h.logger.Warn("PUT /properties/{id}/calendar/days - Access denied: property_id=%d, user_id=%d", propertyID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /properties/{id}/calendar/days - Failed to upsert days: property_id=%d, error=%v", propertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /properties/{id}/calendar/days - Updated %d days: property_id=%d", len(days), propertyID)
	handlers.RespondJSON(w, http.StatusOK, UpsertDaysResponse{PropertyID: propertyID, UpdatedDays: len(days)})
}
