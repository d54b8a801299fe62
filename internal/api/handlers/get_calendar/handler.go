package get_calendar

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/calendar"
)

const (
	msgInvalidPropertyID = "некорректный ID объекта"
	msgInvalidDates      = "некорректные даты, ожидается from и to в формате YYYY-MM-DD"
	msgInvalidRange      = "дата окончания раньше даты начала"
	msgRangeTooWide      = "слишком широкий диапазон дат"
	msgPropertyNotFound  = "объект не найден"
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

// Handle GET /api/v1/properties/{propertyId}/calendar?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	propertyID, err := handlers.PathID(r, "propertyId")
	if err != nil {
		h.logger.Warn("GET /properties/{id}/calendar - Invalid property ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPropertyID)
		return
	}

	from, errFrom := handlers.QueryDate(r, "from")
	to, errTo := handlers.QueryDate(r, "to")
	if errFrom != nil || errTo != nil {
		h.logger.Warn("GET /properties/{id}/calendar - Invalid dates: %v %v", errFrom, errTo)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	days, err := h.service.GetAvailability(r.Context(), propertyID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, calendar.ErrRangeTooWide):
			handlers.RespondBadRequest(w, msgRangeTooWide)

		case errors.Is(err, calendar.ErrPropertyNotFound):
			h.logger.Warn("GET /properties/{id}/calendar - Property not found: property_id=%d", propertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		default:
			h.logger.Error("GET /properties/{id}/calendar - Failed to get calendar: property_id=%d, error=%v", propertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainDays(propertyID, handlers.FormatDate(from), handlers.FormatDate(to), days))
}
