package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/reservations"
)

const (
	msgInvalidPropertyID = "некорректный ID объекта"
	msgInvalidDates      = "некорректные даты, ожидается checkIn и checkOut в формате YYYY-MM-DD"
	msgInvalidRange      = "некорректный диапазон дат"
	msgPropertyNotFound  = "объект не найден"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/properties/{propertyId}/availability-check?checkIn=&checkOut=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	propertyID, err := handlers.PathID(r, "propertyId")
	if err != nil {
		h.logger.Warn("GET /properties/{id}/availability-check - Invalid property ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPropertyID)
		return
	}

	checkIn, errIn := handlers.QueryDate(r, "checkIn")
	checkOut, errOut := handlers.QueryDate(r, "checkOut")
	if errIn != nil || errOut != nil {
		h.logger.Warn("GET /properties/{id}/availability-check - Invalid dates: %v %v", errIn, errOut)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	available, err := h.service.CheckAvailability(r.Context(), propertyID, checkIn, checkOut)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /properties/{id}/availability-check - Invalid range: property_id=%d, error=%v", propertyID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, reservations.ErrPropertyNotFound):
			h.logger.Warn("GET /properties/{id}/availability-check - Property not found: property_id=%d", propertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		default:
			h.logger.Error("GET /properties/{id}/availability-check - Failed: property_id=%d, error=%v", propertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, AvailabilityResponse{
		PropertyID: propertyID,
		CheckIn:    handlers.FormatDate(checkIn),
		CheckOut:   handlers.FormatDate(checkOut),
		Available:  available,
	})
}
