package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgPropertyNotFound   = "объект не найден"
	msgPropertyInactive   = "объект недоступен для бронирования"
	msgTooManyGuests      = "превышено максимальное число гостей"
	msgStayTooShort       = "срок проживания меньше минимального"
	msgStayTooLong        = "срок проживания больше максимального"
	msgAdvanceNotice      = "слишком поздно для бронирования с этой даты заезда"
	msgDatesUnavailable   = "выбранные даты недоступны"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrDatesUnavailable):
			h.logger.Warn("POST /reservations - Dates unavailable: user_id=%d, property_id=%d", userID, req.PropertyID)
			handlers.RespondConflict(w, msgDatesUnavailable)

		case errors.Is(err, createReservation.ErrPropertyNotFound):
			h.logger.Warn("POST /reservations - Property not found: property_id=%d", req.PropertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrPropertyInactive):
			handlers.RespondBadRequest(w, msgPropertyInactive)

		case errors.Is(err, createReservation.ErrTooManyGuests):
			handlers.RespondBadRequest(w, msgTooManyGuests)

		case errors.Is(err, createReservation.ErrStayTooShort):
			handlers.RespondBadRequest(w, msgStayTooShort)

		case errors.Is(err, createReservation.ErrStayTooLong):
			handlers.RespondBadRequest(w, msgStayTooLong)

		case errors.Is(err, createReservation.ErrAdvanceNotice):
			handlers.RespondBadRequest(w, msgAdvanceNotice)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, property_id=%d, error=%v",
				userID, req.PropertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, user_id=%d, property_id=%d",
		result.ID, userID, req.PropertyID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
