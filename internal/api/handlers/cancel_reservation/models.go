package cancel_reservation

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/reservations/models"
)

// CancelReservationResponse HTTP response model
type CancelReservationResponse struct {
	ReservationID    int64     `json:"reservationId"`
	Status           string    `json:"status"`
	RefundPercentage int       `json:"refundPercentage"`
	RefundAmount     float64   `json:"refundAmount"`
	CancelledAt      time.Time `json:"cancelledAt"`
}

// FromServiceResponse конвертирует результат сервиса в HTTP ответ
func FromServiceResponse(resp *models.CancelResponse) *CancelReservationResponse {
	return &CancelReservationResponse{
		ReservationID:    resp.ReservationID,
		Status:           resp.Status,
		RefundPercentage: resp.RefundPercentage,
		RefundAmount:     resp.RefundAmount,
		CancelledAt:      resp.CancelledAt,
	}
}
