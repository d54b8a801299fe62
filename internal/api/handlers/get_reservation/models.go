package get_reservation

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/reservations/models"
)

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID               int64      `json:"id"`
	PropertyID       int64      `json:"propertyId"`
	GuestID          int64      `json:"guestId"`
	CheckIn          string     `json:"checkIn"`
	CheckOut         string     `json:"checkOut"`
	Nights           int        `json:"nights"`
	Guests           int        `json:"guests"`
	TotalPrice       float64    `json:"totalPrice"`
	Status           string     `json:"status"`
	RefundPercentage *int       `json:"refundPercentage,omitempty"`
	RefundAmount     *float64   `json:"refundAmount,omitempty"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func FromServiceResponse(r *models.ReservationResponse) *ReservationResponse {
	return &ReservationResponse{
		ID:               r.ID,
		PropertyID:       r.PropertyID,
		GuestID:          r.GuestID,
		CheckIn:          handlers.FormatDate(r.CheckIn),
		CheckOut:         handlers.FormatDate(r.CheckOut),
		Nights:           r.Nights,
		Guests:           r.Guests,
		TotalPrice:       r.TotalPrice,
		Status:           r.Status,
		RefundPercentage: r.RefundPercentage,
		RefundAmount:     r.RefundAmount,
		CancelledAt:      r.CancelledAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
