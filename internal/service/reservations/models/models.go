package models

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ReservationResponse бронирование в ответе сервиса
type ReservationResponse struct {
	ID               int64
	PropertyID       int64
	GuestID          int64
	CheckIn          time.Time
	CheckOut         time.Time
	Nights           int
	Guests           int
	TotalPrice       float64
	Status           string
	RefundPercentage *int
	RefundAmount     *float64
	CancelledAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CancelResponse результат отмены
type CancelResponse struct {
	ReservationID    int64
	Status           string
	RefundPercentage int
	RefundAmount     float64
	CancelledAt      time.Time
}

// FromDomainReservation конвертирует доменное бронирование
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:               r.ID,
		PropertyID:       r.PropertyID,
		GuestID:          r.GuestID,
		CheckIn:          r.CheckIn,
		CheckOut:         r.CheckOut,
		Nights:           r.Nights(),
		Guests:           r.Guests,
		TotalPrice:       r.TotalPrice,
		Status:           string(r.Status),
		RefundPercentage: r.RefundPercentage,
		RefundAmount:     r.RefundAmount,
		CancelledAt:      r.CancelledAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
