package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	createReservation "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	PropertyID int64  `json:"propertyId"`
	CheckIn    string `json:"checkIn"`  // YYYY-MM-DD
	CheckOut   string `json:"checkOut"` // YYYY-MM-DD
	Guests     int    `json:"guests"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"propertyId"`
	GuestID    int64     `json:"guestId"`
	CheckIn    string    `json:"checkIn"`
	CheckOut   string    `json:"checkOut"`
	Nights     int       `json:"nights"`
	Guests     int       `json:"guests"`
	TotalPrice float64   `json:"totalPrice"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case, гость берется из X-User-ID
func (r *CreateReservationRequest) ToUseCaseRequest(guestID int64) (*createReservation.Request, error) {
	checkIn, err := handlers.ParseDate(r.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("checkIn: %w", err)
	}
	checkOut, err := handlers.ParseDate(r.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("checkOut: %w", err)
	}

	return &createReservation.Request{
		GuestID:    guestID,
		PropertyID: r.PropertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     r.Guests,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:         resp.ID,
		PropertyID: resp.PropertyID,
		GuestID:    resp.GuestID,
		CheckIn:    handlers.FormatDate(resp.CheckIn),
		CheckOut:   handlers.FormatDate(resp.CheckOut),
		Nights:     resp.Nights,
		Guests:     resp.Guests,
		TotalPrice: resp.TotalPrice,
		Status:     resp.Status,
		CreatedAt:  resp.CreatedAt,
	}
}
