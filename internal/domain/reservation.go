package domain

import "time"

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending    ReservationStatus = "pending"
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusInProgress ReservationStatus = "in_progress"
	StatusCompleted  ReservationStatus = "completed"
	StatusCancelled  ReservationStatus = "cancelled"
	StatusNoShow     ReservationStatus = "no_show"
)

// Reservation represents a stay over the half-open range [CheckIn, CheckOut)
type Reservation struct {
	ID         int64
	PropertyID int64
	GuestID    int64
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	TotalPrice float64
	Status     ReservationStatus

	RefundPercentage *int
	RefundAmount     *float64
	CancelledAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking returns true if the reservation occupies its dates
func (r *Reservation) IsBlocking() bool {
	return r.Status.IsBlocking()
}

// CanBeCancelled returns true if the reservation can still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.IsBlocking()
}

// Nights returns the number of nights of the stay
func (r *Reservation) Nights() int {
	return DaysBetween(r.CheckIn, r.CheckOut)
}

// Overlaps returns true if the reservation intersects [checkIn, checkOut)
func (r *Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return RangesOverlap(r.CheckIn, r.CheckOut, checkIn, checkOut)
}

// IsBlocking returns true for statuses that participate in conflict checks
func (s ReservationStatus) IsBlocking() bool {
	for _, blocking := range BlockingStatuses {
		if s == blocking {
			return true
		}
	}
	return false
}

// IsValid returns true for known statuses
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// RangesOverlap checks two half-open ranges [a1, a2) and [b1, b2) for intersection
func RangesOverlap(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

// Refund is the outcome of a cancellation
type Refund struct {
	Percentage int // 0, 50 or 100
	Amount     float64
}
