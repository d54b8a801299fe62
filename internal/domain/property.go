package domain

import "strings"

// Location describes where a property is
type Location struct {
	City         string
	State        string
	Neighborhood string
}

// Property represents a rentable listing owned by a host
type Property struct {
	ID           int64
	HostID       int64
	Title        string
	Location     Location
	PropertyType string
	Bedrooms     int
	Bathrooms    int
	MaxGuests    int
	BasePrice    float64
	MinStay      int
	MaxStay      int // 0 = unlimited
	PetsAllowed  bool
	Amenities    []string
	IsActive     bool
}

// Cohort returns the comparable-property key of the property
func (p *Property) Cohort() Cohort {
	return Cohort{
		City:         p.Location.City,
		State:        p.Location.State,
		PropertyType: p.PropertyType,
		Bedrooms:     p.Bedrooms,
	}
}

// HasPremiumAmenity returns true if any premium amenity is listed
func (p *Property) HasPremiumAmenity() bool {
	for _, amenity := range p.Amenities {
		normalized := strings.ToLower(strings.TrimSpace(amenity))
		for _, premium := range PremiumAmenities {
			if normalized == premium {
				return true
			}
		}
	}
	return false
}

// IsOwnedBy returns true if the user is the host of the property
func (p *Property) IsOwnedBy(userID int64) bool {
	return p.HostID == userID
}

// PropertyStats aggregates reputation and booking history of a property
type PropertyStats struct {
	AverageRating    float64
	ReviewCount      int
	TrailingBookings int // reservations created in the last MarketTrailingDays days
}

// BookingsPerDay returns the trailing average of bookings per day
func (s PropertyStats) BookingsPerDay() float64 {
	return float64(s.TrailingBookings) / MarketTrailingDays
}
