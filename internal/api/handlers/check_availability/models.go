package check_availability

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	PropertyID int64  `json:"propertyId"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Available  bool   `json:"available"`
}
