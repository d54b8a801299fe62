package pricingadvisor

// AdviceRequest контекст ценообразования, отправляемый советнику
type AdviceRequest struct {
	PropertyID    int64   `json:"propertyId"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PropertyType  string  `json:"propertyType"`
	Bedrooms      int     `json:"bedrooms"`
	BasePrice     float64 `json:"basePrice"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
	MarketPrice   float64 `json:"marketPrice"`
	Occupancy     float64 `json:"occupancy"`
	DemandScore   float64 `json:"demandScore"`
	Seasonality   string  `json:"seasonality"`
	From          string  `json:"from"` // YYYY-MM-DD
	To            string  `json:"to"`   // YYYY-MM-DD
}

// AdviceResponse ответ советника: дробная корректировка цены (0.1 = +10%)
type AdviceResponse struct {
	Adjustment *float64 `json:"adjustment"`
}
