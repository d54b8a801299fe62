package get_calendar

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// DayResponse день календаря
type DayResponse struct {
	Date               string   `json:"date"`
	IsBlocked          bool     `json:"isBlocked"`
	Price              *float64 `json:"price"`
	MinStay            *int     `json:"minStay"`
	AdvanceNoticeHours *int     `json:"advanceNoticeHours"`
	Notes              *string  `json:"notes,omitempty"`
}

// CalendarResponse HTTP response model
type CalendarResponse struct {
	PropertyID int64         `json:"propertyId"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	Days       []DayResponse `json:"days"`
}

func FromDomainDays(propertyID int64, from, to string, days []*domain.AvailabilityDay) *CalendarResponse {
	resp := &CalendarResponse{
		PropertyID: propertyID,
		From:       from,
		To:         to,
		Days:       make([]DayResponse, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, DayResponse{
			Date:               handlers.FormatDate(d.Date),
			IsBlocked:          d.IsBlocked,
			Price:              d.Price,
			MinStay:            d.MinStay,
			AdvanceNoticeHours: d.AdvanceNoticeHours,
			Notes:              d.Notes,
		})
	}
	return resp
}
