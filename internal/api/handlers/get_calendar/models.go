package get_calendar

import (
	"time"

	"github.com/m04kA/TattooBookingService/internal/api/handlers/get_available_slots"
	"github.com/m04kA/TattooBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/TattooBookingService/internal/usecase/get_available_slots"
)

// RangeResponse интервал времени
type RangeResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayResponse доступность мастера в один день
type DayResponse struct {
	Date     string                             `json:"date"`
	Open     []RangeResponse                    `json:"open"`
	Busy     []RangeResponse                    `json:"busy"`
	FreeTime []RangeResponse                    `json:"freeTime"`
	Free     []get_available_slots.SlotResponse `json:"free"`
}

// CalendarResponse HTTP response model
type CalendarResponse struct {
	ArtistID int64         `json:"artistId"`
	External string        `json:"externalCalendar"`
	Days     []DayResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в календарную сетку
func FromUseCaseResponse(resp *getAvailableSlots.Response, loc *time.Location) *CalendarResponse {
	days := make([]DayResponse, 0, len(resp.Days))
	for _, d := range resp.Days {
		days = append(days, DayResponse{
			Date:     d.Date,
			Open:     fromRanges(d.Open, loc),
			Busy:     fromRanges(d.Busy, loc),
			FreeTime: fromRanges(d.FreeTime, loc),
			Free:     get_available_slots.FromDomainSlots(d.Free, loc),
		})
	}

	return &CalendarResponse{
		ArtistID: resp.ArtistID,
		External: resp.External,
		Days:     days,
	}
}

func fromRanges(ranges []domain.TimeRange, loc *time.Location) []RangeResponse {
	result := make([]RangeResponse, 0, len(ranges))
	for _, r := range ranges {
		result = append(result, RangeResponse{Start: r.Start.In(loc), End: r.End.In(loc)})
	}
	return result
}
