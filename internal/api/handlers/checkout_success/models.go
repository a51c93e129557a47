package checkout_success

import (
	"time"

	confirmBooking "github.com/m04kA/TattooBookingService/internal/usecase/confirm_booking"
)

// ConfirmationResponse HTTP response model
type ConfirmationResponse struct {
	BookingID int64     `json:"bookingId"`
	Outcome   string    `json:"outcome"`
	Status    string    `json:"status"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *confirmBooking.Response, loc *time.Location) *ConfirmationResponse {
	return &ConfirmationResponse{
		BookingID: resp.BookingID,
		Outcome:   resp.Outcome,
		Status:    resp.Status,
		StartsAt:  resp.StartsAt.In(loc),
		EndsAt:    resp.EndsAt.In(loc),
	}
}
