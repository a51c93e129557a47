package confirm_booking

import (
	"time"

	"github.com/m04kA/TattooBookingService/internal/integrations/stripe"
)

// Исходы подтверждения
const (
	OutcomeConfirmed        = "confirmed"
	OutcomeAlreadyConfirmed = "already_confirmed"

	outcomeConflict   = "conflict"
	outcomeNotPaid    = "not_paid"
	outcomeNotPending = "not_pending"
)

const calendarProvider = "google_calendar"

// Request модель запроса на подтверждение оплаты
type Request struct {
	SessionID string

	// Session уже проверенная сессия из подписанного вебхука, nil для редиректа
	Session *stripe.SessionStatus
}

// Response модель ответа
type Response struct {
	BookingID       int64
	Outcome         string
	Status          string
	StartsAt        time.Time
	EndsAt          time.Time
	ExternalEventID *string
}
