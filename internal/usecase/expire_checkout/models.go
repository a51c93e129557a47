package expire_checkout

import "github.com/m04kA/TattooBookingService/internal/domain"

// Действия над брошенной бронью
const (
	ActionDeleted   = "deleted"
	ActionCancelled = "cancelled"
	ActionIgnored   = "ignored"
)

// Request модель запроса на истечение checkout-сессии
type Request struct {
	SessionID string

	// BookingID из metadata сессии, если id сессии не был сохранен
	BookingID int64

	// PaymentAttempted true, если у сессии есть payment intent
	PaymentAttempted bool

	// Reason причина отмены, по умолчанию checkout_expired
	Reason string
}

// Response модель ответа
type Response struct {
	BookingID int64
	Action    string
}

func (r *Request) reason() string {
	if r.Reason == "" {
		return domain.ReasonCheckoutExpired
	}
	return r.Reason
}
