package stripe

import "time"

// Типы событий вебхука, которые обрабатывает сервис
const (
	EventCheckoutCompleted           = "checkout.session.completed"
	EventCheckoutAsyncPaymentSuccess = "checkout.session.async_payment_succeeded"
	EventCheckoutExpired             = "checkout.session.expired"
	EventCheckoutAsyncPaymentFailed  = "checkout.session.async_payment_failed"
	EventChargeRefunded              = "charge.refunded"
)

// Ключи metadata checkout-сессии
const (
	MetadataBookingID = "booking_id"
	MetadataArtistID  = "artist_id"
	MetadataServiceID = "service_id"
)

// CheckoutRequest параметры новой checkout-сессии
type CheckoutRequest struct {
	BookingID     int64
	ArtistID      int64
	ServiceID     int64
	Description   string // название позиции на странице оплаты
	AmountMinor   int64
	Currency      string
	CustomerEmail string
	ExpiresAt     time.Time
}

// CheckoutSession созданная checkout-сессия
type CheckoutSession struct {
	ID        string
	URL       string
	ExpiresAt time.Time
}

// SessionStatus состояние checkout-сессии, подтвержденное Stripe
type SessionStatus struct {
	ID              string
	BookingID       int64 // 0, если metadata не содержит booking_id
	Paid            bool
	PaymentIntentID *string
}

// PaymentAttempted показывает, была ли попытка оплаты по сессии
func (s *SessionStatus) PaymentAttempted() bool {
	return s.PaymentIntentID != nil
}

// WebhookEvent проверенное событие вебхука
type WebhookEvent struct {
	ID   string
	Type string

	// Session заполнено для событий checkout.session.*
	Session *SessionStatus

	// RefundedPaymentIntentID заполнено для charge.refunded
	RefundedPaymentIntentID *string
}
