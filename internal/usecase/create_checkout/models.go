package create_checkout

import (
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

// Результаты для метрики оформления
const (
	resultCreated            = "created"
	resultSlotTaken          = "slot_taken"
	resultPaymentUnavailable = "payment_unavailable"
)

// minProviderExpiry минимальный срок жизни checkout-сессии, который принимает Stripe
const minProviderExpiry = 30 * time.Minute

// Config параметры оформления брони
type Config struct {
	Location        *time.Location
	Hold            time.Duration
	MinNotice       time.Duration
	Currency        string
	DefaultSchedule domain.DefaultSchedule
}

// Customer контактные данные клиента
type Customer struct {
	Name  string
	Email string
	Phone *string
}

// Request модель запроса на оформление брони
type Request struct {
	ArtistID  int64
	ServiceID int64
	Start     time.Time
	Customer  Customer
	Brief     domain.CustomerBrief
}

// Response модель ответа с созданной бронью и ссылкой на оплату
type Response struct {
	BookingID     int64
	Status        string
	CheckoutURL   string
	StartsAt      time.Time
	EndsAt        time.Time
	AmountMinor   int64
	PriceMinor    int64
	Currency      string
	HoldExpiresAt time.Time
}
