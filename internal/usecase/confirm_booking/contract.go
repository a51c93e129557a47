package confirm_booking

import (
	"context"
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
	"github.com/m04kA/TattooBookingService/internal/integrations/googlecalendar"
	"github.com/m04kA/TattooBookingService/internal/integrations/stripe"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCheckoutSessionID(ctx context.Context, sessionID string) (*domain.Booking, error)
	FindConflicts(ctx context.Context, q domain.ConflictQuery) ([]*domain.Booking, error)
	Confirm(ctx context.Context, id int64, paymentIntentID *string, now time.Time) error
	Cancel(ctx context.Context, id int64, reason string, now time.Time) error
	SetExternalEventID(ctx context.Context, id int64, eventID *string, now time.Time) error
}

// CatalogRepository интерфейс репозитория мастеров
type CatalogRepository interface {
	GetArtist(ctx context.Context, id int64) (*domain.Artist, error)
}

// PaymentVerifier интерфейс проверки оплаты у платежного провайдера
type PaymentVerifier interface {
	GetSession(ctx context.Context, sessionID string) (*stripe.SessionStatus, error)
}

// CalendarClient интерфейс внешнего календаря
type CalendarClient interface {
	UpsertEvent(ctx context.Context, link domain.CalendarLink, event googlecalendar.Event) (string, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncConfirmation(outcome string)
	IncExternalFailure(provider, operation string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
