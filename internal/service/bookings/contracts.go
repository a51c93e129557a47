package bookings

import (
	"context"
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Booking, error)
	ListByArtist(ctx context.Context, filter domain.ArtistBookingsFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string, now time.Time) error
	MarkRefunded(ctx context.Context, id int64, now time.Time) error
	SetExternalEventID(ctx context.Context, id int64, eventID *string, now time.Time) error
}

// CatalogRepository интерфейс репозитория мастеров
type CatalogRepository interface {
	GetArtist(ctx context.Context, id int64) (*domain.Artist, error)
}

// CalendarClient интерфейс внешнего календаря
type CalendarClient interface {
	DeleteEvent(ctx context.Context, link domain.CalendarLink, eventID string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
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
