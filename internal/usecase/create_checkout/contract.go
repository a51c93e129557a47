package create_checkout

import (
	"context"
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
	"github.com/m04kA/TattooBookingService/internal/integrations/stripe"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	FindConflicts(ctx context.Context, q domain.ConflictQuery) ([]*domain.Booking, error)
	SetCheckoutSession(ctx context.Context, id int64, sessionID string, now time.Time) error
	Delete(ctx context.Context, id int64) error
}

// CatalogRepository интерфейс репозитория мастеров и услуг
type CatalogRepository interface {
	GetArtist(ctx context.Context, id int64) (*domain.Artist, error)
	GetOfferedService(ctx context.Context, artistID, serviceID int64) (*domain.OfferedService, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	ListTemplates(ctx context.Context, artistID int64) ([]domain.AvailabilityTemplate, error)
	ListOverrides(ctx context.Context, artistID int64, from, to time.Time) ([]domain.AvailabilityOverride, error)
}

// PaymentClient интерфейс платежного провайдера
type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, req stripe.CheckoutRequest) (*stripe.CheckoutSession, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncCheckout(result string)
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
