package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

// CatalogRepository интерфейс репозитория мастеров и услуг
type CatalogRepository interface {
	GetArtist(ctx context.Context, id int64) (*domain.Artist, error)
	ListOfferedServices(ctx context.Context, artistID int64, onlyBookable bool) ([]*domain.OfferedService, error)
	GetOfferedService(ctx context.Context, artistID, serviceID int64) (*domain.OfferedService, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	ListTemplates(ctx context.Context, artistID int64) ([]domain.AvailabilityTemplate, error)
	ListOverrides(ctx context.Context, artistID int64, from, to time.Time) ([]domain.AvailabilityOverride, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	FindConflicts(ctx context.Context, q domain.ConflictQuery) ([]*domain.Booking, error)
}

// CalendarClient интерфейс клиента внешнего календаря
type CalendarClient interface {
	FreeBusy(ctx context.Context, link domain.CalendarLink, from, to time.Time) ([]domain.TimeRange, error)
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	AddSlotsGenerated(serviceSlug string, n int)
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
