package schedule

import (
	"context"
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	ListTemplates(ctx context.Context, artistID int64) ([]domain.AvailabilityTemplate, error)
	ReplaceTemplates(ctx context.Context, artistID int64, templates []domain.AvailabilityTemplate) ([]domain.AvailabilityTemplate, error)
	ListOverrides(ctx context.Context, artistID int64, from, to time.Time) ([]domain.AvailabilityOverride, error)
	CreateOverride(ctx context.Context, o domain.AvailabilityOverride) (*domain.AvailabilityOverride, error)
	DeleteOverride(ctx context.Context, artistID, overrideID int64) error
}

// CatalogRepository интерфейс репозитория мастеров
type CatalogRepository interface {
	GetArtist(ctx context.Context, id int64) (*domain.Artist, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
