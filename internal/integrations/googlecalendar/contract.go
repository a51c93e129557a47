package googlecalendar

import (
	"context"
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// BusyCache кэш ответов free/busy
type BusyCache interface {
	Get(ctx context.Context, calendarID string, from, to time.Time) ([]domain.TimeRange, bool, error)
	Set(ctx context.Context, calendarID string, from, to time.Time, busy []domain.TimeRange) error
	Invalidate(ctx context.Context, calendarID string) error
}
