package delete_override

import "context"

type ScheduleService interface {
	DeleteOverride(ctx context.Context, artistID, overrideID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
