package create_override

import (
	"context"

	"github.com/m04kA/TattooBookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateOverride(ctx context.Context, artistID int64, req *models.CreateOverrideRequest) (*models.OverrideResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
