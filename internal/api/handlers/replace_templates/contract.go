package replace_templates

import (
	"context"

	"github.com/m04kA/TattooBookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	ReplaceTemplates(ctx context.Context, artistID int64, req *models.ReplaceTemplatesRequest) ([]models.TemplateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
