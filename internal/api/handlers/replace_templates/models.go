package replace_templates

import (
	"github.com/m04kA/TattooBookingService/internal/service/schedule/models"
)

// TemplatesResponse ответ со списком сохраненных окон
type TemplatesResponse struct {
	ArtistID  int64                     `json:"artistId"`
	Templates []models.TemplateResponse `json:"templates"`
}
