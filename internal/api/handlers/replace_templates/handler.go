package replace_templates

import (
	"errors"
	"net/http"

	"github.com/m04kA/TattooBookingService/internal/api/handlers"
	"github.com/m04kA/TattooBookingService/internal/service/schedule"
	"github.com/m04kA/TattooBookingService/internal/service/schedule/models"
)

const (
	msgInvalidArtistID    = "некорректный ID мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTemplates   = "некорректное расписание: проверьте дни недели и время окон"
	msgArtistNotFound     = "мастер не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/artists/{artistId}/schedule/templates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	artistID, err := handlers.PathInt64(r, "artistId")
	if err != nil {
		h.logger.Warn("PUT /admin/artists/{id}/schedule/templates - Invalid artist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidArtistID)
		return
	}

	var req models.ReplaceTemplatesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/artists/{id}/schedule/templates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	templates, err := h.service.ReplaceTemplates(r.Context(), artistID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /admin/artists/{id}/schedule/templates - Invalid templates: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTemplates)

		case errors.Is(err, schedule.ErrArtistNotFound):
			h.logger.Warn("PUT /admin/artists/{id}/schedule/templates - Artist not found: artist_id=%d", artistID)
			handlers.RespondNotFound(w, msgArtistNotFound)

		default:
			h.logger.Error("PUT /admin/artists/{id}/schedule/templates - Failed to replace templates: artist_id=%d, error=%v",
				artistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/artists/{id}/schedule/templates - Templates replaced: artist_id=%d, count=%d",
		artistID, len(templates))
	handlers.RespondJSON(w, http.StatusOK, TemplatesResponse{ArtistID: artistID, Templates: templates})
}
