package create_override

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
	msgInvalidOverride    = "некорректное исключение: проверьте дату, тип и время"
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

// Handle POST /api/v1/admin/artists/{artistId}/schedule/overrides
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	artistID, err := handlers.PathInt64(r, "artistId")
	if err != nil {
		h.logger.Warn("POST /admin/artists/{id}/schedule/overrides - Invalid artist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidArtistID)
		return
	}

	var req models.CreateOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/artists/{id}/schedule/overrides - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	override, err := h.service.CreateOverride(r.Context(), artistID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /admin/artists/{id}/schedule/overrides - Invalid override: %v", err)
			handlers.RespondBadRequest(w, msgInvalidOverride)

		case errors.Is(err, schedule.ErrArtistNotFound):
			h.logger.Warn("POST /admin/artists/{id}/schedule/overrides - Artist not found: artist_id=%d", artistID)
			handlers.RespondNotFound(w, msgArtistNotFound)

		default:
			h.logger.Error("POST /admin/artists/{id}/schedule/overrides - Failed to create override: artist_id=%d, error=%v",
				artistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/artists/{id}/schedule/overrides - Override created: artist_id=%d, override_id=%d, date=%s",
		artistID, override.ID, override.Date)
	handlers.RespondJSON(w, http.StatusCreated, override)
}
