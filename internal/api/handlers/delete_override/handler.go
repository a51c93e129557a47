package delete_override

import (
	"errors"
	"net/http"

	"github.com/m04kA/TattooBookingService/internal/api/handlers"
	"github.com/m04kA/TattooBookingService/internal/service/schedule"
)

const (
	msgInvalidParams = "некорректный ID мастера или исключения"
	msgNotFound      = "исключение расписания не найдено"
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

// Handle DELETE /api/v1/admin/artists/{artistId}/schedule/overrides/{overrideId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	artistID, err := handlers.PathInt64(r, "artistId")
	if err != nil {
		h.logger.Warn("DELETE /admin/artists/{id}/schedule/overrides/{overrideId} - Invalid artist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	overrideID, err := handlers.PathInt64(r, "overrideId")
	if err != nil {
		h.logger.Warn("DELETE /admin/artists/{id}/schedule/overrides/{overrideId} - Invalid override ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	if err := h.service.DeleteOverride(r.Context(), artistID, overrideID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrOverrideNotFound):
			h.logger.Warn("DELETE /admin/artists/{id}/schedule/overrides/{overrideId} - Not found: artist_id=%d, override_id=%d",
				artistID, overrideID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /admin/artists/{id}/schedule/overrides/{overrideId} - Failed to delete: override_id=%d, error=%v",
				overrideID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/artists/{id}/schedule/overrides/{overrideId} - Override deleted: artist_id=%d, override_id=%d",
		artistID, overrideID)
	w.WriteHeader(http.StatusNoContent)
}
