package get_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/TattooBookingService/internal/api/handlers"
	"github.com/m04kA/TattooBookingService/internal/service/schedule"
	"github.com/m04kA/TattooBookingService/internal/service/schedule/models"
)

const (
	msgInvalidArtistID = "некорректный ID мастера"
	msgInvalidParams   = "некорректные параметры запроса"
	msgInvalidPeriod   = "некорректный период"
	msgArtistNotFound  = "мастер не найден"
)

type Handler struct {
	service  ScheduleService
	location *time.Location
	logger   Logger
}

func NewHandler(service ScheduleService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/admin/artists/{artistId}/schedule
// Query params: from, to (YYYY-MM-DD, опционально, to включительно)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	artistID, err := handlers.PathInt64(r, "artistId")
	if err != nil {
		h.logger.Warn("GET /admin/artists/{id}/schedule - Invalid artist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidArtistID)
		return
	}

	from, err := handlers.QueryTime(r, "from", h.location, false)
	if err != nil {
		h.logger.Warn("GET /admin/artists/{id}/schedule - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	to, err := handlers.QueryTime(r, "to", h.location, false)
	if err != nil {
		h.logger.Warn("GET /admin/artists/{id}/schedule - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), &models.GetScheduleRequest{
		ArtistID: artistID,
		From:     from,
		To:       to,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /admin/artists/{id}/schedule - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, schedule.ErrArtistNotFound):
			h.logger.Warn("GET /admin/artists/{id}/schedule - Artist not found: artist_id=%d", artistID)
			handlers.RespondNotFound(w, msgArtistNotFound)

		default:
			h.logger.Error("GET /admin/artists/{id}/schedule - Failed to get schedule: artist_id=%d, error=%v", artistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/artists/{id}/schedule - Schedule retrieved: artist_id=%d, templates=%d, overrides=%d",
		artistID, len(result.Templates), len(result.Overrides))
	handlers.RespondJSON(w, http.StatusOK, result)
}
