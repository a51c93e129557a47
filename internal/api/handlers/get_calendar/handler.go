package get_calendar

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/TattooBookingService/internal/api/handlers"
	"github.com/m04kA/TattooBookingService/internal/api/handlers/get_available_slots"
	getAvailableSlots "github.com/m04kA/TattooBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidParams     = "некорректные параметры запроса: нужны artistId, from и to (RFC3339 или YYYY-MM-DD)"
	msgInvalidRange      = "некорректный период: from должен быть раньше to"
	msgRangeTooLarge     = "слишком большой период запроса"
	msgArtistNotFound    = "мастер не найден"
	msgServiceNotOffered = "мастер не оказывает эту услугу"
)

type Handler struct {
	useCase  GetAvailableSlotsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/artists/{artistId}/calendar
// Query params: from, to (required), serviceId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	useCaseReq, err := get_available_slots.ToUseCaseRequest(r, h.location)
	if err != nil {
		h.logger.Warn("GET /artists/{id}/calendar - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /artists/{id}/calendar - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getAvailableSlots.ErrRangeTooLarge):
			h.logger.Warn("GET /artists/{id}/calendar - Range too large: %v", err)
			handlers.RespondBadRequest(w, msgRangeTooLarge)

		case errors.Is(err, getAvailableSlots.ErrArtistNotFound):
			h.logger.Warn("GET /artists/{id}/calendar - Artist not found: artist_id=%d", useCaseReq.ArtistID)
			handlers.RespondNotFound(w, msgArtistNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotOffered):
			h.logger.Warn("GET /artists/{id}/calendar - Service not offered: artist_id=%d", useCaseReq.ArtistID)
			handlers.RespondNotFound(w, msgServiceNotOffered)

		default:
			h.logger.Error("GET /artists/{id}/calendar - Failed to build calendar: artist_id=%d, error=%v",
				useCaseReq.ArtistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /artists/{id}/calendar - Calendar built: artist_id=%d, days=%d", useCaseReq.ArtistID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, h.location))
}
