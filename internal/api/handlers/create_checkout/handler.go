package create_checkout

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/TattooBookingService/internal/api/handlers"
	createCheckout "github.com/m04kA/TattooBookingService/internal/usecase/create_checkout"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidStart        = "некорректное время начала, ожидается RFC3339"
	msgInvalidInput        = "некорректные данные записи"
	msgTooLateToBook       = "слишком поздно для записи на это время"
	msgArtistNotFound      = "мастер не найден"
	msgServiceNotOffered   = "мастер не оказывает эту услугу"
	msgInvalidPrice        = "у услуги не задана цена"
	msgOutsideOpeningHours = "выбранное время вне рабочих часов мастера"
	msgSlotTaken           = "выбранное время уже занято"
	msgPaymentUnavailable  = "платежный сервис временно недоступен, попробуйте позже"
)

type Handler struct {
	useCase  CreateCheckoutUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateCheckoutUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/checkout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /checkout - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(h.location)
	if err != nil {
		h.logger.Warn("POST /checkout - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createCheckout.ErrInvalidInput):
			h.logger.Warn("POST /checkout - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createCheckout.ErrTooLateToBook):
			h.logger.Warn("POST /checkout - Too late to book: artist_id=%d, start=%s", req.ArtistID, req.Start)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createCheckout.ErrOutsideOpeningHours):
			h.logger.Warn("POST /checkout - Outside opening hours: artist_id=%d, start=%s", req.ArtistID, req.Start)
			handlers.RespondBadRequest(w, msgOutsideOpeningHours)

		case errors.Is(err, createCheckout.ErrArtistNotFound):
			h.logger.Warn("POST /checkout - Artist not found: artist_id=%d", req.ArtistID)
			handlers.RespondNotFound(w, msgArtistNotFound)

		case errors.Is(err, createCheckout.ErrServiceNotOffered):
			h.logger.Warn("POST /checkout - Service not offered: artist_id=%d, service_id=%d", req.ArtistID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotOffered)

		case errors.Is(err, createCheckout.ErrSlotTaken):
			h.logger.Warn("POST /checkout - Slot taken: artist_id=%d, start=%s", req.ArtistID, req.Start)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, createCheckout.ErrInvalidPrice):
			h.logger.Warn("POST /checkout - Invalid price: artist_id=%d, service_id=%d", req.ArtistID, req.ServiceID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidPrice)

		case errors.Is(err, createCheckout.ErrPaymentUnavailable):
			h.logger.Error("POST /checkout - Payment provider unavailable: %v", err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentUnavailable)

		default:
			h.logger.Error("POST /checkout - Failed to create checkout: artist_id=%d, error=%v", req.ArtistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /checkout - Checkout created: booking_id=%d", result.BookingID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result, h.location))
}
