package checkout_success

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/TattooBookingService/internal/api/handlers"
	confirmBooking "github.com/m04kA/TattooBookingService/internal/usecase/confirm_booking"
)

const (
	msgMissingSessionID   = "не передан session_id"
	msgNotFound           = "бронирование не найдено"
	msgNotPending         = "бронирование уже отменено"
	msgPaymentNotComplete = "оплата еще не завершена"
	msgConflict           = "время уже занято другой записью, оплата будет возвращена"
	msgPaymentUnavailable = "платежный сервис временно недоступен, попробуйте обновить страницу"
)

type Handler struct {
	useCase  ConfirmBookingUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase ConfirmBookingUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/checkout/success?session_id=
// Редирект со страницы оплаты, оплата проверяется у провайдера
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		h.logger.Warn("GET /checkout/success - Missing session_id")
		handlers.RespondBadRequest(w, msgMissingSessionID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmBooking.Request{SessionID: sessionID})
	if err != nil {
		switch {
		case errors.Is(err, confirmBooking.ErrInvalidInput):
			h.logger.Warn("GET /checkout/success - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgMissingSessionID)

		case errors.Is(err, confirmBooking.ErrBookingNotFound):
			h.logger.Warn("GET /checkout/success - Booking not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmBooking.ErrNotPending):
			h.logger.Warn("GET /checkout/success - Booking not pending: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgNotPending)

		case errors.Is(err, confirmBooking.ErrConflict):
			h.logger.Warn("GET /checkout/success - Slot conflict: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgConflict)

		case errors.Is(err, confirmBooking.ErrPaymentNotCompleted):
			h.logger.Warn("GET /checkout/success - Payment not completed: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentNotComplete)

		case errors.Is(err, confirmBooking.ErrPaymentUnavailable):
			h.logger.Error("GET /checkout/success - Payment provider unavailable: %v", err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentUnavailable)

		default:
			h.logger.Error("GET /checkout/success - Failed to confirm: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /checkout/success - Booking id=%d %s", result.BookingID, result.Outcome)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, h.location))
}
