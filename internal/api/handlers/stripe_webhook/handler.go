package stripe_webhook

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/TattooBookingService/internal/api/handlers"
	"github.com/m04kA/TattooBookingService/internal/domain"
	"github.com/m04kA/TattooBookingService/internal/integrations/stripe"
	"github.com/m04kA/TattooBookingService/internal/service/bookings"
	confirmBooking "github.com/m04kA/TattooBookingService/internal/usecase/confirm_booking"
	expireCheckout "github.com/m04kA/TattooBookingService/internal/usecase/expire_checkout"
)

const (
	signatureHeader = "Stripe-Signature"

	// maxPayloadBytes Stripe ограничивает событие 256 КБ с запасом
	maxPayloadBytes = 512 << 10

	msgInvalidPayload   = "некорректное тело запроса"
	msgInvalidSignature = "некорректная подпись"
)

type Handler struct {
	parser  WebhookParser
	confirm ConfirmBookingUseCase
	expire  ExpireCheckoutUseCase
	refunds RefundService
	logger  Logger
}

func NewHandler(
	parser WebhookParser,
	confirm ConfirmBookingUseCase,
	expire ExpireCheckoutUseCase,
	refunds RefundService,
	logger Logger,
) *Handler {
	return &Handler{
		parser:  parser,
		confirm: confirm,
		expire:  expire,
		refunds: refunds,
		logger:  logger,
	}
}

// Handle POST /api/v1/webhooks/stripe
// 5xx заставляет провайдера повторить доставку, поэтому отдается только на внутренних ошибках
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /webhooks/stripe - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	event, err := h.parser.ParseWebhook(payload, r.Header.Get(signatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, stripe.ErrInvalidSignature):
			h.logger.Warn("POST /webhooks/stripe - Invalid signature: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSignature)
		default:
			h.logger.Warn("POST /webhooks/stripe - Invalid payload: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPayload)
		}
		return
	}

	h.logger.Info("POST /webhooks/stripe - Event id=%s type=%s", event.ID, event.Type)

	result, err := h.dispatch(r.Context(), event)
	if err != nil {
		h.logger.Error("POST /webhooks/stripe - Failed to process event id=%s type=%s: %v", event.ID, event.Type, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, AckResponse{Received: true, Result: result})
}

func (h *Handler) dispatch(ctx context.Context, event *stripe.WebhookEvent) (string, error) {
	switch event.Type {
	case stripe.EventCheckoutCompleted, stripe.EventCheckoutAsyncPaymentSuccess:
		if event.Session == nil {
			return resultIgnored, nil
		}
		if !event.Session.Paid {
			// отложенная оплата, дождемся async_payment_succeeded
			h.logger.Info("POST /webhooks/stripe - Session %s not paid yet", event.Session.ID)
			return resultIgnored, nil
		}
		return h.handleConfirm(ctx, event.Session)

	case stripe.EventCheckoutExpired:
		return h.handleExpire(ctx, event.Session, domain.ReasonCheckoutExpired, false)

	case stripe.EventCheckoutAsyncPaymentFailed:
		return h.handleExpire(ctx, event.Session, domain.ReasonPaymentFailed, true)

	case stripe.EventChargeRefunded:
		return h.handleRefund(ctx, event.RefundedPaymentIntentID)

	default:
		return resultIgnored, nil
	}
}

func (h *Handler) handleConfirm(ctx context.Context, session *stripe.SessionStatus) (string, error) {
	resp, err := h.confirm.Execute(ctx, &confirmBooking.Request{SessionID: session.ID, Session: session})
	if err != nil {
		switch {
		case errors.Is(err, confirmBooking.ErrBookingNotFound),
			errors.Is(err, confirmBooking.ErrNotPending),
			errors.Is(err, confirmBooking.ErrConflict),
			errors.Is(err, confirmBooking.ErrPaymentNotCompleted):
			h.logger.Warn("POST /webhooks/stripe - Session %s not confirmed: %v", session.ID, err)
			return resultFinal, nil
		default:
			return "", err
		}
	}

	h.logger.Info("POST /webhooks/stripe - Booking id=%d %s", resp.BookingID, resp.Outcome)
	return resultProcessed, nil
}

func (h *Handler) handleExpire(ctx context.Context, session *stripe.SessionStatus, reason string, attempted bool) (string, error) {
	if session == nil {
		return resultIgnored, nil
	}

	resp, err := h.expire.Execute(ctx, &expireCheckout.Request{
		SessionID:        session.ID,
		BookingID:        session.BookingID,
		PaymentAttempted: attempted || session.PaymentAttempted(),
		Reason:           reason,
	})
	if err != nil {
		if errors.Is(err, expireCheckout.ErrInvalidInput) {
			return resultIgnored, nil
		}
		return "", err
	}

	h.logger.Info("POST /webhooks/stripe - Booking id=%d %s after %s", resp.BookingID, resp.Action, reason)
	return resultProcessed, nil
}

func (h *Handler) handleRefund(ctx context.Context, paymentIntentID *string) (string, error) {
	if paymentIntentID == nil {
		return resultIgnored, nil
	}

	if err := h.refunds.MarkRefundedByPaymentIntent(ctx, *paymentIntentID); err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) || errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("POST /webhooks/stripe - Refund for unknown payment_intent=%s", *paymentIntentID)
			return resultIgnored, nil
		}
		return "", err
	}
	return resultProcessed, nil
}
