package stripe_webhook

import (
	"context"

	"github.com/m04kA/TattooBookingService/internal/integrations/stripe"
	confirmBooking "github.com/m04kA/TattooBookingService/internal/usecase/confirm_booking"
	expireCheckout "github.com/m04kA/TattooBookingService/internal/usecase/expire_checkout"
)

type WebhookParser interface {
	ParseWebhook(payload []byte, signature string) (*stripe.WebhookEvent, error)
}

type ConfirmBookingUseCase interface {
	Execute(ctx context.Context, req *confirmBooking.Request) (*confirmBooking.Response, error)
}

type ExpireCheckoutUseCase interface {
	Execute(ctx context.Context, req *expireCheckout.Request) (*expireCheckout.Response, error)
}

type RefundService interface {
	MarkRefundedByPaymentIntent(ctx context.Context, paymentIntentID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
