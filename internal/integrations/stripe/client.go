package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	stripego "github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("tattoo-booking.integrations.stripe")

// Config параметры клиента Stripe
type Config struct {
	SecretKey        string
	WebhookSecret    string
	WebhookTolerance time.Duration
	SuccessURL       string
	CancelURL        string
}

// Client клиент платежного провайдера
type Client struct {
	cfg      Config
	sessions *checkoutsession.Client
	logger   Logger
}

// NewClient создает клиент Stripe
// backend == nil означает стандартный API backend stripe-go
func NewClient(cfg Config, backend stripego.Backend, logger Logger) *Client {
	if backend == nil {
		backend = stripego.GetBackend(stripego.APIBackend)
	}
	return &Client{
		cfg:      cfg,
		sessions: &checkoutsession.Client{B: backend, Key: cfg.SecretKey},
		logger:   logger,
	}
}

// CheckoutIdempotencyKey ключ идемпотентности создания сессии для бронирования
func CheckoutIdempotencyKey(bookingID int64) string {
	return "checkout-booking-" + strconv.FormatInt(bookingID, 10)
}

// CreateCheckoutSession создает сессию оплаты с одной позицией на сумму бронирования
func (c *Client) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if strings.TrimSpace(c.cfg.SecretKey) == "" {
		return nil, ErrNotConfigured
	}

	ctx, span := tracer.Start(ctx, "stripe.checkout_session.create", trace.WithAttributes(
		attribute.Int64("booking.id", req.BookingID),
		attribute.Int64("payment.amount_minor", req.AmountMinor),
	))
	defer span.End()

	bookingID := strconv.FormatInt(req.BookingID, 10)
	params := &stripego.CheckoutSessionParams{
		Mode:              stripego.String(string(stripego.CheckoutSessionModePayment)),
		SuccessURL:        stripego.String(c.cfg.SuccessURL),
		CancelURL:         stripego.String(c.cfg.CancelURL),
		ClientReferenceID: stripego.String(bookingID),
		ExpiresAt:         stripego.Int64(req.ExpiresAt.Unix()),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripego.String(req.Currency),
					UnitAmount: stripego.Int64(req.AmountMinor),
					ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripego.String(req.Description),
					},
				},
				Quantity: stripego.Int64(1),
			},
		},
		Metadata: map[string]string{
			MetadataBookingID: bookingID,
			MetadataArtistID:  strconv.FormatInt(req.ArtistID, 10),
			MetadataServiceID: strconv.FormatInt(req.ServiceID, 10),
		},
		PaymentIntentData: &stripego.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{MetadataBookingID: bookingID},
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripego.String(req.CustomerEmail)
	}
	params.IdempotencyKey = stripego.String(CheckoutIdempotencyKey(req.BookingID))
	params.Context = ctx

	sess, err := c.sessions.New(params)
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("%w: create checkout session: %v", ErrProvider, err))
	}

	c.logger.Info("Stripe.CreateCheckoutSession: session=%s booking=%d amount=%d %s",
		sess.ID, req.BookingID, req.AmountMinor, req.Currency)

	return &CheckoutSession{
		ID:        sess.ID,
		URL:       sess.URL,
		ExpiresAt: time.Unix(sess.ExpiresAt, 0),
	}, nil
}

// GetSession запрашивает у Stripe актуальное состояние сессии
func (c *Client) GetSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	if strings.TrimSpace(c.cfg.SecretKey) == "" {
		return nil, ErrNotConfigured
	}

	ctx, span := tracer.Start(ctx, "stripe.checkout_session.get",
		trace.WithAttributes(attribute.String("stripe.session_id", sessionID)))
	defer span.End()

	params := &stripego.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := c.sessions.Get(sessionID, params)
	if err != nil {
		var stripeErr *stripego.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return nil, c.fail(span, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID))
		}
		return nil, c.fail(span, fmt.Errorf("%w: get checkout session: %v", ErrProvider, err))
	}

	return toSessionStatus(sess), nil
}

// ParseWebhook проверяет подпись и разбирает событие вебхука
func (c *Client) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, c.cfg.WebhookSecret, webhook.ConstructEventOptions{
		Tolerance:                c.cfg.WebhookTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	result := &WebhookEvent{ID: evt.ID, Type: string(evt.Type)}

	switch result.Type {
	case EventCheckoutCompleted, EventCheckoutAsyncPaymentSuccess, EventCheckoutExpired, EventCheckoutAsyncPaymentFailed:
		var sess stripego.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %v", ErrInvalidPayload, err)
		}
		result.Session = toSessionStatus(&sess)

	case EventChargeRefunded:
		var charge stripego.Charge
		if err := json.Unmarshal(evt.Data.Raw, &charge); err != nil {
			return nil, fmt.Errorf("%w: charge: %v", ErrInvalidPayload, err)
		}
		if charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
			id := charge.PaymentIntent.ID
			result.RefundedPaymentIntentID = &id
		}
	}

	return result, nil
}

func toSessionStatus(sess *stripego.CheckoutSession) *SessionStatus {
	status := &SessionStatus{
		ID:   sess.ID,
		Paid: sess.PaymentStatus == stripego.CheckoutSessionPaymentStatusPaid,
	}
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		id := sess.PaymentIntent.ID
		status.PaymentIntentID = &id
	}
	if raw, ok := sess.Metadata[MetadataBookingID]; ok {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			status.BookingID = id
		}
	}
	return status
}

func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Error("Stripe: %v", err)
	return err
}
