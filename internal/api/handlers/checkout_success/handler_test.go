package checkout_success

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	confirmBooking "github.com/m04kA/TattooBookingService/internal/usecase/confirm_booking"
	"github.com/m04kA/TattooBookingService/pkg/logger"
)

type fakeUseCase struct {
	got  *confirmBooking.Request
	resp *confirmBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *confirmBooking.Request) (*confirmBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(uc, time.UTC, logger.NewWithWriter(io.Discard, "error")).
		Handle(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_Confirmed(t *testing.T) {
	uc := &fakeUseCase{resp: &confirmBooking.Response{BookingID: 5, Outcome: confirmBooking.OutcomeConfirmed, Status: "confirmed"}}

	rec := serve(uc, "/api/v1/checkout/success?session_id=cs_test_1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cs_test_1", uc.got.SessionID)
	assert.Nil(t, uc.got.Session)

	var body ConfirmationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "confirmed", body.Outcome)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		code   int
	}{
		{name: "missing session", target: "/api/v1/checkout/success", code: http.StatusBadRequest},
		{name: "not found", target: "/api/v1/checkout/success?session_id=cs", err: confirmBooking.ErrBookingNotFound, code: http.StatusNotFound},
		{name: "not pending", target: "/api/v1/checkout/success?session_id=cs", err: confirmBooking.ErrNotPending, code: http.StatusConflict},
		{name: "conflict", target: "/api/v1/checkout/success?session_id=cs", err: confirmBooking.ErrConflict, code: http.StatusConflict},
		{name: "not paid", target: "/api/v1/checkout/success?session_id=cs", err: confirmBooking.ErrPaymentNotCompleted, code: http.StatusPaymentRequired},
		{name: "provider down", target: "/api/v1/checkout/success?session_id=cs", err: confirmBooking.ErrPaymentUnavailable, code: http.StatusBadGateway},
		{name: "internal", target: "/api/v1/checkout/success?session_id=cs", err: confirmBooking.ErrInternal, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, tt.target)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
