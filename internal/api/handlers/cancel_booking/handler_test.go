package cancel_booking

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TattooBookingService/internal/service/bookings"
	"github.com/m04kA/TattooBookingService/internal/service/bookings/models"
	"github.com/m04kA/TattooBookingService/pkg/logger"
)

type fakeService struct {
	gotID  int64
	gotReq *models.CancelBookingRequest
	err    error
}

func (f *fakeService) Cancel(_ context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	f.gotID = id
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: id, Status: "cancelled"}, nil
}

func serve(svc *fakeService, target, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/admin/bookings/{bookingId}/cancel",
		NewHandler(svc, logger.NewWithWriter(io.Discard, "error")).Handle).Methods(http.MethodPatch)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body)))
	return rec
}

func TestHandle_CancelWithReason(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "/api/v1/admin/bookings/4/cancel", `{"reason":"artist_sick"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), svc.gotID)
	assert.Equal(t, "artist_sick", svc.gotReq.Reason)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
}

func TestHandle_CancelWithoutBody(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "/api/v1/admin/bookings/4/cancel", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.gotReq.Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		err    error
		code   int
	}{
		{name: "invalid id", target: "/api/v1/admin/bookings/x/cancel", code: http.StatusBadRequest},
		{name: "bad body", target: "/api/v1/admin/bookings/1/cancel", body: `{"reason":`, code: http.StatusBadRequest},
		{name: "unknown field", target: "/api/v1/admin/bookings/1/cancel", body: `{"why":"x"}`, code: http.StatusBadRequest},
		{name: "invalid input", target: "/api/v1/admin/bookings/1/cancel", err: bookings.ErrInvalidInput, code: http.StatusBadRequest},
		{name: "not found", target: "/api/v1/admin/bookings/1/cancel", err: bookings.ErrBookingNotFound, code: http.StatusNotFound},
		{name: "cannot cancel", target: "/api/v1/admin/bookings/1/cancel", err: bookings.ErrCannotCancel, code: http.StatusConflict},
		{name: "internal", target: "/api/v1/admin/bookings/1/cancel", err: errors.New("boom"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.target, tt.body)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
