package list_artist_bookings

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TattooBookingService/internal/service/bookings"
	"github.com/m04kA/TattooBookingService/internal/service/bookings/models"
	"github.com/m04kA/TattooBookingService/pkg/logger"
)

type fakeService struct {
	got *models.ListArtistBookingsRequest
	err error
}

func (f *fakeService) ListArtistBookings(_ context.Context, req *models.ListArtistBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}, {ID: 2}}}, nil
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	loc, _ := time.LoadLocation("Europe/Moscow")
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/admin/artists/{artistId}/bookings",
		NewHandler(svc, loc, logger.NewWithWriter(io.Discard, "error")).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_ParsesFilter(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "/api/v1/admin/artists/7/bookings?from=2026-03-10&to=2026-03-12&status=confirmed&includeInactive=true")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(7), svc.got.ArtistID)
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "confirmed", *svc.got.Status)
	assert.True(t, svc.got.IncludeInactive)

	// дата "to" включается целиком
	require.NotNil(t, svc.got.From)
	require.NotNil(t, svc.got.To)
	assert.Equal(t, 72*time.Hour, svc.got.To.Sub(*svc.got.From))
	assert.Contains(t, rec.Body.String(), `"bookings"`)
}

func TestHandle_NoFilter(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "/api/v1/admin/artists/7/bookings")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.got.From)
	assert.Nil(t, svc.got.To)
	assert.Nil(t, svc.got.Status)
	assert.False(t, svc.got.IncludeInactive)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		code   int
	}{
		{name: "invalid artist", target: "/api/v1/admin/artists/x/bookings", code: http.StatusBadRequest},
		{name: "invalid from", target: "/api/v1/admin/artists/1/bookings?from=yesterday", code: http.StatusBadRequest},
		{name: "invalid flag", target: "/api/v1/admin/artists/1/bookings?includeInactive=maybe", code: http.StatusBadRequest},
		{name: "invalid filter", target: "/api/v1/admin/artists/1/bookings?status=lost", err: bookings.ErrInvalidInput, code: http.StatusBadRequest},
		{name: "internal", target: "/api/v1/admin/artists/1/bookings", err: bookings.ErrInternal, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.target)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
