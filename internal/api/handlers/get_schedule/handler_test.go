package get_schedule

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TattooBookingService/internal/service/schedule"
	"github.com/m04kA/TattooBookingService/internal/service/schedule/models"
	"github.com/m04kA/TattooBookingService/pkg/logger"
)

type fakeService struct {
	got *models.GetScheduleRequest
	err error
}

func (f *fakeService) GetSchedule(_ context.Context, req *models.GetScheduleRequest) (*models.ScheduleResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ScheduleResponse{
		ArtistID:            req.ArtistID,
		UsesDefaultSchedule: true,
		Templates:           []models.TemplateResponse{},
		Overrides:           []models.OverrideResponse{},
	}, nil
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/admin/artists/{artistId}/schedule",
		NewHandler(svc, time.UTC, logger.NewWithWriter(io.Discard, "error")).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_ReturnsSchedule(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "/api/v1/admin/artists/3/schedule?from=2026-03-01&to=2026-03-31")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.From)
	require.NotNil(t, svc.got.To)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), *svc.got.To)

	var body models.ScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.ArtistID)
	assert.True(t, body.UsesDefaultSchedule)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		code   int
	}{
		{name: "invalid artist", target: "/api/v1/admin/artists/-1/schedule", code: http.StatusBadRequest},
		{name: "invalid date", target: "/api/v1/admin/artists/1/schedule?to=31.03.2026", code: http.StatusBadRequest},
		{name: "invalid period", target: "/api/v1/admin/artists/1/schedule", err: schedule.ErrInvalidInput, code: http.StatusBadRequest},
		{name: "artist not found", target: "/api/v1/admin/artists/1/schedule", err: schedule.ErrArtistNotFound, code: http.StatusNotFound},
		{name: "internal", target: "/api/v1/admin/artists/1/schedule", err: schedule.ErrInternal, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.target)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
