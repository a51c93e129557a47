package delete_override

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/TattooBookingService/internal/service/schedule"
	"github.com/m04kA/TattooBookingService/pkg/logger"
)

type fakeService struct {
	artistID, overrideID int64
	err                  error
}

func (f *fakeService) DeleteOverride(_ context.Context, artistID, overrideID int64) error {
	f.artistID, f.overrideID = artistID, overrideID
	return f.err
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/admin/artists/{artistId}/schedule/overrides/{overrideId}",
		NewHandler(svc, logger.NewWithWriter(io.Discard, "error")).Handle).Methods(http.MethodDelete)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, target, nil))
	return rec
}

func TestHandle_Deletes(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "/api/v1/admin/artists/2/schedule/overrides/11")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(2), svc.artistID)
	assert.Equal(t, int64(11), svc.overrideID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		code   int
	}{
		{name: "invalid override id", target: "/api/v1/admin/artists/2/schedule/overrides/x", code: http.StatusBadRequest},
		{name: "not found", target: "/api/v1/admin/artists/2/schedule/overrides/11", err: schedule.ErrOverrideNotFound, code: http.StatusNotFound},
		{name: "internal", target: "/api/v1/admin/artists/2/schedule/overrides/11", err: schedule.ErrInternal, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.target)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
