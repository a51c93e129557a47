package replace_templates

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TattooBookingService/internal/service/schedule"
	"github.com/m04kA/TattooBookingService/internal/service/schedule/models"
	"github.com/m04kA/TattooBookingService/pkg/logger"
)

type fakeService struct {
	got *models.ReplaceTemplatesRequest
	err error
}

func (f *fakeService) ReplaceTemplates(_ context.Context, _ int64, req *models.ReplaceTemplatesRequest) ([]models.TemplateResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	result := make([]models.TemplateResponse, 0, len(req.Templates))
	for i, t := range req.Templates {
		result = append(result, models.TemplateResponse{ID: int64(i + 1), Weekday: t.Weekday, Start: t.Start, End: t.End})
	}
	return result, nil
}

func serve(svc *fakeService, target, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/admin/artists/{artistId}/schedule/templates",
		NewHandler(svc, logger.NewWithWriter(io.Discard, "error")).Handle).Methods(http.MethodPut)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, target, strings.NewReader(body)))
	return rec
}

func TestHandle_ReplacesTemplates(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "/api/v1/admin/artists/2/schedule/templates",
		`{"templates":[{"weekday":1,"start":"11:00","end":"20:00"},{"weekday":6,"start":"12:00","end":"24:00"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.got.Templates, 2)
	assert.Equal(t, "24:00", svc.got.Templates[1].End.String())

	var body TemplatesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.ArtistID)
	assert.Len(t, body.Templates, 2)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{name: "bad json", body: `{"templates":`, code: http.StatusBadRequest},
		{name: "invalid templates", body: `{"templates":[]}`, err: schedule.ErrInvalidInput, code: http.StatusBadRequest},
		{name: "artist not found", body: `{"templates":[]}`, err: schedule.ErrArtistNotFound, code: http.StatusNotFound},
		{name: "internal", body: `{"templates":[]}`, err: schedule.ErrInternal, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, "/api/v1/admin/artists/2/schedule/templates", tt.body)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
