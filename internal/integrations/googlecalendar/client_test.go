package googlecalendar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/m04kA/TattooBookingService/internal/domain"
	"github.com/m04kA/TattooBookingService/pkg/logger"
)

const testCalendarID = "studio-calendar"

var testLink = domain.CalendarLink{CalendarID: testCalendarID, Credentials: []byte(`{}`)}

type fakeCalendar struct {
	freeBusyCalls atomic.Int32
	inserted      *calendar.Event
	updatedID     string
	existingEvent string
	deleteStatus  int
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	eventsPath := "/calendars/" + testCalendarID + "/events"
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/freeBusy"):
		f.freeBusyCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{
			"calendars": map[string]any{
				testCalendarID: map[string]any{
					"busy": []map[string]string{
						{"start": "2026-03-10T09:00:00Z", "end": "2026-03-10T10:00:00Z"},
						{"start": "2026-03-10T13:00:00Z", "end": "2026-03-10T13:00:00Z"},
					},
				},
			},
		})
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, eventsPath):
		items := []map[string]any{}
		if f.existingEvent != "" && r.URL.Query().Get("privateExtendedProperty") == "bookingId=42" {
			items = append(items, map[string]any{"id": f.existingEvent})
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, eventsPath):
		var ev calendar.Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		f.inserted = &ev
		writeJSON(w, http.StatusOK, map[string]any{"id": "evt-new"})
	case r.Method == http.MethodPut && strings.Contains(r.URL.Path, eventsPath+"/"):
		f.updatedID = r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		writeJSON(w, http.StatusOK, map[string]any{"id": f.updatedID})
	case r.Method == http.MethodDelete:
		if f.deleteStatus == http.StatusNotFound {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"code": 404, "message": "Not Found"}})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, fake *fakeCalendar, cache BusyCache) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	factory := func(ctx context.Context, _ domain.CalendarLink) (*calendar.Service, error) {
		return calendar.NewService(ctx, option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	}
	return NewClient(factory, 5*time.Second, "Europe/Moscow", cache, logger.NewWithWriter(io.Discard, "error"))
}

func TestClient_FreeBusy(t *testing.T) {
	fake := &fakeCalendar{}
	client := newTestClient(t, fake, nil)

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	busy, err := client.FreeBusy(context.Background(), testLink, from, from.Add(24*time.Hour))

	require.NoError(t, err)
	// пустой интервал отбрасывается
	require.Len(t, busy, 1)
	assert.True(t, busy[0].Start.Equal(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)))
	assert.True(t, busy[0].End.Equal(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)))
}

func TestClient_FreeBusy_UsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	fake := &fakeCalendar{}
	client := newTestClient(t, fake, NewRedisBusyCache(rdb, time.Minute))

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	first, err := client.FreeBusy(context.Background(), testLink, from, to)
	require.NoError(t, err)
	second, err := client.FreeBusy(context.Background(), testLink, from, to)
	require.NoError(t, err)

	assert.Equal(t, int32(1), fake.freeBusyCalls.Load())
	require.Len(t, second, 1)
	assert.True(t, first[0].Start.Equal(second[0].Start))

	// запись события сбрасывает кэш календаря
	_, err = client.UpsertEvent(context.Background(), testLink, Event{
		BookingID: 42,
		Start:     from.Add(12 * time.Hour),
		End:       from.Add(14 * time.Hour),
	})
	require.NoError(t, err)

	_, err = client.FreeBusy(context.Background(), testLink, from, to)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fake.freeBusyCalls.Load())
}

func TestClient_UpsertEvent_Inserts(t *testing.T) {
	fake := &fakeCalendar{}
	client := newTestClient(t, fake, nil)

	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	id, err := client.UpsertEvent(context.Background(), testLink, Event{
		BookingID:   42,
		Summary:     "Sleeve session",
		Description: "Forearm, blackwork",
		Start:       start,
		End:         start.Add(3 * time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, "evt-new", id)
	require.NotNil(t, fake.inserted)
	assert.Equal(t, "42", fake.inserted.ExtendedProperties.Private[BookingIDProperty])
	assert.Contains(t, fake.inserted.Description, "booking-id: 42")
	assert.Equal(t, "Europe/Moscow", fake.inserted.Start.TimeZone)
}

func TestClient_UpsertEvent_UpdatesExisting(t *testing.T) {
	fake := &fakeCalendar{existingEvent: "evt-old"}
	client := newTestClient(t, fake, nil)

	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	id, err := client.UpsertEvent(context.Background(), testLink, Event{BookingID: 42, Start: start, End: start.Add(time.Hour)})

	require.NoError(t, err)
	assert.Equal(t, "evt-old", id)
	assert.Equal(t, "evt-old", fake.updatedID)
	assert.Nil(t, fake.inserted)
}

func TestClient_DeleteEvent_AlreadyGone(t *testing.T) {
	fake := &fakeCalendar{deleteStatus: http.StatusNotFound}
	client := newTestClient(t, fake, nil)

	err := client.DeleteEvent(context.Background(), testLink, "evt-1")
	assert.NoError(t, err)
}

func TestClient_InvalidCredentials(t *testing.T) {
	factory := func(context.Context, domain.CalendarLink) (*calendar.Service, error) {
		return nil, assert.AnError
	}
	client := NewClient(factory, time.Second, "UTC", nil, logger.NewWithWriter(io.Discard, "error"))

	_, err := client.FreeBusy(context.Background(), testLink, time.Now(), time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
