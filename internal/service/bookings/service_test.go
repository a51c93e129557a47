package bookings

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TattooBookingService/internal/domain"
	"github.com/m04kA/TattooBookingService/internal/infra/storage/booking/bookingtest"
	catalogRepo "github.com/m04kA/TattooBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/TattooBookingService/internal/service/bookings/models"
	"github.com/m04kA/TattooBookingService/pkg/logger"
	"github.com/m04kA/TattooBookingService/pkg/ptr"
)

type fakeCatalog struct {
	artist *domain.Artist
}

func (f *fakeCatalog) GetArtist(_ context.Context, id int64) (*domain.Artist, error) {
	if f.artist == nil || f.artist.ID != id {
		return nil, catalogRepo.ErrArtistNotFound
	}
	return f.artist, nil
}

type fakeCalendar struct {
	deleted []string
	err     error
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, _ domain.CalendarLink, eventID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

type fakeMetrics struct {
	failures int
}

func (f *fakeMetrics) IncExternalFailure(string, string) { f.failures++ }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store    *bookingtest.Store
	calendar *fakeCalendar
	metrics  *fakeMetrics
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		store:    bookingtest.NewStore(),
		calendar: &fakeCalendar{},
		metrics:  &fakeMetrics{},
	}
	catalog := &fakeCatalog{artist: &domain.Artist{
		ID: 1, Active: true,
		CalendarID:          ptr.Ptr("mira@studio.example"),
		CalendarCredentials: []byte(`{}`),
	}}
	f.svc = NewService(f.store, catalog, f.calendar, &bookingtest.TxManager{}, f.metrics, logger.NewWithWriter(io.Discard, "error"))
	f.svc.timeProvider = fixedTime{now: now}
	return f
}

func (f *fixture) put(status domain.BookingStatus, day int, eventID *string) *domain.Booking {
	return f.store.Put(&domain.Booking{
		ArtistID:        1,
		ServiceID:       10,
		StartsAt:        time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC),
		EndsAt:          time.Date(2026, 3, day, 14, 0, 0, 0, time.UTC),
		Status:          status,
		PaymentIntentID: ptr.Ptr("pi_" + string(status)),
		ExternalEventID: eventID,
		CreatedAt:       now.Add(-time.Hour),
	})
}

func TestGetByID(t *testing.T) {
	f := newFixture()
	b := f.put(domain.StatusConfirmed, 12, nil)

	resp, err := f.svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.NotNil(t, resp.Brief.ReferenceImageURLs)

	_, err = f.svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListArtistBookings(t *testing.T) {
	f := newFixture()
	f.put(domain.StatusConfirmed, 12, nil)
	f.put(domain.StatusPending, 13, nil)
	f.put(domain.StatusCancelled, 14, nil)
	f.put(domain.StatusConfirmed, 20, nil)

	resp, err := f.svc.ListArtistBookings(context.Background(), &models.ListArtistBookingsRequest{ArtistID: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 3)

	resp, err = f.svc.ListArtistBookings(context.Background(), &models.ListArtistBookingsRequest{ArtistID: 1, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 4)

	from := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	resp, err = f.svc.ListArtistBookings(context.Background(), &models.ListArtistBookingsRequest{
		ArtistID: 1, From: &from, To: &to, Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, 12, resp.Bookings[0].StartsAt.Day())

	_, err = f.svc.ListArtistBookings(context.Background(), &models.ListArtistBookingsRequest{ArtistID: 1, Status: ptr.Ptr("done")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.ListArtistBookings(context.Background(), &models.ListArtistBookingsRequest{ArtistID: 1, From: &to, To: &from})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_RemovesCalendarEvent(t *testing.T) {
	f := newFixture()
	b := f.put(domain.StatusConfirmed, 12, ptr.Ptr("evt-1"))

	resp, err := f.svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{Reason: "artist is ill"})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "artist is ill", *resp.CancellationReason)
	assert.Nil(t, resp.ExternalEventID)
	assert.Equal(t, []string{"evt-1"}, f.calendar.deleted)

	stored := f.store.Get(b.ID)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Nil(t, stored.ExternalEventID)
}

func TestCancel_CalendarFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	b := f.put(domain.StatusConfirmed, 12, ptr.Ptr("evt-1"))
	f.calendar.err = errors.New("calendar down")

	resp, err := f.svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{})

	require.NoError(t, err)
	assert.Equal(t, models.DefaultCancellationReason, *resp.CancellationReason)
	assert.Equal(t, 1, f.metrics.failures)
	assert.Equal(t, "evt-1", *f.store.Get(b.ID).ExternalEventID)
}

func TestCancel_Errors(t *testing.T) {
	f := newFixture()
	refunded := f.put(domain.StatusRefunded, 12, nil)

	_, err := f.svc.Cancel(context.Background(), refunded.ID, &models.CancelBookingRequest{})
	assert.ErrorIs(t, err, ErrCannotCancel)

	_, err = f.svc.Cancel(context.Background(), 999, &models.CancelBookingRequest{})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestMarkRefundedByPaymentIntent(t *testing.T) {
	f := newFixture()
	b := f.put(domain.StatusConfirmed, 12, ptr.Ptr("evt-1"))

	require.NoError(t, f.svc.MarkRefundedByPaymentIntent(context.Background(), "pi_confirmed"))
	assert.Equal(t, domain.StatusRefunded, f.store.Get(b.ID).Status)
	assert.Equal(t, []string{"evt-1"}, f.calendar.deleted)

	// повторное событие
	require.NoError(t, f.svc.MarkRefundedByPaymentIntent(context.Background(), "pi_confirmed"))
	assert.Len(t, f.calendar.deleted, 1)

	err := f.svc.MarkRefundedByPaymentIntent(context.Background(), "pi_unknown")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
