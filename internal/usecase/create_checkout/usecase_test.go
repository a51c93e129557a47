package create_checkout

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
	"github.com/m04kA/TattooBookingService/internal/integrations/stripe"
	"github.com/m04kA/TattooBookingService/pkg/logger"
	"github.com/m04kA/TattooBookingService/pkg/ptr"
)

type fakeCatalog struct {
	artist  *domain.Artist
	service *domain.OfferedService
}

func (f *fakeCatalog) GetArtist(_ context.Context, id int64) (*domain.Artist, error) {
	if f.artist == nil || f.artist.ID != id {
		return nil, catalogRepo.ErrArtistNotFound
	}
	return f.artist, nil
}

func (f *fakeCatalog) GetOfferedService(_ context.Context, _ int64, serviceID int64) (*domain.OfferedService, error) {
	if f.service == nil || f.service.ID != serviceID {
		return nil, catalogRepo.ErrServiceNotOffered
	}
	return f.service, nil
}

type fakeSchedule struct {
	templates []domain.AvailabilityTemplate
	overrides []domain.AvailabilityOverride
}

func (f *fakeSchedule) ListTemplates(context.Context, int64) ([]domain.AvailabilityTemplate, error) {
	return f.templates, nil
}

func (f *fakeSchedule) ListOverrides(context.Context, int64, time.Time, time.Time) ([]domain.AvailabilityOverride, error) {
	return f.overrides, nil
}

type fakePayments struct {
	requests []stripe.CheckoutRequest
	err      error
}

func (f *fakePayments) CreateCheckoutSession(_ context.Context, req stripe.CheckoutRequest) (*stripe.CheckoutSession, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1", ExpiresAt: req.ExpiresAt}, nil
}

type fakeMetrics struct {
	results map[string]int
}

func (f *fakeMetrics) IncCheckout(result string) {
	if f.results == nil {
		f.results = map[string]int{}
	}
	f.results[result]++
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var moscow = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		panic(err)
	}
	return loc
}()

// 2026-03-10 вторник
func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, moscow)
}

type fixture struct {
	store    *bookingtest.Store
	tx       *bookingtest.TxManager
	catalog  *fakeCatalog
	schedule *fakeSchedule
	payments *fakePayments
	metrics  *fakeMetrics
	uc       *UseCase
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		store: bookingtest.NewStore(),
		tx:    &bookingtest.TxManager{},
		catalog: &fakeCatalog{
			artist: &domain.Artist{ID: 1, Name: "Mira", Active: true},
			service: &domain.OfferedService{
				Service: domain.Service{
					ID: 10, Name: "Small tattoo", DurationMinutes: 120,
					BufferBeforeMinutes: 15, BufferAfterMinutes: 15,
					PriceMinor: 1000000, DepositMinor: ptr.Ptr(int64(300000)), Active: true,
				},
				ArtistID:   1,
				LinkActive: true,
			},
		},
		schedule: &fakeSchedule{},
		payments: &fakePayments{},
		metrics:  &fakeMetrics{},
	}
	f.uc = NewUseCase(f.store, f.catalog, f.schedule, f.payments, f.tx, f.metrics, Config{
		Location:        moscow,
		Hold:            20 * time.Minute,
		MinNotice:       time.Hour,
		Currency:        "rub",
		DefaultSchedule: domain.StudioDefaultSchedule,
	}, logger.NewWithWriter(io.Discard, "error"))
	f.uc.timeProvider = fixedTime{now: now}
	return f
}

func validRequest(start time.Time) *Request {
	return &Request{
		ArtistID:  1,
		ServiceID: 10,
		Start:     start,
		Customer:  Customer{Name: "Anna", Email: "anna@example.com"},
		Brief: domain.CustomerBrief{
			Placement:          "forearm",
			Description:        "fine line peony",
			ReferenceImageURLs: []string{"https://cdn.example.com/ref1.jpg"},
		},
	}
}

func TestExecute_CreatesPendingHold(t *testing.T) {
	now := at(8, 0)
	f := newFixture(now)

	resp, err := f.uc.Execute(context.Background(), validRequest(at(12, 0)))

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", resp.CheckoutURL)
	assert.True(t, resp.EndsAt.Equal(at(14, 0)))
	assert.Equal(t, int64(300000), resp.AmountMinor)
	assert.Equal(t, int64(1000000), resp.PriceMinor)
	assert.True(t, resp.HoldExpiresAt.Equal(now.Add(20*time.Minute)))

	stored := f.store.Get(resp.BookingID)
	require.NotNil(t, stored)
	assert.Equal(t, domain.StatusPending, stored.Status)
	require.NotNil(t, stored.CheckoutSessionID)
	assert.Equal(t, "cs_test_1", *stored.CheckoutSessionID)
	assert.Equal(t, "forearm", stored.Brief.Placement)
	assert.True(t, stored.CreatedAt.Equal(now))

	require.Len(t, f.payments.requests, 1)
	// Stripe не принимает срок жизни сессии меньше 30 минут
	assert.True(t, f.payments.requests[0].ExpiresAt.Equal(now.Add(30*time.Minute)))
	assert.Equal(t, int64(300000), f.payments.requests[0].AmountMinor)
	assert.Equal(t, 1, f.metrics.results["created"])
	assert.Equal(t, 1, f.tx.Calls)
}

func TestExecute_FreshPendingBlocks(t *testing.T) {
	now := at(8, 0)
	f := newFixture(now)
	f.store.Put(&domain.Booking{
		ArtistID: 1, StartsAt: at(13, 0), EndsAt: at(14, 0),
		Status: domain.StatusPending, CreatedAt: now.Add(-19 * time.Minute),
	})

	_, err := f.uc.Execute(context.Background(), validRequest(at(12, 0)))

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, 1, f.store.Len())
	assert.Empty(t, f.payments.requests)
	assert.Equal(t, 1, f.metrics.results["slot_taken"])
}

func TestExecute_StalePendingDoesNotBlock(t *testing.T) {
	now := at(8, 0)
	f := newFixture(now)
	f.store.Put(&domain.Booking{
		ArtistID: 1, StartsAt: at(13, 0), EndsAt: at(14, 0),
		Status: domain.StatusPending, CreatedAt: now.Add(-21 * time.Minute),
	})

	resp, err := f.uc.Execute(context.Background(), validRequest(at(12, 0)))

	require.NoError(t, err)
	assert.Equal(t, 2, f.store.Len())
	assert.NotZero(t, resp.BookingID)
}

func TestExecute_ConfirmedBlocksButTouchingDoesNot(t *testing.T) {
	now := at(8, 0)
	f := newFixture(now)
	f.store.Put(&domain.Booking{
		ArtistID: 1, StartsAt: at(12, 0), EndsAt: at(14, 0),
		Status: domain.StatusConfirmed, CreatedAt: now.Add(-48 * time.Hour),
	})

	_, err := f.uc.Execute(context.Background(), validRequest(at(13, 0)))
	assert.ErrorIs(t, err, ErrSlotTaken)

	// буферы 15 минут: сеанс 14:15-16:15 занимает 14:00-16:30
	_, err = f.uc.Execute(context.Background(), validRequest(at(14, 15)))
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.Len())
}

func TestExecute_BuffersMustNotOverlapNeighbours(t *testing.T) {
	now := at(8, 0)
	f := newFixture(now)
	f.store.Put(&domain.Booking{
		ArtistID: 1, StartsAt: at(14, 0), EndsAt: at(15, 0),
		Status: domain.StatusConfirmed, CreatedAt: now.Add(-48 * time.Hour),
	})

	// сам сеанс 12:00-14:00 не пересекается, но буфер после него задевает соседа
	_, err := f.uc.Execute(context.Background(), validRequest(at(12, 0)))
	assert.ErrorIs(t, err, ErrSlotTaken)

	// то же для буфера перед сеансом
	_, err = f.uc.Execute(context.Background(), validRequest(at(15, 0)))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, 2, f.metrics.results["slot_taken"])

	// буферы вплотную к соседу допустимы
	_, err = f.uc.Execute(context.Background(), validRequest(at(11, 45)))
	require.NoError(t, err)
	_, err = f.uc.Execute(context.Background(), validRequest(at(15, 15)))
	require.NoError(t, err)
	assert.Equal(t, 3, f.store.Len())
}

func TestExecute_PaymentFailureDeletesHold(t *testing.T) {
	f := newFixture(at(8, 0))
	f.payments.err = errors.New("stripe is down")

	_, err := f.uc.Execute(context.Background(), validRequest(at(12, 0)))

	assert.ErrorIs(t, err, ErrPaymentUnavailable)
	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, 1, f.metrics.results["payment_unavailable"])
}

func TestExecute_OutsideOpeningHours(t *testing.T) {
	f := newFixture(at(8, 0))

	// по умолчанию будни 10:00-20:00, буфер до сеанса 15 минут
	_, err := f.uc.Execute(context.Background(), validRequest(at(10, 0)))
	assert.ErrorIs(t, err, ErrOutsideOpeningHours)

	f.schedule.overrides = []domain.AvailabilityOverride{
		{ArtistID: 1, Date: at(0, 0), Type: domain.OverrideClosed},
	}
	_, err = f.uc.Execute(context.Background(), validRequest(at(12, 0)))
	assert.ErrorIs(t, err, ErrOutsideOpeningHours)
	assert.Equal(t, 0, f.store.Len())
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *Request, f *fixture)
		wantErr error
	}{
		{
			name:    "missing service",
			mutate:  func(req *Request, _ *fixture) { req.ServiceID = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "empty name",
			mutate:  func(req *Request, _ *fixture) { req.Customer.Name = "  " },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed email",
			mutate:  func(req *Request, _ *fixture) { req.Customer.Email = "anna-at-example" },
			wantErr: ErrInvalidInput,
		},
		{
			name: "too many references",
			mutate: func(req *Request, _ *fixture) {
				req.Brief.ReferenceImageURLs = make([]string, domain.MaxReferenceImages+1)
				for i := range req.Brief.ReferenceImageURLs {
					req.Brief.ReferenceImageURLs[i] = "https://cdn.example.com/x.jpg"
				}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "non http reference",
			mutate:  func(req *Request, _ *fixture) { req.Brief.ReferenceImageURLs = []string{"ftp://files/x.jpg"} },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "too late",
			mutate:  func(req *Request, _ *fixture) { req.Start = at(8, 30) },
			wantErr: ErrTooLateToBook,
		},
		{
			name:    "unknown artist",
			mutate:  func(req *Request, _ *fixture) { req.ArtistID = 2 },
			wantErr: ErrArtistNotFound,
		},
		{
			name:    "service not offered",
			mutate:  func(req *Request, _ *fixture) { req.ServiceID = 11 },
			wantErr: ErrServiceNotOffered,
		},
		{
			name:    "inactive service",
			mutate:  func(_ *Request, f *fixture) { f.catalog.service.Active = false },
			wantErr: ErrServiceNotOffered,
		},
		{
			name:    "zero price",
			mutate:  func(_ *Request, f *fixture) { f.catalog.service.PriceOverrideMinor = ptr.Ptr(int64(0)) },
			wantErr: ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(at(8, 0))
			req := validRequest(at(12, 0))
			tt.mutate(req, f)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.store.Len())
		})
	}
}
