// Package bookingtest provides an in-memory booking store with the same
// semantics and errors as the PostgreSQL repository, for use in tests.
package bookingtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
	bookingRepo "github.com/m04kA/TattooBookingService/internal/infra/storage/booking"
)

// Store is a concurrency-safe in-memory booking table.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*domain.Booking

	// ConfirmErr, when set, is returned by the next Confirm call.
	ConfirmErr error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nextID: 1, bookings: make(map[int64]*domain.Booking)}
}

// Put inserts or replaces a booking as is, assigning an id when it has none.
func (s *Store) Put(b *domain.Booking) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.nextID
	}
	if b.ID >= s.nextID {
		s.nextID = b.ID + 1
	}
	cp := clone(b)
	s.bookings[b.ID] = cp
	return clone(cp)
}

// Get returns a copy of the stored booking or nil.
func (s *Store) Get(id int64) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.bookings[id]; ok {
		return clone(b)
	}
	return nil
}

// Snapshot copies the current table; Restore puts it back, which lets a test
// simulate a rolled back transaction.
func (s *Store) Snapshot() map[int64]*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[int64]*domain.Booking, len(s.bookings))
	for id, b := range s.bookings {
		snap[id] = clone(b)
	}
	return snap
}

// Restore replaces the table with a snapshot.
func (s *Store) Restore(snap map[int64]*domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = make(map[int64]*domain.Booking, len(snap))
	for id, b := range snap {
		s.bookings[id] = clone(b)
	}
}

// Len returns the number of stored bookings.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *Store) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := clone(b)
	cp.ID = s.nextID
	s.nextID++
	cp.UpdatedAt = cp.CreatedAt
	s.bookings[cp.ID] = cp
	return clone(cp), nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if b := s.Get(id); b != nil {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (s *Store) GetByCheckoutSessionID(_ context.Context, sessionID string) (*domain.Booking, error) {
	return s.find(func(b *domain.Booking) bool {
		return b.CheckoutSessionID != nil && *b.CheckoutSessionID == sessionID
	})
}

func (s *Store) GetByPaymentIntentID(_ context.Context, paymentIntentID string) (*domain.Booking, error) {
	return s.find(func(b *domain.Booking) bool {
		return b.PaymentIntentID != nil && *b.PaymentIntentID == paymentIntentID
	})
}

func (s *Store) ListByArtist(_ context.Context, f domain.ArtistBookingsFilter) ([]*domain.Booking, error) {
	return s.filter(func(b *domain.Booking) bool {
		if b.ArtistID != f.ArtistID {
			return false
		}
		if f.From != nil && !b.EndsAt.After(*f.From) {
			return false
		}
		if f.To != nil && !b.StartsAt.Before(*f.To) {
			return false
		}
		if f.Status != nil {
			return b.Status == *f.Status
		}
		return f.IncludeInactive || (b.Status != domain.StatusCancelled && b.Status != domain.StatusRefunded)
	}), nil
}

func (s *Store) FindConflicts(_ context.Context, q domain.ConflictQuery) ([]*domain.Booking, error) {
	return s.filter(func(b *domain.Booking) bool {
		if b.ArtistID != q.ArtistID || !b.Range().Overlaps(q.Range) {
			return false
		}
		if q.ExcludeBookingID != nil && b.ID == *q.ExcludeBookingID {
			return false
		}
		if b.Status == domain.StatusConfirmed {
			return true
		}
		return q.IncludePendingSince != nil && b.Status == domain.StatusPending && !b.CreatedAt.Before(*q.IncludePendingSince)
	}), nil
}

func (s *Store) SetCheckoutSession(_ context.Context, id int64, sessionID string, now time.Time) error {
	return s.update(id, nil, func(b *domain.Booking) {
		b.CheckoutSessionID = &sessionID
		b.UpdatedAt = now
	})
}

func (s *Store) Confirm(_ context.Context, id int64, paymentIntentID *string, now time.Time) error {
	s.mu.Lock()
	err := s.ConfirmErr
	s.ConfirmErr = nil
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.update(id, []domain.BookingStatus{domain.StatusPending}, func(b *domain.Booking) {
		b.Status = domain.StatusConfirmed
		b.PaymentIntentID = paymentIntentID
		b.ConfirmedAt = &now
		b.UpdatedAt = now
	})
}

func (s *Store) Cancel(_ context.Context, id int64, reason string, now time.Time) error {
	return s.update(id, []domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed}, func(b *domain.Booking) {
		b.Status = domain.StatusCancelled
		b.CancellationReason = &reason
		b.CancelledAt = &now
		b.UpdatedAt = now
	})
}

func (s *Store) MarkRefunded(_ context.Context, id int64, now time.Time) error {
	return s.update(id, nil, func(b *domain.Booking) {
		b.Status = domain.StatusRefunded
		b.UpdatedAt = now
	})
}

func (s *Store) SetExternalEventID(_ context.Context, id int64, eventID *string, now time.Time) error {
	return s.update(id, nil, func(b *domain.Booking) {
		b.ExternalEventID = eventID
		b.UpdatedAt = now
	})
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.Status != domain.StatusPending {
		return bookingRepo.ErrBookingNotFound
	}
	delete(s.bookings, id)
	return nil
}

func (s *Store) update(id int64, allowed []domain.BookingStatus, fn func(b *domain.Booking)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if len(allowed) > 0 {
		match := false
		for _, st := range allowed {
			if b.Status == st {
				match = true
			}
		}
		if !match {
			return bookingRepo.ErrBookingNotFound
		}
	}
	fn(b)
	return nil
}

func (s *Store) find(match func(b *domain.Booking) bool) (*domain.Booking, error) {
	found := s.filter(match)
	if len(found) == 0 {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return found[0], nil
}

func (s *Store) filter(match func(b *domain.Booking) bool) []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if match(b) {
			result = append(result, clone(b))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartsAt.Equal(result[j].StartsAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartsAt.Before(result[j].StartsAt)
	})
	return result
}

func clone(b *domain.Booking) *domain.Booking {
	cp := *b
	cp.Brief.ReferenceImageURLs = append([]string(nil), b.Brief.ReferenceImageURLs...)
	return &cp
}

// TxManager runs functions inline, standing in for txmanager.TransactionManager.
type TxManager struct {
	Calls int
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}
