package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusRefunded  BookingStatus = "refunded"
)

// ParseBookingStatus converts a string to BookingStatus
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusRefunded:
		return st, true
	default:
		return "", false
	}
}

// CustomerBrief is the structured design request attached to a booking
type CustomerBrief struct {
	Placement          string
	Description        string
	ReferenceImageURLs []string
}

// Booking represents an appointment with a tattoo artist
type Booking struct {
	ID        int64
	ArtistID  int64
	ServiceID int64
	StartsAt  time.Time
	EndsAt    time.Time
	Status    BookingStatus

	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	Brief         CustomerBrief

	// Denormalized at checkout time
	ServiceName string
	PriceMinor  int64 // effective price of the service
	AmountMinor int64 // amount charged at checkout (deposit or full price)
	Currency    string

	// Payment processor correlation
	CheckoutSessionID *string
	PaymentIntentID   *string

	// External calendar mirror
	ExternalEventID *string

	CancellationReason *string
	CancelledAt        *time.Time
	ConfirmedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Range returns the core appointment interval
func (b *Booking) Range() TimeRange {
	return TimeRange{Start: b.StartsAt, End: b.EndsAt}
}

// IsPending returns true while awaiting payment
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// IsConfirmed returns true once payment has been verified
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// HoldExpiresAt returns the moment a pending hold stops blocking other checkouts
func (b *Booking) HoldExpiresAt(hold time.Duration) time.Time {
	return b.CreatedAt.Add(hold)
}

// NeedsCalendarSync returns true for a confirmed booking not yet mirrored externally
func (b *Booking) NeedsCalendarSync() bool {
	return b.Status == StatusConfirmed && (b.ExternalEventID == nil || *b.ExternalEventID == "")
}

// ArtistBookingsFilter filter for listing an artist's bookings
type ArtistBookingsFilter struct {
	ArtistID        int64          // required
	From            *time.Time     // bookings ending after From
	To              *time.Time     // bookings starting before To
	Status          *BookingStatus // exact status filter
	IncludeInactive bool           // include cancelled and refunded bookings
}

// ConflictQuery describes an interval to test against blocking bookings
type ConflictQuery struct {
	ArtistID            int64
	Range               TimeRange
	ExcludeBookingID    *int64
	IncludePendingSince *time.Time // pending bookings created at or after this moment also block; nil means confirmed only
}
