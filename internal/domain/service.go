package domain

import "time"

// Service is a bookable offering independent of artists.
type Service struct {
	ID                  int64
	Slug                string
	Name                string
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	PriceMinor          int64
	DepositMinor        *int64
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OfferedService is a Service as offered by one artist (ServiceOnArtist link applied).
type OfferedService struct {
	Service
	ArtistID           int64
	PriceOverrideMinor *int64
	LinkActive         bool
}

// EffectivePrice is the link override if present, otherwise the base price.
func (s *OfferedService) EffectivePrice() int64 {
	if s.PriceOverrideMinor != nil {
		return *s.PriceOverrideMinor
	}
	return s.PriceMinor
}

// ChargeAmount is what checkout charges now: the deposit when it is set and
// does not exceed the effective price, otherwise the full effective price.
func (s *OfferedService) ChargeAmount() int64 {
	price := s.EffectivePrice()
	if s.DepositMinor != nil && *s.DepositMinor > 0 && *s.DepositMinor <= price {
		return *s.DepositMinor
	}
	return price
}

// IsBookable reports whether both the service and the artist link are active.
func (s *OfferedService) IsBookable() bool {
	return s.Active && s.LinkActive
}
