package create_checkout

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ArtistID <= 0 {
		return fmt.Errorf("%w: artistID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	if err := validateCustomer(req.Customer); err != nil {
		return err
	}

	return validateBrief(req.Brief)
}

// validateCustomer проверяет контактные данные клиента
func validateCustomer(c Customer) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name is too long", ErrInvalidInput)
	}

	addr, err := mail.ParseAddress(c.Email)
	if err != nil || addr.Address != strings.TrimSpace(c.Email) {
		return fmt.Errorf("%w: malformed customer email", ErrInvalidInput)
	}

	return nil
}

// validateBrief проверяет описание будущей татуировки
func validateBrief(b domain.CustomerBrief) error {
	if len(b.Placement) > domain.MaxPlacementLength {
		return fmt.Errorf("%w: placement is too long", ErrInvalidInput)
	}
	if len(b.Description) > domain.MaxBriefDescriptionLength {
		return fmt.Errorf("%w: description is too long", ErrInvalidInput)
	}
	if len(b.ReferenceImageURLs) > domain.MaxReferenceImages {
		return fmt.Errorf("%w: at most %d reference images", ErrInvalidInput, domain.MaxReferenceImages)
	}

	for _, raw := range b.ReferenceImageURLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: reference image url %q must be http(s)", ErrInvalidInput, raw)
		}
	}

	return nil
}

// validateNotice проверяет, что до начала сеанса осталось не меньше minNotice
func validateNotice(start, now time.Time, minNotice time.Duration) error {
	if start.Before(now.Add(minNotice)) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, int(minNotice.Minutes()))
	}
	return nil
}

// providerExpiry срок жизни checkout-сессии: не короче окна удержания и минимума Stripe
func providerExpiry(now time.Time, hold time.Duration) time.Time {
	return now.Add(max(hold, minProviderExpiry))
}
