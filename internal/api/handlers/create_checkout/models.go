package create_checkout

import (
	"time"

	"github.com/m04kA/TattooBookingService/internal/api/handlers"
	"github.com/m04kA/TattooBookingService/internal/domain"
	createCheckout "github.com/m04kA/TattooBookingService/internal/usecase/create_checkout"
)

// CustomerRequest контактные данные клиента
type CustomerRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// BriefRequest описание будущей татуировки
type BriefRequest struct {
	Placement          string   `json:"placement"`
	Description        string   `json:"description"`
	ReferenceImageURLs []string `json:"referenceImageUrls"`
}

// CreateCheckoutRequest HTTP request model
type CreateCheckoutRequest struct {
	ArtistID  int64           `json:"artistId"`
	ServiceID int64           `json:"serviceId"`
	Start     string          `json:"start"` // RFC3339
	Customer  CustomerRequest `json:"customer"`
	Brief     BriefRequest    `json:"brief"`
}

// CheckoutResponse HTTP response model
type CheckoutResponse struct {
	BookingID     int64     `json:"bookingId"`
	Status        string    `json:"status"`
	CheckoutURL   string    `json:"checkoutUrl"`
	StartsAt      time.Time `json:"startsAt"`
	EndsAt        time.Time `json:"endsAt"`
	AmountMinor   int64     `json:"amountMinor"`
	PriceMinor    int64     `json:"priceMinor"`
	Currency      string    `json:"currency"`
	HoldExpiresAt time.Time `json:"holdExpiresAt"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreateCheckoutRequest) ToUseCaseRequest(loc *time.Location) (*createCheckout.Request, error) {
	start, err := handlers.ParseTime(r.Start, loc, false)
	if err != nil {
		return nil, err
	}

	return &createCheckout.Request{
		ArtistID:  r.ArtistID,
		ServiceID: r.ServiceID,
		Start:     start,
		Customer: createCheckout.Customer{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		Brief: domain.CustomerBrief{
			Placement:          r.Brief.Placement,
			Description:        r.Brief.Description,
			ReferenceImageURLs: r.Brief.ReferenceImageURLs,
		},
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createCheckout.Response, loc *time.Location) *CheckoutResponse {
	return &CheckoutResponse{
		BookingID:     resp.BookingID,
		Status:        resp.Status,
		CheckoutURL:   resp.CheckoutURL,
		StartsAt:      resp.StartsAt.In(loc),
		EndsAt:        resp.EndsAt.In(loc),
		AmountMinor:   resp.AmountMinor,
		PriceMinor:    resp.PriceMinor,
		Currency:      resp.Currency,
		HoldExpiresAt: resp.HoldExpiresAt.In(loc),
	}
}
