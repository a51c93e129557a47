package models

import (
	"errors"
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

// DefaultCancellationReason причина отмены, если администратор ее не указал
const DefaultCancellationReason = "cancelled_by_studio"

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается, если начало периода не раньше конца
	ErrInvalidPeriod = errors.New("from must be before to")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// ListArtistBookingsRequest запрос на получение бронирований мастера
type ListArtistBookingsRequest struct {
	ArtistID        int64      `json:"artistId"`
	From            *time.Time `json:"from,omitempty"`            // Начало периода (опционально)
	To              *time.Time `json:"to,omitempty"`              // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отмененные и возвращенные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListArtistBookingsRequest) ToDomainFilter() (domain.ArtistBookingsFilter, error) {
	filter := domain.ArtistBookingsFilter{
		ArtistID:        r.ArtistID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, ok := domain.ParseBookingStatus(*r.Status)
		if !ok {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BriefResponse описание будущей татуировки
type BriefResponse struct {
	Placement          string   `json:"placement"`
	Description        string   `json:"description"`
	ReferenceImageURLs []string `json:"referenceImageUrls"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID        int64     `json:"id"`
	ArtistID  int64     `json:"artistId"`
	ServiceID int64     `json:"serviceId"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Status    string    `json:"status"`

	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	CustomerPhone *string       `json:"customerPhone,omitempty"`
	Brief         BriefResponse `json:"brief"`

	// Денормализованные данные
	ServiceName string `json:"serviceName"`
	PriceMinor  int64  `json:"priceMinor"`
	AmountMinor int64  `json:"amountMinor"`
	Currency    string `json:"currency"`

	CheckoutSessionID *string `json:"checkoutSessionId,omitempty"`
	PaymentIntentID   *string `json:"paymentIntentId,omitempty"`
	ExternalEventID   *string `json:"externalEventId,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	refs := b.Brief.ReferenceImageURLs
	if refs == nil {
		refs = []string{}
	}

	return &BookingResponse{
		ID:        b.ID,
		ArtistID:  b.ArtistID,
		ServiceID: b.ServiceID,
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
		Status:    string(b.Status),

		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Brief: BriefResponse{
			Placement:          b.Brief.Placement,
			Description:        b.Brief.Description,
			ReferenceImageURLs: refs,
		},

		ServiceName: b.ServiceName,
		PriceMinor:  b.PriceMinor,
		AmountMinor: b.AmountMinor,
		Currency:    b.Currency,

		CheckoutSessionID: b.CheckoutSessionID,
		PaymentIntentID:   b.PaymentIntentID,
		ExternalEventID:   b.ExternalEventID,

		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		ConfirmedAt:        b.ConfirmedAt,

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		if resp := FromDomainBooking(b); resp != nil {
			result = append(result, *resp)
		}
	}
	return &BookingListResponse{Bookings: result}
}
