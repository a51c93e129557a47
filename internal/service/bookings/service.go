package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/TattooBookingService/internal/domain"
	bookingRepo "github.com/m04kA/TattooBookingService/internal/infra/storage/booking"
	"github.com/m04kA/TattooBookingService/internal/service/bookings/models"
)

const calendarProvider = "google_calendar"

// Service сервис администрирования бронирований
type Service struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	calendar     CalendarClient
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
// calendar может быть nil, тогда события во внешнем календаре не удаляются
func NewService(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	calendar CalendarClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		calendar:     calendar,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// ListArtistBookings получает бронирования мастера с фильтрацией
// По умолчанию отмененные и возвращенные не включаются
func (s *Service) ListArtistBookings(ctx context.Context, req *models.ListArtistBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("ListArtistBookings: fetching bookings for artist=%d", req.ArtistID)
	if req.From != nil && req.To != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if req.ArtistID <= 0 {
		return nil, fmt.Errorf("%w: artistID must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListArtistBookings: invalid filter for artist=%d: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.ListByArtist(ctx, filter)
	if err != nil {
		s.logger.Error("ListArtistBookings: repository error for artist=%d: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: ListArtistBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListArtistBookings: fetched %d bookings for artist=%d", len(bookings), req.ArtistID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование по решению студии
// Событие во внешнем календаре удаляется после коммита, ошибки удаления не влияют на результат
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = models.DefaultCancellationReason
	}
	if len(reason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: reason too long for booking id=%d", bookingID)
		return nil, fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	var booking *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Cancel: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if !b.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, b.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(txCtx, bookingID, reason, now); err != nil {
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		b.Status = domain.StatusCancelled
		b.CancellationReason = &reason
		b.CancelledAt = &now
		b.UpdatedAt = now
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.removeCalendarEvent(ctx, booking)

	s.logger.Info("Cancel: booking id=%d cancelled, reason=%s", bookingID, reason)
	return models.FromDomainBooking(booking), nil
}

// MarkRefundedByPaymentIntent помечает бронирование возвращенным по id платежа
// Повторная пометка ничего не меняет
func (s *Service) MarkRefundedByPaymentIntent(ctx context.Context, paymentIntentID string) error {
	s.logger.Info("MarkRefunded: payment_intent=%s", paymentIntentID)

	if strings.TrimSpace(paymentIntentID) == "" {
		return fmt.Errorf("%w: payment intent id is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("MarkRefunded: no booking for payment_intent=%s", paymentIntentID)
			return ErrBookingNotFound
		}
		s.logger.Error("MarkRefunded: repository error for payment_intent=%s: %v", paymentIntentID, err)
		return fmt.Errorf("%w: MarkRefunded - repository error: %v", ErrInternal, err)
	}

	if booking.Status == domain.StatusRefunded {
		s.logger.Info("MarkRefunded: booking id=%d already refunded", booking.ID)
		return nil
	}

	if err := s.bookingRepo.MarkRefunded(ctx, booking.ID, s.timeProvider.Now()); err != nil {
		s.logger.Error("MarkRefunded: repository error for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: MarkRefunded - repository error: %v", ErrInternal, err)
	}

	s.removeCalendarEvent(ctx, booking)

	s.logger.Info("MarkRefunded: booking id=%d refunded", booking.ID)
	return nil
}

// removeCalendarEvent удаляет событие брони из внешнего календаря мастера
func (s *Service) removeCalendarEvent(ctx context.Context, booking *domain.Booking) {
	if s.calendar == nil || booking.ExternalEventID == nil || *booking.ExternalEventID == "" {
		return
	}

	artist, err := s.catalogRepo.GetArtist(ctx, booking.ArtistID)
	if err != nil {
		s.logger.Error("removeCalendarEvent: failed to get artist id=%d: %v", booking.ArtistID, err)
		return
	}

	link := artist.ExternalCalendar()
	if link == nil {
		s.logger.Warn("removeCalendarEvent: artist id=%d has no calendar anymore, event=%s left as is",
			booking.ArtistID, *booking.ExternalEventID)
		return
	}

	if err := s.calendar.DeleteEvent(ctx, *link, *booking.ExternalEventID); err != nil {
		s.logger.Error("removeCalendarEvent: failed to delete event=%s for booking id=%d: %v",
			*booking.ExternalEventID, booking.ID, err)
		s.metrics.IncExternalFailure(calendarProvider, "delete_event")
		return
	}

	if err := s.bookingRepo.SetExternalEventID(ctx, booking.ID, nil, s.timeProvider.Now()); err != nil {
		s.logger.Error("removeCalendarEvent: failed to clear event id for booking id=%d: %v", booking.ID, err)
		return
	}
	booking.ExternalEventID = nil
}
