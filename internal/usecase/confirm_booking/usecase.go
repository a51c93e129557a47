package confirm_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/TattooBookingService/internal/domain"
	bookingRepo "github.com/m04kA/TattooBookingService/internal/infra/storage/booking"
	"github.com/m04kA/TattooBookingService/internal/integrations/googlecalendar"
	"github.com/m04kA/TattooBookingService/internal/integrations/stripe"
)

// UseCase use case подтверждения оплаченной брони
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	payments     PaymentVerifier
	calendar     CalendarClient
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// calendar может быть nil, тогда бронь не отражается во внешнем календаре
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	payments PaymentVerifier,
	calendar CalendarClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		payments:     payments,
		calendar:     calendar,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переводит бронь PENDING -> CONFIRMED после проверки оплаты
// Повторные вызовы для той же сессии сходятся к одному состоянию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" && req.Session != nil {
		sessionID = req.Session.ID
	}
	uc.logger.Info("ConfirmBooking: session=%s, verified=%t", sessionID, req.Session != nil)

	// 1. Валидация входных данных
	if sessionID == "" {
		uc.logger.Warn("ConfirmBooking: empty session id")
		return nil, fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}

	session := req.Session

	// 2. Поиск брони по сессии, затем по booking_id из metadata
	booking, session, err := uc.locate(ctx, sessionID, session)
	if err != nil {
		return nil, err
	}

	// 3. Уже подтверждена: досинхронизировать календарь и вернуть результат
	if booking.IsConfirmed() {
		uc.logger.Info("ConfirmBooking: booking id=%d already confirmed", booking.ID)
		if booking.NeedsCalendarSync() {
			booking.ExternalEventID = uc.syncCalendar(ctx, booking)
		}
		uc.metrics.IncConfirmation(OutcomeAlreadyConfirmed)
		return toResponse(booking, OutcomeAlreadyConfirmed), nil
	}

	if !booking.IsPending() {
		uc.logger.Warn("ConfirmBooking: booking id=%d has status %s", booking.ID, booking.Status)
		uc.metrics.IncConfirmation(outcomeNotPending)
		return nil, ErrNotPending
	}

	// 4. Проверка оплаты у провайдера, если сессия не пришла из вебхука
	if session == nil {
		session, err = uc.verify(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}
	if !session.Paid {
		uc.logger.Warn("ConfirmBooking: session=%s for booking id=%d is not paid", sessionID, booking.ID)
		uc.metrics.IncConfirmation(outcomeNotPaid)
		return nil, ErrPaymentNotCompleted
	}

	// 5. Финальная проверка пересечений и подтверждение в сериализуемой транзакции
	now := uc.timeProvider.Now()
	bookingID := booking.ID
	outcome := OutcomeConfirmed

	// Состояние собирается заново на каждой попытке: транзакция может быть повторена
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		outcome = OutcomeConfirmed

		locked, err := uc.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			uc.logger.Error("ConfirmBooking: failed to lock booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: failed to lock booking: %w", ErrInternal, err)
		}

		switch {
		case locked.IsConfirmed():
			// параллельный вызов успел раньше
			outcome = OutcomeAlreadyConfirmed
			booking = locked
			return nil
		case !locked.IsPending():
			return ErrNotPending
		}

		conflicts, err := uc.bookingRepo.FindConflicts(txCtx, domain.ConflictQuery{
			ArtistID:         locked.ArtistID,
			Range:            locked.Range(),
			ExcludeBookingID: &locked.ID,
		})
		if err != nil {
			uc.logger.Error("ConfirmBooking: failed to find conflicts for booking id=%d: %v", locked.ID, err)
			return fmt.Errorf("%w: failed to find conflicts: %w", ErrInternal, err)
		}

		if len(conflicts) > 0 {
			uc.logger.Warn("ConfirmBooking: booking id=%d conflicts with confirmed booking id=%d, cancelling",
				locked.ID, conflicts[0].ID)
			if err := uc.bookingRepo.Cancel(txCtx, locked.ID, domain.ReasonSlotConflict, now); err != nil {
				uc.logger.Error("ConfirmBooking: failed to cancel booking id=%d: %v", locked.ID, err)
				return fmt.Errorf("%w: failed to cancel booking: %w", ErrInternal, err)
			}
			outcome = outcomeConflict
			booking = locked
			return nil
		}

		if err := uc.bookingRepo.Confirm(txCtx, locked.ID, session.PaymentIntentID, now); err != nil {
			if errors.Is(err, bookingRepo.ErrOverlap) {
				return errConfirmOverlap
			}
			uc.logger.Error("ConfirmBooking: failed to confirm booking id=%d: %v", locked.ID, err)
			return fmt.Errorf("%w: failed to confirm booking: %w", ErrInternal, err)
		}

		locked.Status = domain.StatusConfirmed
		locked.PaymentIntentID = session.PaymentIntentID
		locked.ConfirmedAt = &now
		booking = locked
		return nil
	})

	switch {
	case errors.Is(err, errConfirmOverlap):
		// Транзакция откатилась, отмена выполняется отдельно
		uc.logger.Warn("ConfirmBooking: storage rejected overlap for booking id=%d, cancelling", booking.ID)
		if cancelErr := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			return uc.bookingRepo.Cancel(txCtx, booking.ID, domain.ReasonSlotConflict, now)
		}); cancelErr != nil {
			uc.logger.Error("ConfirmBooking: failed to cancel booking id=%d: %v", booking.ID, cancelErr)
			return nil, fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, cancelErr)
		}
		outcome = outcomeConflict
	case errors.Is(err, ErrNotPending):
		uc.logger.Warn("ConfirmBooking: booking id=%d is no longer pending", booking.ID)
		uc.metrics.IncConfirmation(outcomeNotPending)
		return nil, err
	case err != nil:
		return nil, err
	}

	if outcome == outcomeConflict {
		uc.metrics.IncConfirmation(outcomeConflict)
		return nil, ErrConflict
	}

	// 6. Синхронизация с внешним календарем после коммита, ошибки не влияют на результат
	if booking.NeedsCalendarSync() {
		booking.ExternalEventID = uc.syncCalendar(ctx, booking)
	}

	uc.metrics.IncConfirmation(outcome)
	uc.logger.Info("ConfirmBooking: booking id=%d %s", booking.ID, outcome)

	return toResponse(booking, outcome), nil
}

// locate находит бронь по id сессии, при отсутствии по booking_id из metadata сессии
func (uc *UseCase) locate(ctx context.Context, sessionID string, session *stripe.SessionStatus) (*domain.Booking, *stripe.SessionStatus, error) {
	booking, err := uc.bookingRepo.GetByCheckoutSessionID(ctx, sessionID)
	if err == nil {
		return booking, session, nil
	}
	if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
		uc.logger.Error("ConfirmBooking: failed to get booking by session=%s: %v", sessionID, err)
		return nil, nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// id сессии мог не сохраниться после создания, metadata есть только у провайдера
	if session == nil {
		session, err = uc.verify(ctx, sessionID)
		if err != nil {
			return nil, nil, err
		}
	}
	if session.BookingID <= 0 {
		uc.logger.Warn("ConfirmBooking: no booking for session=%s", sessionID)
		return nil, nil, ErrBookingNotFound
	}

	booking, err = uc.bookingRepo.GetByID(ctx, session.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ConfirmBooking: booking id=%d from session=%s metadata not found", session.BookingID, sessionID)
			return nil, nil, ErrBookingNotFound
		}
		uc.logger.Error("ConfirmBooking: failed to get booking id=%d: %v", session.BookingID, err)
		return nil, nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.CheckoutSessionID != nil && *booking.CheckoutSessionID != sessionID {
		uc.logger.Warn("ConfirmBooking: booking id=%d is linked to another session", booking.ID)
		return nil, nil, ErrBookingNotFound
	}

	return booking, session, nil
}

// verify запрашивает состояние сессии у платежного провайдера
func (uc *UseCase) verify(ctx context.Context, sessionID string) (*stripe.SessionStatus, error) {
	session, err := uc.payments.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, stripe.ErrSessionNotFound) {
			uc.logger.Warn("ConfirmBooking: session=%s unknown to payment provider", sessionID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ConfirmBooking: failed to verify session=%s: %v", sessionID, err)
		uc.metrics.IncExternalFailure("stripe", "get_session")
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}
	return session, nil
}

// syncCalendar создает или обновляет событие во внешнем календаре мастера
// Возвращает id события или текущее значение, если синхронизация не удалась
func (uc *UseCase) syncCalendar(ctx context.Context, booking *domain.Booking) *string {
	if uc.calendar == nil {
		return booking.ExternalEventID
	}

	artist, err := uc.catalogRepo.GetArtist(ctx, booking.ArtistID)
	if err != nil {
		uc.logger.Error("ConfirmBooking: failed to get artist id=%d for calendar sync: %v", booking.ArtistID, err)
		return booking.ExternalEventID
	}

	link := artist.ExternalCalendar()
	if link == nil {
		return booking.ExternalEventID
	}

	eventID, err := uc.calendar.UpsertEvent(ctx, *link, calendarEvent(booking))
	if err != nil {
		uc.logger.Error("ConfirmBooking: calendar sync failed for booking id=%d: %v", booking.ID, err)
		uc.metrics.IncExternalFailure(calendarProvider, "upsert_event")
		return booking.ExternalEventID
	}

	if err := uc.bookingRepo.SetExternalEventID(ctx, booking.ID, &eventID, uc.timeProvider.Now()); err != nil {
		// событие найдется по bookingId при следующей синхронизации
		uc.logger.Error("ConfirmBooking: failed to store event=%s for booking id=%d: %v", eventID, booking.ID, err)
		return booking.ExternalEventID
	}

	uc.logger.Info("ConfirmBooking: booking id=%d mirrored as event=%s", booking.ID, eventID)
	return &eventID
}

func calendarEvent(b *domain.Booking) googlecalendar.Event {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Client: %s <%s>", b.CustomerName, b.CustomerEmail)
	if b.CustomerPhone != nil && *b.CustomerPhone != "" {
		fmt.Fprintf(&sb, ", %s", *b.CustomerPhone)
	}
	if b.Brief.Placement != "" {
		fmt.Fprintf(&sb, "\nPlacement: %s", b.Brief.Placement)
	}
	if b.Brief.Description != "" {
		fmt.Fprintf(&sb, "\n%s", b.Brief.Description)
	}
	for _, ref := range b.Brief.ReferenceImageURLs {
		fmt.Fprintf(&sb, "\n%s", ref)
	}

	return googlecalendar.Event{
		BookingID:   b.ID,
		Summary:     fmt.Sprintf("%s: %s", b.ServiceName, b.CustomerName),
		Description: sb.String(),
		Start:       b.StartsAt,
		End:         b.EndsAt,
	}
}

func toResponse(b *domain.Booking, outcome string) *Response {
	return &Response{
		BookingID:       b.ID,
		Outcome:         outcome,
		Status:          string(b.Status),
		StartsAt:        b.StartsAt,
		EndsAt:          b.EndsAt,
		ExternalEventID: b.ExternalEventID,
	}
}
