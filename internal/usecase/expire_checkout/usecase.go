package expire_checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/TattooBookingService/internal/domain"
	bookingRepo "github.com/m04kA/TattooBookingService/internal/infra/storage/booking"
)

// UseCase use case освобождения слота по истекшей или неуспешной оплате
type UseCase struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute удаляет неоплаченную бронь или отменяет ее, если попытка оплаты была
// Брони не в статусе PENDING не изменяются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	uc.logger.Info("ExpireCheckout: session=%s, booking=%d, attempted=%t", sessionID, req.BookingID, req.PaymentAttempted)

	// 1. Валидация входных данных
	if sessionID == "" && req.BookingID <= 0 {
		uc.logger.Warn("ExpireCheckout: neither session id nor booking id given")
		return nil, fmt.Errorf("%w: session_id or booking_id is required", ErrInvalidInput)
	}

	resp := &Response{Action: ActionIgnored}

	// 2. Блокировка брони и смена статуса в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := uc.find(txCtx, sessionID, req.BookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return nil
		}
		resp.BookingID = booking.ID

		if !booking.IsPending() {
			uc.logger.Info("ExpireCheckout: booking id=%d has status %s, nothing to do", booking.ID, booking.Status)
			return nil
		}

		if !req.PaymentAttempted {
			if err := uc.bookingRepo.Delete(txCtx, booking.ID); err != nil {
				uc.logger.Error("ExpireCheckout: failed to delete booking id=%d: %v", booking.ID, err)
				return fmt.Errorf("%w: failed to delete booking: %w", ErrInternal, err)
			}
			resp.Action = ActionDeleted
			return nil
		}

		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, req.reason(), uc.timeProvider.Now()); err != nil {
			uc.logger.Error("ExpireCheckout: failed to cancel booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to cancel booking: %w", ErrInternal, err)
		}
		resp.Action = ActionCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ExpireCheckout: booking id=%d %s", resp.BookingID, resp.Action)
	return resp, nil
}

// find ищет бронь по сессии, затем по id; отсутствие брони не ошибка
func (uc *UseCase) find(ctx context.Context, sessionID string, bookingID int64) (*domain.Booking, error) {
	if sessionID != "" {
		booking, err := uc.bookingRepo.GetByCheckoutSessionID(ctx, sessionID)
		if err == nil {
			return booking, nil
		}
		if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Error("ExpireCheckout: failed to get booking by session=%s: %v", sessionID, err)
			return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
	}

	if bookingID > 0 {
		booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
		if err == nil {
			if sessionID != "" && booking.CheckoutSessionID != nil && *booking.CheckoutSessionID != sessionID {
				uc.logger.Warn("ExpireCheckout: booking id=%d is linked to another session", booking.ID)
				return nil, nil
			}
			return booking, nil
		}
		if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Error("ExpireCheckout: failed to get booking id=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
	}

	// бронь уже удалена прошлой доставкой события
	uc.logger.Info("ExpireCheckout: no booking for session=%s, booking=%d", sessionID, bookingID)
	return nil, nil
}
