package confirm_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда бронь для сессии не найдена
	ErrBookingNotFound = errors.New("confirm_booking: booking not found")

	// ErrNotPending возвращается, когда бронь уже отменена или возвращена
	ErrNotPending = errors.New("confirm_booking: booking is not pending")

	// ErrPaymentNotCompleted возвращается, когда сессия не оплачена
	ErrPaymentNotCompleted = errors.New("confirm_booking: payment not completed")

	// ErrPaymentUnavailable возвращается, когда платежный провайдер не ответил
	ErrPaymentUnavailable = errors.New("confirm_booking: payment provider unavailable")

	// ErrConflict возвращается, когда интервал уже занят другой подтвержденной бронью
	ErrConflict = errors.New("confirm_booking: slot taken by another confirmed booking")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_booking: internal error")

	// errConfirmOverlap откатывает транзакцию, когда хранилище отвергло пересечение
	errConfirmOverlap = errors.New("confirm_booking: storage rejected overlap")
)
