package create_checkout

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_checkout: invalid input data")

	// ErrTooLateToBook возвращается, когда начало сеанса нарушает минимальный срок записи
	ErrTooLateToBook = errors.New("create_checkout: too late to book this slot")

	// ErrArtistNotFound возвращается, когда мастер не найден или неактивен
	ErrArtistNotFound = errors.New("create_checkout: artist not found")

	// ErrServiceNotOffered возвращается, когда мастер не оказывает услугу или она неактивна
	ErrServiceNotOffered = errors.New("create_checkout: service not offered by artist")

	// ErrInvalidPrice возвращается, когда цена услуги не положительна
	ErrInvalidPrice = errors.New("create_checkout: invalid service price")

	// ErrOutsideOpeningHours возвращается, когда сеанс с буферами не помещается в рабочее окно
	ErrOutsideOpeningHours = errors.New("create_checkout: requested time is outside opening hours")

	// ErrSlotTaken возвращается, когда интервал занят подтвержденной или свежей неоплаченной бронью
	ErrSlotTaken = errors.New("create_checkout: slot already taken")

	// ErrPaymentUnavailable возвращается, когда платежный провайдер не создал сессию
	ErrPaymentUnavailable = errors.New("create_checkout: payment provider unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_checkout: internal error")
)
