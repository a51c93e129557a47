package get_available_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrRangeTooLarge возвращается, когда диапазон превышает max_range_days
	ErrRangeTooLarge = errors.New("get_available_slots: requested range is too large")

	// ErrArtistNotFound возвращается, когда мастер не найден или неактивен
	ErrArtistNotFound = errors.New("get_available_slots: artist not found")

	// ErrServiceNotOffered возвращается, когда мастер не оказывает услугу или она неактивна
	ErrServiceNotOffered = errors.New("get_available_slots: service not offered by artist")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
