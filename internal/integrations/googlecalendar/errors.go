package googlecalendar

import "errors"

var (
	// ErrInvalidCredentials возвращается, когда по учетным данным мастера нельзя создать клиент
	ErrInvalidCredentials = errors.New("googlecalendar: invalid calendar credentials")

	// ErrRequest возвращается при ошибке запроса к Google Calendar API
	ErrRequest = errors.New("googlecalendar: request failed")

	// ErrCalendarUnavailable возвращается, когда free/busy вернул ошибку для календаря
	ErrCalendarUnavailable = errors.New("googlecalendar: calendar unavailable")

	// ErrInvalidResponse возвращается при некорректных данных в ответе
	ErrInvalidResponse = errors.New("googlecalendar: invalid response")
)
