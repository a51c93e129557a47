package get_available_slots

import (
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

// Состояние внешнего календаря в ответе
const (
	ExternalNotLinked   = "not_linked"
	ExternalApplied     = "applied"
	ExternalUnavailable = "unavailable"
)

// Config параметры генерации слотов
type Config struct {
	Location        *time.Location
	Hold            time.Duration // окно, в течение которого неоплаченная бронь занимает слот
	StepMinutes     int
	MinNotice       time.Duration
	MaxRangeDays    int
	DefaultSchedule domain.DefaultSchedule
}

// Request модель запроса доступности
type Request struct {
	ArtistID  int64
	ServiceID *int64 // nil - все активные услуги мастера
	From      time.Time
	To        time.Time
}

// Response модель ответа с доступными слотами
type Response struct {
	ArtistID int64
	From     time.Time
	To       time.Time

	// Services слоты по slug услуги, упорядоченные по началу
	Services map[string][]domain.Slot

	// Days разбивка по дням для календарной сетки
	Days []Day

	// External состояние наложения внешнего календаря
	External string
}

// Day доступность мастера в один календарный день
type Day struct {
	Date     string             // YYYY-MM-DD в бизнес-таймзоне
	Open     []domain.TimeRange // рабочие окна после применения исключений
	Busy     []domain.TimeRange // занятое время (брони и внешний календарь)
	FreeTime []domain.TimeRange // рабочее время за вычетом занятого
	Free     []domain.Slot      // слоты запрошенной услуги или всех услуг по началу
}
