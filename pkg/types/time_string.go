package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const (
	minutesPerDay = 24 * 60

	// EndOfDay "24:00" допустим только как правая граница окна
	EndOfDay TimeString = "24:00"
)

var (
	// ErrInvalidFormat возвращается, если строка не в формате HH:MM
	ErrInvalidFormat = errors.New("invalid time string format")

	// ErrOutOfRange возвращается, если время выходит за пределы суток
	ErrOutOfRange = errors.New("time string out of range")
)

// TimeString время суток в формате "HH:MM" (настенные часы бизнес-таймзоны)
type TimeString string

// NewTimeStringFromString парсит и валидирует строку "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeString берет часы и минуты из time.Time (в его собственной локации)
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// FromMinutes строит TimeString из минут от полуночи (0..1440)
func FromMinutes(m int) TimeString {
	if m < 0 {
		m = 0
	}
	if m > minutesPerDay {
		m = minutesPerDay
	}
	return TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60))
}

// Validate проверяет формат и диапазон
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// Minutes возвращает количество минут от полуночи
func (t TimeString) Minutes() (int, error) {
	if len(t) != 5 || t[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}
	var h, m int
	if _, err := fmt.Sscanf(string(t), "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, string(t))
	}
	total := h*60 + m
	if total > minutesPerDay {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, string(t))
	}
	return total, nil
}

// MustMinutes как Minutes, но для заведомо валидных значений
func (t TimeString) MustMinutes() int {
	m, err := t.Minutes()
	if err != nil {
		panic(err)
	}
	return m
}

func (t TimeString) String() string {
	return string(t)
}

func (t TimeString) IsZero() bool {
	return t == ""
}

// IsBefore сравнивает два времени суток
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a < b
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
