package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidWeekday      = errors.New("weekday must be within 0..6")
	ErrInvalidWindow       = errors.New("window must satisfy 0 <= start < end <= 1440")
	ErrInvalidOverrideType = errors.New("unknown override type")
	ErrOverrideNeedsWindow = errors.New("override type requires a window")
	ErrClosedWithWindow    = errors.New("closed override must not carry a window")
)

// AvailabilityTemplate is a recurring weekly opening window.
// Weekday follows time.Weekday: 0 is Sunday.
type AvailabilityTemplate struct {
	ID          int64
	ArtistID    int64
	Weekday     int
	StartMinute int
	EndMinute   int
}

// Validate checks weekday and window bounds.
func (t *AvailabilityTemplate) Validate() error {
	if t.Weekday < 0 || t.Weekday > 6 {
		return ErrInvalidWeekday
	}
	return ValidateWindow(t.StartMinute, t.EndMinute)
}

// OverrideType is the kind of date-specific schedule override.
type OverrideType string

const (
	OverrideClosed OverrideType = "closed"
	OverrideOpen   OverrideType = "open"
	OverrideExtend OverrideType = "extend"
	OverrideReduce OverrideType = "reduce"
)

// ParseOverrideType converts a string to OverrideType.
func ParseOverrideType(s string) (OverrideType, error) {
	switch t := OverrideType(s); t {
	case OverrideClosed, OverrideOpen, OverrideExtend, OverrideReduce:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOverrideType, s)
	}
}

// AvailabilityOverride is a one-off rule for a calendar date in the business timezone.
type AvailabilityOverride struct {
	ID          int64
	ArtistID    int64
	Date        time.Time // midnight of the date, business timezone
	Type        OverrideType
	StartMinute *int
	EndMinute   *int
	Note        *string
	CreatedAt   time.Time
}

// HasWindow reports whether both window bounds are set.
func (o *AvailabilityOverride) HasWindow() bool {
	return o.StartMinute != nil && o.EndMinute != nil
}

// Validate checks that the window matches the override type.
func (o *AvailabilityOverride) Validate() error {
	if _, err := ParseOverrideType(string(o.Type)); err != nil {
		return err
	}
	if o.Type == OverrideClosed {
		if o.StartMinute != nil || o.EndMinute != nil {
			return ErrClosedWithWindow
		}
		return nil
	}
	if !o.HasWindow() {
		return fmt.Errorf("%w: %s", ErrOverrideNeedsWindow, o.Type)
	}
	return ValidateWindow(*o.StartMinute, *o.EndMinute)
}

// ValidateWindow checks a minute-of-day window.
func ValidateWindow(start, end int) error {
	if start < 0 || end > MinutesPerDay || start >= end {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidWindow, start, end)
	}
	return nil
}

// DefaultSchedule is the zero-config opening policy used when an artist has no templates.
type DefaultSchedule struct {
	WeekdayStartMinute int
	WeekdayEndMinute   int
	WeekendStartMinute int
	WeekendEndMinute   int
}

// StudioDefaultSchedule is used when nothing else is configured.
var StudioDefaultSchedule = DefaultSchedule{
	WeekdayStartMinute: 10 * 60,
	WeekdayEndMinute:   20 * 60,
	WeekendStartMinute: 12 * 60,
	WeekendEndMinute:   18 * 60,
}
