package availability

import (
	"math"
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

// Day is a calendar date in the business timezone.
type Day struct {
	Year  int
	Month time.Month
	Dom   int
	Loc   *time.Location
}

// DayOf returns the calendar date of t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Dom: d, Loc: loc}
}

// ParseDay parses YYYY-MM-DD in loc.
func ParseDay(s string, loc *time.Location) (Day, error) {
	t, err := time.ParseInLocation(domain.DateFormat, s, loc)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t, loc), nil
}

// Midnight is the start of the day.
func (d Day) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Dom, 0, 0, 0, 0, d.Loc)
}

// At converts a minute-of-day to an absolute time using wall-clock arithmetic,
// so a 09:00 window stays 09:00 across daylight-saving changes.
func (d Day) At(minute int) time.Time {
	return time.Date(d.Year, d.Month, d.Dom, 0, minute, 0, 0, d.Loc)
}

// Next returns the following calendar date.
func (d Day) Next() Day {
	return DayOf(time.Date(d.Year, d.Month, d.Dom+1, 12, 0, 0, 0, d.Loc), d.Loc)
}

// Weekday of the date, 0 is Sunday.
func (d Day) Weekday() time.Weekday {
	return d.Midnight().Weekday()
}

// IsWeekend reports Saturday or Sunday.
func (d Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// String formats the date as YYYY-MM-DD.
func (d Day) String() string {
	return d.Midnight().Format(domain.DateFormat)
}

// Equal compares dates ignoring location pointer identity.
func (d Day) Equal(o Day) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Dom == o.Dom
}

// Days lists every calendar date in loc touching [from, to).
func Days(from, to time.Time, loc *time.Location) []Day {
	if !from.Before(to) {
		return []Day{}
	}
	last := DayOf(to.Add(-time.Nanosecond), loc)
	days := make([]Day, 0, 8)
	for d := DayOf(from, loc); ; d = d.Next() {
		days = append(days, d)
		if d.Equal(last) {
			break
		}
	}
	return days
}

// Project clamps an absolute interval onto this day as a minute window.
// The start is floored and the end is ceiled to whole minutes.
func (d Day) Project(r domain.TimeRange) (Window, bool) {
	dayStart := d.Midnight()
	dayEnd := d.Next().Midnight()
	if !r.Start.Before(dayEnd) || !r.End.After(dayStart) {
		return Window{}, false
	}

	start := 0
	if r.Start.After(dayStart) {
		start = wallMinute(r.Start.In(d.Loc), false)
	}
	end := domain.MinutesPerDay
	if r.End.Before(dayEnd) {
		end = wallMinute(r.End.In(d.Loc), true)
	}

	w := Window{Start: start, End: min(end, domain.MinutesPerDay)}
	if w.IsEmpty() {
		return Window{}, false
	}
	return w, true
}

// ProjectAll projects and merges a set of absolute intervals onto the day.
func (d Day) ProjectAll(ranges []domain.TimeRange) []Window {
	windows := make([]Window, 0, len(ranges))
	for _, r := range ranges {
		if w, ok := d.Project(r); ok {
			windows = append(windows, w)
		}
	}
	return Merge(windows)
}

func wallMinute(t time.Time, ceil bool) int {
	m := t.Hour()*60 + t.Minute()
	if ceil {
		frac := float64(t.Second()) + float64(t.Nanosecond())/1e9
		m += int(math.Ceil(frac / 60))
	}
	return m
}

// Absolute converts a minute window of this day to an absolute interval.
func (d Day) Absolute(w Window) domain.TimeRange {
	return domain.TimeRange{Start: d.At(w.Start), End: d.At(w.End)}
}

// MinuteOf returns the wall-clock minute of t on this day, or false when t
// falls on another date or off a whole minute.
func (d Day) MinuteOf(t time.Time) (int, bool) {
	local := t.In(d.Loc)
	if !DayOf(local, d.Loc).Equal(d) || local.Second() != 0 || local.Nanosecond() != 0 {
		return 0, false
	}
	return local.Hour()*60 + local.Minute(), true
}
