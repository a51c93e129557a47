package availability

import (
	"github.com/m04kA/TattooBookingService/internal/domain"
)

// DefaultWindows returns the zero-config opening window for the day.
func DefaultWindows(day Day, def domain.DefaultSchedule) []Window {
	if day.IsWeekend() {
		return Merge([]Window{{Start: def.WeekendStartMinute, End: def.WeekendEndMinute}})
	}
	return Merge([]Window{{Start: def.WeekdayStartMinute, End: def.WeekdayEndMinute}})
}

// TemplateWindows unions the templates matching the day's weekday.
// All templates must belong to the same artist.
func TemplateWindows(day Day, templates []domain.AvailabilityTemplate) []Window {
	weekday := int(day.Weekday())
	windows := make([]Window, 0, 2)
	for _, t := range templates {
		if t.Weekday == weekday {
			windows = append(windows, Window{Start: t.StartMinute, End: t.EndMinute})
		}
	}
	return Merge(windows)
}

// ResolveOpenWindows computes the open windows of one artist for one day.
//
// templates are all weekly templates of the artist. When the artist has none
// at all, the default schedule applies; an artist with templates but none for
// this weekday is closed that day.
//
// overrides are applied in a fixed order regardless of storage order:
// any CLOSED override empties the day, then OPEN and EXTEND windows are added,
// then REDUCE windows are subtracted.
func ResolveOpenWindows(
	day Day,
	templates []domain.AvailabilityTemplate,
	overrides []domain.AvailabilityOverride,
	def domain.DefaultSchedule,
) []Window {
	var open []Window
	if len(templates) == 0 {
		open = DefaultWindows(day, def)
	} else {
		open = TemplateWindows(day, templates)
	}

	dayOverrides := make([]domain.AvailabilityOverride, 0, len(overrides))
	for _, o := range overrides {
		if DayOf(o.Date, day.Loc).Equal(day) {
			dayOverrides = append(dayOverrides, o)
		}
	}

	for _, o := range dayOverrides {
		if o.Type == domain.OverrideClosed {
			return []Window{}
		}
	}

	for _, o := range dayOverrides {
		if (o.Type == domain.OverrideOpen || o.Type == domain.OverrideExtend) && o.HasWindow() {
			open = Union(open, []Window{{Start: *o.StartMinute, End: *o.EndMinute}})
		}
	}

	for _, o := range dayOverrides {
		if o.Type == domain.OverrideReduce && o.HasWindow() {
			open = Merge(Subtract(open, Window{Start: *o.StartMinute, End: *o.EndMinute}))
		}
	}

	return open
}
