package availability

import (
	"github.com/m04kA/TattooBookingService/internal/domain"
)

// ServiceShape is what the generator needs to know about a service.
type ServiceShape struct {
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
}

// ShapeOf extracts the shape of a catalog service.
func ShapeOf(s domain.Service) ServiceShape {
	return ServiceShape{
		DurationMinutes:     s.DurationMinutes,
		BufferBeforeMinutes: s.BufferBeforeMinutes,
		BufferAfterMinutes:  s.BufferAfterMinutes,
	}
}

// Extent is the buffered interval a candidate start occupies.
func (s ServiceShape) Extent(start int) Window {
	return Window{
		Start: start - s.BufferBeforeMinutes,
		End:   start + s.DurationMinutes + s.BufferAfterMinutes,
	}
}

// CandidateStarts enumerates start minutes for one service in one day.
//
// Inside each open window starts run from windowStart+bufferBefore to
// windowEnd-bufferAfter-duration inclusive, every step minutes. A candidate is
// dropped when its buffered extent overlaps any busy window.
func CandidateStarts(open, busy []Window, shape ServiceShape, step int) []int {
	if step <= 0 || shape.DurationMinutes <= 0 {
		return []int{}
	}

	starts := make([]int, 0, 32)
	for _, w := range Merge(open) {
		first := w.Start + shape.BufferBeforeMinutes
		last := w.End - shape.BufferAfterMinutes - shape.DurationMinutes
		if last < first {
			continue
		}
		for start := first; start <= last; start += step {
			if OverlapsAny(shape.Extent(start), busy) {
				continue
			}
			starts = append(starts, start)
		}
	}
	return starts
}

// DayPlan is the resolved open and busy state of one artist for one day.
type DayPlan struct {
	Day  Day
	Open []Window
	Busy []Window
}

// PlanDay resolves opening hours and projects busy intervals onto the day.
func PlanDay(
	day Day,
	templates []domain.AvailabilityTemplate,
	overrides []domain.AvailabilityOverride,
	def domain.DefaultSchedule,
	busy []domain.TimeRange,
) DayPlan {
	return DayPlan{
		Day:  day,
		Open: ResolveOpenWindows(day, templates, overrides, def),
		Busy: day.ProjectAll(busy),
	}
}

// Slots returns the bookable slots of the day for one service, ordered by start.
func (p DayPlan) Slots(shape ServiceShape, step int) []domain.Slot {
	starts := CandidateStarts(p.Open, p.Busy, shape, step)
	slots := make([]domain.Slot, 0, len(starts))
	for _, start := range starts {
		slots = append(slots, domain.Slot{
			Start: p.Day.At(start),
			End:   p.Day.At(start + shape.DurationMinutes),
		})
	}
	return slots
}

// FreeWindows is the open time not covered by busy windows.
func (p DayPlan) FreeWindows() []Window {
	free := Merge(p.Open)
	for _, b := range p.Busy {
		free = Subtract(free, b)
	}
	return Merge(free)
}

// FitsOpenHours reports whether a start minute would be a legal candidate
// ignoring busy time and step alignment: the buffered extent must lie inside
// a single open window.
func FitsOpenHours(open []Window, shape ServiceShape, start int) bool {
	extent := shape.Extent(start)
	for _, w := range Merge(open) {
		if w.Start <= extent.Start && extent.End <= w.End {
			return true
		}
	}
	return false
}
