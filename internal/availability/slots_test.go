package availability

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

func TestCandidateStarts_BufferRejectsOverlap(t *testing.T) {
	open := []Window{{hm(8, 0), hm(18, 0)}}
	busy := []Window{{hm(8, 50), hm(9, 5)}}
	shape := ServiceShape{DurationMinutes: 60, BufferBeforeMinutes: 15, BufferAfterMinutes: 15}

	starts := CandidateStarts(open, busy, shape, 15)

	assert.NotContains(t, starts, hm(9, 0))
	assert.NotContains(t, starts, hm(9, 15))
	assert.Contains(t, starts, hm(9, 30))
	// first legal start is windowStart + bufferBefore
	assert.NotContains(t, starts, hm(8, 0))
	// 08:15 extent [08:00, 09:30) hits the busy block as well
	assert.NotContains(t, starts, hm(8, 15))
	// last legal start leaves room for duration and the after-buffer
	assert.Equal(t, hm(16, 45), starts[len(starts)-1])
}

func TestCandidateStarts_WindowTooShort(t *testing.T) {
	open := []Window{{hm(9, 0), hm(10, 0)}}
	shape := ServiceShape{DurationMinutes: 60, BufferBeforeMinutes: 10}

	assert.Empty(t, CandidateStarts(open, nil, shape, 15))
}

func TestCandidateStarts_ExactFit(t *testing.T) {
	open := []Window{{hm(9, 0), hm(10, 0)}}
	shape := ServiceShape{DurationMinutes: 60}

	assert.Equal(t, []int{hm(9, 0)}, CandidateStarts(open, nil, shape, 15))
}

func TestCandidateStarts_DegenerateInput(t *testing.T) {
	assert.Empty(t, CandidateStarts(nil, nil, ServiceShape{DurationMinutes: 60}, 15))
	assert.Empty(t, CandidateStarts([]Window{{0, 0}}, nil, ServiceShape{DurationMinutes: 60}, 15))
	assert.Empty(t, CandidateStarts([]Window{{0, 600}}, nil, ServiceShape{DurationMinutes: 0}, 15))
	assert.Empty(t, CandidateStarts([]Window{{0, 600}}, nil, ServiceShape{DurationMinutes: 60}, 0))
}

func TestCandidateStarts_NeverOverlapsBusyAndStaysInsideOpen(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		open := Merge(randomWindows(rng, 4))
		busy := Merge(randomWindows(rng, 6))
		shape := ServiceShape{
			DurationMinutes:     15 + rng.Intn(180),
			BufferBeforeMinutes: rng.Intn(30),
			BufferAfterMinutes:  rng.Intn(30),
		}

		for _, start := range CandidateStarts(open, busy, shape, 15) {
			extent := shape.Extent(start)
			assert.False(t, OverlapsAny(extent, busy), "slot %d overlaps busy", start)

			inside := false
			for _, w := range open {
				if extent.Start >= w.Start && extent.End <= w.End {
					inside = true
					break
				}
			}
			assert.True(t, inside, "slot %d extent %v outside open windows %v", start, extent, open)
		}
	}
}

func TestPlanDay_TuesdayWithConfirmedBooking(t *testing.T) {
	loc := mustLoc(t)
	day := Day{Year: 2026, Month: time.March, Dom: 10, Loc: loc} // Tuesday

	templates := make([]domain.AvailabilityTemplate, 0, 4)
	for _, wd := range []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		templates = append(templates, domain.AvailabilityTemplate{
			ArtistID: 1, Weekday: int(wd), StartMinute: hm(9, 30), EndMinute: hm(17, 30),
		})
	}
	busy := []domain.TimeRange{{Start: day.At(hm(10, 0)), End: day.At(hm(11, 0))}}

	plan := PlanDay(day, templates, nil, domain.StudioDefaultSchedule, busy)
	slots := plan.Slots(ServiceShape{DurationMinutes: 60}, 15)

	require.Len(t, slots, 23)
	assert.Equal(t, day.At(hm(11, 0)), slots[0].Start)
	assert.Equal(t, day.At(hm(12, 0)), slots[0].End)
	assert.Equal(t, day.At(hm(16, 30)), slots[len(slots)-1].Start)
	assert.Equal(t, day.At(hm(17, 30)), slots[len(slots)-1].End)

	excluded := map[int]bool{}
	for m := hm(9, 30); m <= hm(10, 45); m += 15 {
		excluded[m] = true
	}
	for _, s := range slots {
		minute := s.Start.Hour()*60 + s.Start.Minute()
		assert.False(t, excluded[minute], "start %s must be excluded", s.Start.Format(domain.TimeFormat))
	}

	// Monday has no template and no default fallback
	monday := Day{Year: 2026, Month: time.March, Dom: 9, Loc: loc}
	assert.Empty(t, PlanDay(monday, templates, nil, domain.StudioDefaultSchedule, nil).Slots(ServiceShape{DurationMinutes: 60}, 15))
}

func TestDayPlan_FreeWindows(t *testing.T) {
	plan := DayPlan{
		Open: []Window{{hm(9, 0), hm(17, 0)}},
		Busy: []Window{{hm(10, 0), hm(11, 0)}, {hm(16, 30), hm(18, 0)}},
	}
	assert.Equal(t, []Window{{hm(9, 0), hm(10, 0)}, {hm(11, 0), hm(16, 30)}}, plan.FreeWindows())
}

func TestFitsOpenHours(t *testing.T) {
	open := []Window{{hm(10, 0), hm(14, 0)}, {hm(14, 0), hm(18, 0)}}
	shape := ServiceShape{DurationMinutes: 120, BufferBeforeMinutes: 15, BufferAfterMinutes: 15}

	// touching windows merge, so a session may span 14:00
	assert.True(t, FitsOpenHours(open, shape, hm(13, 0)))
	assert.True(t, FitsOpenHours(open, shape, hm(10, 15)))
	assert.False(t, FitsOpenHours(open, shape, hm(10, 0)))
	assert.True(t, FitsOpenHours(open, shape, hm(15, 45)))
	assert.False(t, FitsOpenHours(open, shape, hm(16, 0)))
	assert.False(t, FitsOpenHours(nil, shape, hm(12, 0)))
}
