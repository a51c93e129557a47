package availability

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []Window
		want []Window
	}{
		{name: "empty", in: nil, want: []Window{}},
		{name: "single", in: []Window{{60, 120}}, want: []Window{{60, 120}}},
		{name: "unsorted overlapping", in: []Window{{100, 200}, {50, 120}}, want: []Window{{50, 200}}},
		{name: "touching merge", in: []Window{{0, 60}, {60, 90}}, want: []Window{{0, 90}}},
		{name: "contained", in: []Window{{0, 300}, {60, 90}}, want: []Window{{0, 300}}},
		{name: "disjoint", in: []Window{{200, 300}, {0, 60}}, want: []Window{{0, 60}, {200, 300}}},
		{name: "zero length dropped", in: []Window{{30, 30}, {100, 120}}, want: []Window{{100, 120}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.in))
		})
	}
}

func TestMerge_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		windows := randomWindows(rng, 8)
		once := Merge(windows)
		assert.Equal(t, once, Merge(once))
	}
}

func TestSubtract(t *testing.T) {
	tests := []struct {
		name string
		in   []Window
		cut  Window
		want []Window
	}{
		{name: "middle splits", in: []Window{{540, 1020}}, cut: Window{720, 780}, want: []Window{{540, 720}, {780, 1020}}},
		{name: "left edge", in: []Window{{540, 1020}}, cut: Window{500, 600}, want: []Window{{600, 1020}}},
		{name: "right edge", in: []Window{{540, 1020}}, cut: Window{1000, 1100}, want: []Window{{540, 1000}}},
		{name: "covers all", in: []Window{{540, 1020}}, cut: Window{0, 1440}, want: []Window{}},
		{name: "touching keeps", in: []Window{{540, 600}}, cut: Window{600, 660}, want: []Window{{540, 600}}},
		{name: "empty cut", in: []Window{{540, 600}}, cut: Window{570, 570}, want: []Window{{540, 600}}},
		{name: "empty set", in: nil, cut: Window{0, 10}, want: []Window{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subtract(tt.in, tt.cut))
		})
	}
}

func TestSubtract_Reconstructs(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		w := randomWindow(rng)
		c := randomWindow(rng)

		parts := Subtract([]Window{w}, c)
		for _, p := range parts {
			assert.LessOrEqual(t, p.Len(), w.Len())
			assert.GreaterOrEqual(t, p.Start, w.Start)
			assert.LessOrEqual(t, p.End, w.End)
			assert.False(t, Overlaps(p, c))
		}

		if inter, ok := w.Intersect(c); ok {
			parts = append(parts, inter)
		}
		if w.IsEmpty() {
			assert.Empty(t, Merge(parts))
			continue
		}
		assert.Equal(t, []Window{w}, Merge(parts))
	}
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(Window{0, 60}, Window{59, 120}))
	assert.False(t, Overlaps(Window{0, 60}, Window{60, 120}))
	assert.False(t, Overlaps(Window{60, 120}, Window{0, 60}))
	assert.True(t, Overlaps(Window{0, 300}, Window{100, 110}))
	assert.False(t, OverlapsAny(Window{0, 60}, nil))
	assert.True(t, OverlapsAny(Window{0, 60}, []Window{{200, 300}, {30, 40}}))
}

func randomWindow(rng *rand.Rand) Window {
	start := rng.Intn(1440)
	return Window{Start: start, End: start + rng.Intn(1440-start+1)}
}

func randomWindows(rng *rand.Rand, n int) []Window {
	count := rng.Intn(n + 1)
	out := make([]Window, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, randomWindow(rng))
	}
	return out
}
