// Package availability computes bookable appointment slots from opening
// hours, date overrides and busy intervals. Everything here is pure.
package availability

import "sort"

// Window is a half-open minute range [Start, End) relative to local midnight.
type Window struct {
	Start int
	End   int
}

// Len returns the window length in minutes, zero for empty windows.
func (w Window) Len() int {
	if w.End <= w.Start {
		return 0
	}
	return w.End - w.Start
}

// IsEmpty reports a zero-length or inverted window.
func (w Window) IsEmpty() bool {
	return w.End <= w.Start
}

// Intersect returns the common part of two windows.
func (w Window) Intersect(o Window) (Window, bool) {
	r := Window{Start: max(w.Start, o.Start), End: min(w.End, o.End)}
	if r.IsEmpty() {
		return Window{}, false
	}
	return r, true
}

// Overlaps is true iff a.Start < b.End && b.Start < a.End. Touching windows do not overlap.
func Overlaps(a, b Window) bool {
	return a.Start < b.End && b.Start < a.End
}

// OverlapsAny reports whether w overlaps any window of the set.
func OverlapsAny(w Window, set []Window) bool {
	for _, s := range set {
		if Overlaps(w, s) {
			return true
		}
	}
	return false
}

// Merge sorts windows and folds overlapping or touching ones together.
// Empty windows are dropped. The input slice is not modified.
func Merge(windows []Window) []Window {
	sorted := make([]Window, 0, len(windows))
	for _, w := range windows {
		if !w.IsEmpty() {
			sorted = append(sorted, w)
		}
	}
	if len(sorted) == 0 {
		return []Window{}
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	merged := []Window{sorted[0]}
	for _, w := range sorted[1:] {
		last := &merged[len(merged)-1]
		if w.Start <= last.End {
			if w.End > last.End {
				last.End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// Union merges two window sets.
func Union(a, b []Window) []Window {
	all := make([]Window, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	return Merge(all)
}

// Subtract removes cut from every window, leaving up to two fragments per window.
func Subtract(windows []Window, cut Window) []Window {
	out := make([]Window, 0, len(windows)+1)
	for _, w := range windows {
		if w.IsEmpty() {
			continue
		}
		if cut.IsEmpty() || !Overlaps(w, cut) {
			out = append(out, w)
			continue
		}
		if left := (Window{Start: w.Start, End: cut.Start}); !left.IsEmpty() {
			out = append(out, left)
		}
		if right := (Window{Start: cut.End, End: w.End}); !right.IsEmpty() {
			out = append(out, right)
		}
	}
	return out
}
