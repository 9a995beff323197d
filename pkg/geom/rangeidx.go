package geom

import "fmt"

// Range is an inclusive [Start, End] span of data indices.
// A range whose End is below its Start is empty.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// EmptyRange is the canonical empty range.
var EmptyRange = Range{Start: 0, End: -1}

// NewRange returns the inclusive range [start, end].
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// Empty reports whether the range holds no index.
func (r Range) Empty() bool { return r.End < r.Start }

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether index lies inside the range.
func (r Range) Contains(index int) bool {
	return !r.Empty() && index >= r.Start && index <= r.End
}

// Intersects reports whether r and o share at least one index.
func (r Range) Intersects(o Range) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Start <= o.End && o.Start <= r.End
}

func (r Range) String() string {
	if r.Empty() {
		return "[]"
	}
	return fmt.Sprintf("[%d,%d]", r.Start, r.End)
}
