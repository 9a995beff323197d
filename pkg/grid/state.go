package grid

import "github.com/matzehuels/ratiogrid/pkg/geom"

// State is the per-context result of the last measure pass.
type State struct {
	// Realized is the range measured by the last pass.
	Realized geom.Range
	// Previous is the range of the pass before it.
	Previous geom.Range
	// Bounds is the bounds table the last pass used.
	Bounds []geom.Rect
}

func newState() *State {
	return &State{Realized: geom.EmptyRange, Previous: geom.EmptyRange}
}

// FillPrevious records the current range as the previous one.
func (s *State) FillPrevious() {
	s.Previous = s.Realized
}

// Contains reports whether index lies in the current range, or in the
// previous range when previous is set.
func (s *State) Contains(index int, previous bool) bool {
	if previous {
		return s.Previous.Contains(index)
	}
	return s.Realized.Contains(index)
}

// Entered reports whether index became visible in the last pass.
func (s *State) Entered(index int) bool {
	return s.Realized.Contains(index) && !s.Previous.Contains(index)
}
