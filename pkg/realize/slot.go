package realize

// Slot is one window entry: a live element or nothing.
type Slot[E any] struct {
	element E
	live    bool
}

// Live returns a slot holding e.
func Live[E any](e E) Slot[E] {
	return Slot[E]{element: e, live: true}
}

// Vacant returns a slot that has not been materialized.
func Vacant[E any]() Slot[E] {
	return Slot[E]{}
}

// Element returns the held element and whether the slot is live.
func (s Slot[E]) Element() (E, bool) {
	return s.element, s.live
}

// IsLive reports whether the slot holds an element.
func (s Slot[E]) IsLive() bool { return s.live }
