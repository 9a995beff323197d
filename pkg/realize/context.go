package realize

// RealizationOptions tune how the pool hands out an element.
type RealizationOptions uint8

const (
	// ForceCreate bypasses the pool's own reuse heuristics.
	ForceCreate RealizationOptions = 1 << iota
	// SuppressAutoRecycle tells the pool not to reclaim the element behind
	// the manager's back.
	SuppressAutoRecycle
)

// Has reports whether all flags in o are set.
func (r RealizationOptions) Has(o RealizationOptions) bool { return r&o == o }

// managedOptions are used for every element the manager creates.
const managedOptions = ForceCreate | SuppressAutoRecycle

// Context is the external element pool and item source.
type Context[E any] interface {
	// ItemCount returns the current dataset size.
	ItemCount() int
	// GetOrCreateElementAt returns an element for the data index.
	GetOrCreateElementAt(index int, opts RealizationOptions) E
	// RecycleElement returns an element to the pool.
	RecycleElement(element E)
}
