package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants or
// environments can share one backend.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer falls
// back to the default.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// BoundsKey generates a prefixed bounds table key.
func (k *ScopedKeyer) BoundsKey(datasetHash string, opts BoundsKeyOpts) string {
	return k.prefix + k.inner.BoundsKey(datasetHash, opts)
}

// DatasetKey generates a prefixed dataset key.
func (k *ScopedKeyer) DatasetKey(datasetHash string) string {
	return k.prefix + k.inner.DatasetKey(datasetHash)
}
