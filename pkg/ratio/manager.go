package ratio

import (
	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/geom"
)

// GrowthPolicy selects how the bounds table is rebuilt when only the item
// count grew.
type GrowthPolicy int

const (
	// GrowFull recomputes the whole table.
	GrowFull GrowthPolicy = iota
	// GrowIncremental keeps all complete rows and repacks from the last row.
	GrowIncremental
)

// String returns the policy name used in configuration files and flags.
func (p GrowthPolicy) String() string {
	switch p {
	case GrowIncremental:
		return "incremental"
	default:
		return "full"
	}
}

// ParseGrowthPolicy maps a configuration name to a policy.
func ParseGrowthPolicy(s string) (GrowthPolicy, error) {
	switch s {
	case "", "full":
		return GrowFull, nil
	case "incremental":
		return GrowIncremental, nil
	}
	return GrowFull, errors.New(errors.ErrCodeInvalidInput, "unknown growth policy %q (must be one of: full, incremental)", s)
}

// Params are the scalar inputs of a layout.
type Params struct {
	MinItemHeight  float64 `json:"min_item_height"`
	ColumnSpacing  float64 `json:"column_spacing"`
	RowSpacing     float64 `json:"row_spacing"`
	AvailableWidth float64 `json:"available_width"`
}

// row records the membership and vertical placement of one packed row.
type row struct {
	start  int
	count  int
	top    float64
	height float64
}

// Manager owns the bounds table of one layout instance.
// It is not safe for concurrent use.
type Manager struct {
	defaultRatio float64
	policy       GrowthPolicy

	params   Params
	ratios   []float64
	maxItems int

	bounds   []geom.Rect
	resolved []float64
	rows     []row
	valid    bool

	averageItemsPerRow int
	repackedFrom       int
}

// Option configures a Manager.
type Option func(*Manager)

// WithGrowthPolicy sets how the table is rebuilt on item count growth.
func WithGrowthPolicy(p GrowthPolicy) Option {
	return func(m *Manager) { m.policy = p }
}

// NewManager creates a manager whose items without an explicit ratio use
// defaultRatio. A non-positive default falls back to 1.
func NewManager(defaultRatio float64, opts ...Option) *Manager {
	if defaultRatio <= 0 {
		defaultRatio = 1
	}
	m := &Manager{defaultRatio: defaultRatio}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultRatio returns the ratio used for items beyond the explicit ratios.
func (m *Manager) DefaultRatio() float64 { return m.defaultRatio }

// Policy returns the growth policy.
func (m *Manager) Policy() GrowthPolicy { return m.policy }

// SetRatios replaces the explicit ratio sequence. The slice is copied.
// The table stays valid when every item it covers keeps its ratio, so that
// appending ratios leaves the count growth in EnsureBounds to the growth
// policy; any other change invalidates it. Non-positive or non-finite
// ratios are rejected and leave the manager unchanged.
func (m *Manager) SetRatios(ratios []float64) error {
	if err := errors.ValidateRatios(ratios); err != nil {
		return err
	}
	m.ratios = append(m.ratios[:0:0], ratios...)
	if !m.coversSameRatios() {
		m.Invalidate()
	}
	return nil
}

// coversSameRatios reports whether the current table was built from the
// same ratios for every item it covers.
func (m *Manager) coversSameRatios() bool {
	if !m.Valid() || len(m.resolved) == 0 {
		return false
	}
	for i, r := range m.resolved {
		if m.ratioAt(i) != r {
			return false
		}
	}
	return true
}

func (m *Manager) ratioAt(i int) float64 {
	if i < len(m.ratios) {
		return m.ratios[i]
	}
	return m.defaultRatio
}

// Ratios returns the explicit ratio sequence.
func (m *Manager) Ratios() []float64 { return m.ratios }

// Invalidate marks the bounds table stale; the next EnsureBounds rebuilds it.
func (m *Manager) Invalidate() {
	m.valid = false
	m.rows = nil
}

// Valid reports whether the bounds table is up to date.
func (m *Manager) Valid() bool { return m.valid && m.bounds != nil }

// EnsureBounds brings the bounds table up to date for the given inputs and
// reports whether it had to be recomputed.
func (m *Manager) EnsureBounds(p Params, itemCount int) bool {
	if p != m.params {
		m.params = p
		m.Invalidate()
	}

	grown := false
	if itemCount > m.maxItems {
		grown = m.valid
		m.maxItems = itemCount
		m.valid = false
	}

	if m.valid && m.bounds != nil {
		return false
	}

	if grown && m.policy == GrowIncremental && len(m.rows) > 0 {
		m.extendBounds()
	} else {
		m.calculateBounds()
	}
	return true
}

// Bounds returns the bounds table indexed by data index. Its length is the
// largest item count seen so far. The slice must not be modified.
func (m *Manager) Bounds() ([]geom.Rect, error) {
	if !m.Valid() {
		return nil, errors.StaleState("bounds")
	}
	return m.bounds, nil
}

// Capacity returns the number of entries in the bounds table.
func (m *Manager) Capacity() int { return m.maxItems }

// RowCount returns the number of rows of the last build.
func (m *Manager) RowCount() int { return len(m.rows) }

// RepackedFrom returns the first item the last build laid out: 0 for a full
// rebuild, the start of the previous last row for an incremental one.
func (m *Manager) RepackedFrom() int { return m.repackedFrom }

// AverageItemsPerRow returns the integer average recorded by the last build.
func (m *Manager) AverageItemsPerRow() int { return m.averageItemsPerRow }

// Extent returns the bottom of the item at itemCount-1, or 0 when there are
// no items or the table is stale.
func (m *Manager) Extent(itemCount int) float64 {
	if !m.Valid() || itemCount <= 0 || itemCount > len(m.bounds) {
		return 0
	}
	return m.bounds[itemCount-1].Bottom()
}
