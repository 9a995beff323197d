// Package ratio computes wrapped, ratio-preserving row layouts.
//
// A Manager turns a sequence of aspect ratios into one rectangle per item:
// items are packed greedily left to right at a common minimum height, and
// each finished row is stretched to the available width. Stretching scales
// every item of a row by the same factor, so each rectangle keeps its own
// aspect ratio and all items of a row share a height.
//
// # Bounds Table
//
// The rectangles are cached in a bounds table indexed by data index. The
// table is rebuilt lazily by EnsureBounds whenever one of its inputs changed:
//
//	m := ratio.NewManager(1.0)
//	m.SetRatios(ratios)
//	m.EnsureBounds(ratio.Params{MinItemHeight: 100, ColumnSpacing: 10, RowSpacing: 10, AvailableWidth: 800}, len(ratios))
//	bounds, err := m.Bounds()
//
// Reading the table before EnsureBounds, or after an invalidation, fails
// with a STALE_STATE error.
//
// # Range Queries
//
// Range answers "which items intersect this viewport" by estimating an
// anchor index from the average row geometry recorded during the last
// build, then scanning locally around it. Rows are laid out top to bottom,
// so item tops and bottoms are non-decreasing in index order and the scan
// never needs to visit the whole table.
//
// # Growth
//
// When the item count grows past the largest count seen so far the table is
// rebuilt. GrowFull recomputes everything, GrowIncremental keeps every row
// but the last and packs again from there. Both produce identical tables:
// a row that is followed by another row was closed because the next item
// did not fit, so appending items can only change the last row.
package ratio
