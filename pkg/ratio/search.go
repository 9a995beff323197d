package ratio

import (
	"sort"

	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/geom"
)

// Range returns the inclusive index range of items among the first
// itemCount whose rectangles intersect the vertical extent of viewport.
//
// A viewport below the last item yields [itemCount-1, itemCount-1] and one
// above the first item yields [0, 0]. A viewport that falls entirely into
// the spacing between two rows yields an empty range, as does itemCount 0.
func (m *Manager) Range(viewport geom.Rect, itemCount int) (geom.Range, error) {
	if !m.Valid() {
		return geom.EmptyRange, errors.StaleState("bounds")
	}
	if itemCount > m.maxItems {
		return geom.EmptyRange, errors.New(errors.ErrCodeStaleState,
			"bounds cover %d items, %d requested", m.maxItems, itemCount)
	}
	if itemCount <= 0 {
		return geom.EmptyRange, nil
	}

	b := m.bounds
	last := itemCount - 1
	top, bottom := viewport.Top(), viewport.Bottom()

	if top > b[last].Bottom() {
		return geom.NewRange(last, last), nil
	}
	if bottom < b[0].Top() {
		return geom.NewRange(0, 0), nil
	}

	anchor := m.anchorIndex(top, itemCount)

	// First index whose bottom reaches the viewport top.
	start := anchor
	if b[start].Bottom() < top {
		for start < last && b[start].Bottom() < top {
			start++
		}
	} else {
		for start > 0 && b[start-1].Bottom() >= top {
			start--
		}
	}

	// Last index whose top is still above the viewport bottom.
	end := anchor
	if b[end].Top() > bottom {
		for end > 0 && b[end].Top() > bottom {
			end--
		}
	} else {
		for end < last && b[end+1].Top() <= bottom {
			end++
		}
	}

	if end < start {
		return geom.EmptyRange, nil
	}
	return geom.NewRange(start, end), nil
}

// anchorIndex estimates the first index of the row at height top from the
// average row geometry, clamped to [0, itemCount-1].
func (m *Manager) anchorIndex(top float64, itemCount int) int {
	perRow := max(m.averageItemsPerRow, 1)
	rows := max(itemCount/perRow, 1)

	averageHeight := m.bounds[itemCount-1].Bottom() / float64(rows)
	if averageHeight <= 0 || top <= 0 {
		return 0
	}

	anchor := int(top/averageHeight) * perRow
	return min(max(anchor, 0), itemCount-1)
}

// Locate returns the same range as Manager.Range for a bounds table that
// was computed elsewhere, such as one loaded from a cache. It binary
// searches instead of scanning from an anchor. bounds must be in index
// order as produced by a Manager.
func Locate(bounds []geom.Rect, viewport geom.Rect, itemCount int) geom.Range {
	n := min(itemCount, len(bounds))
	if n <= 0 {
		return geom.EmptyRange
	}
	last := n - 1
	top, bottom := viewport.Top(), viewport.Bottom()

	if top > bounds[last].Bottom() {
		return geom.NewRange(last, last)
	}
	if bottom < bounds[0].Top() {
		return geom.NewRange(0, 0)
	}

	start := sort.Search(n, func(i int) bool { return bounds[i].Bottom() >= top })
	end := sort.Search(n, func(i int) bool { return bounds[i].Top() > bottom }) - 1
	if end < start {
		return geom.EmptyRange
	}
	return geom.NewRange(start, end)
}
