package ratio

import "github.com/matzehuels/ratiogrid/pkg/geom"

// calculateBounds rebuilds the whole table.
func (m *Manager) calculateBounds() {
	m.resolveRatios()
	m.bounds = make([]geom.Rect, m.maxItems)
	m.rows = m.rows[:0]
	m.repackedFrom = 0
	m.packFrom(0, 0)
	m.finish()
}

// extendBounds keeps every row but the last and repacks from the start of
// the last row.
func (m *Manager) extendBounds() {
	last := m.rows[len(m.rows)-1]
	m.rows = m.rows[:len(m.rows)-1]

	m.resolveRatios()
	bounds := make([]geom.Rect, m.maxItems)
	copy(bounds, m.bounds[:last.start])
	m.bounds = bounds

	m.repackedFrom = last.start
	m.packFrom(last.start, last.top)
	m.finish()
}

func (m *Manager) finish() {
	m.averageItemsPerRow = 0
	if len(m.rows) > 0 {
		m.averageItemsPerRow = m.maxItems / len(m.rows)
	}
	m.valid = true
}

// resolveRatios fills one ratio per item, explicit first, default after.
func (m *Manager) resolveRatios() {
	resolved := make([]float64, m.maxItems)
	n := copy(resolved, m.ratios)
	for i := n; i < len(resolved); i++ {
		resolved[i] = m.defaultRatio
	}
	m.resolved = resolved
}

// naturalSize is the unstretched size of an item at the minimum height.
func (m *Manager) naturalSize(index int) geom.Size {
	h := m.params.MinItemHeight
	return geom.Size{Width: m.resolved[index] * h, Height: h}
}

// packFrom greedily packs items [start, maxItems) into rows beginning at top.
// The first item of a row is always placed, even when it alone is wider than
// the available width.
func (m *Manager) packFrom(start int, top float64) {
	width := m.params.AvailableWidth
	spacing := m.params.ColumnSpacing

	for i := start; i < m.maxItems; {
		first := i
		left := m.naturalSize(i).Width
		i++
		for i < m.maxItems {
			w := m.naturalSize(i).Width
			if left+spacing+w > width {
				break
			}
			left += spacing + w
			i++
		}

		height := m.placeRow(first, i, top)
		m.rows = append(m.rows, row{start: first, count: i - first, top: top, height: height})
		top += height + m.params.RowSpacing
	}
}

// placeRow stretches items [first, end) to the available width and writes
// their rectangles. It returns the row height.
func (m *Manager) placeRow(first, end int, top float64) float64 {
	count := end - first

	var extent float64
	for i := first; i < end; i++ {
		extent += m.naturalSize(i).Width
	}

	available := m.params.AvailableWidth - float64(count-1)*m.params.ColumnSpacing
	empty := available - extent
	if empty < 0 {
		// Only a lone oversized item gets here; it keeps its natural size.
		empty = 0
	}

	left := 0.0
	for i := first; i < end; i++ {
		natural := m.naturalSize(i)
		stretched := natural.WithWidth(natural.Width + empty*natural.Width/extent)
		m.bounds[i] = geom.Rect{Position: geom.Point{X: left, Y: top}, Size: stretched}
		left += stretched.Width + m.params.ColumnSpacing
	}

	return m.bounds[first].Height()
}
