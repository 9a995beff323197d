package pipeline

import (
	"github.com/matzehuels/ratiogrid/pkg/geom"
	rgio "github.com/matzehuels/ratiogrid/pkg/io"
	"github.com/matzehuels/ratiogrid/pkg/ratio"
)

// ComputeTable lays out the items described by opts. Options must have been
// validated.
func ComputeTable(opts Options) (*rgio.Table, error) {
	m := ratio.NewManager(opts.DefaultRatio, ratio.WithGrowthPolicy(opts.GrowthPolicy()))
	if err := m.SetRatios(opts.Ratios); err != nil {
		return nil, err
	}

	n := opts.ItemCount()
	m.EnsureBounds(opts.Params(), n)
	bounds, err := m.Bounds()
	if err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		opts.Logger.Debug("bounds computed",
			"items", n,
			"rows", m.RowCount(),
			"avg_per_row", m.AverageItemsPerRow())
	}

	return &rgio.Table{
		Width:         opts.Width,
		MinItemHeight: opts.MinItemHeight,
		ColumnSpacing: opts.ColumnSpacing,
		RowSpacing:    opts.RowSpacing,
		Rows:          m.RowCount(),
		Extent:        m.Extent(n),
		Items:         rgio.NewItems(bounds, n),
	}, nil
}

// VisibleRange returns the items of t intersecting viewport.
func VisibleRange(t *rgio.Table, viewport geom.Rect) geom.Range {
	return ratio.Locate(t.Rects(), viewport, len(t.Items))
}
