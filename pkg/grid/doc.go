// Package grid runs the layout passes of a virtualized ratio grid.
//
// A Layout ties together a ratio.Manager, which owns the bounds table, and a
// realize.Manager, which owns the window of realized elements. Each pass
// has two phases:
//
//   - Measure brings the bounds table up to date for the available width,
//     finds the item range intersecting the context's realization rect,
//     reconciles the element window to that range and sizes every element.
//   - Arrange positions every element of the stored range at its rectangle.
//
// Dataset changes are fed through OnItemsChanged between passes. They keep
// the element window consistent and mark the layout as needing a measure.
//
//	l := grid.New[*host.Tile](grid.Properties{MinItemHeight: 100, ColumnSpacing: 10, RowSpacing: 10})
//	if err := l.Initialize(ctx); err != nil {
//	    return err
//	}
//	size, err := l.Measure(800)
//	...
//	_, err = l.Arrange(size)
package grid
