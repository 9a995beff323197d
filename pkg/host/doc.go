// Package host is a headless host for a ratio grid: a pool of tiles bound
// to a dataset plus a scrollable viewport.
//
// Pool implements grid.Context[*Tile]. It hands out tiles on request,
// keeps recycled tiles on a free list for reuse, and counts every create,
// reuse and recycle so that callers can check that each tile handed to the
// layout came back exactly once.
//
//	list := dataset.New(dataset.Generate(1000, 7)...)
//	pool := host.NewPool(list, geom.NewRect(0, 0, 800, 600))
//	layout := grid.New[*host.Tile](props)
//	layout.Initialize(pool)
package host
