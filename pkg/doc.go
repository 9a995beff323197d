// Package pkg provides the libraries behind ratiogrid, a virtualized grid
// that packs items of known aspect ratio into justified rows.
//
// # Overview
//
// Only the items intersecting the viewport exist as elements at any time.
// Scrolling through a million items keeps a few dozen elements alive; they
// are recycled as the viewport moves and kept consistent while the dataset
// changes underneath them. The pkg directory is organized into three areas:
//
//  1. Layout: [geom], [ratio], [realize] and [grid]
//  2. Data and hosting: [dataset], [io] and [host]
//  3. Infrastructure: [pipeline], [cache], [observability] and [errors]
//
// # Architecture
//
// One layout pass flows through the packages like this:
//
//	viewport + ratios
//	         ↓
//	    [ratio] package (bounds table, visible range)
//	         ↓
//	    [realize] package (slide the realized window, recycle the rest)
//	         ↓
//	    [grid] package (measure and arrange every realized element)
//
// Dataset changes travel the other way: a [dataset.List] emits a
// [realize.Mutation], the grid reconciles its window with it and refuses to
// arrange until the next measure.
//
// # Quick Start
//
// Drive a grid over a list of ratios inside an 800x600 viewport:
//
//	list := dataset.New(dataset.Generate(10_000, 1)...)
//	h, err := host.New(list, grid.Properties{
//	    MinItemHeight: 100,
//	    ColumnSpacing: 10,
//	    RowSpacing:    10,
//	}, 800, 600)
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	h.Pass()
//	h.ScrollBy(2400)
//	h.Pass()
//	for _, t := range h.Visible() {
//	    fmt.Println(t.Label(), t.Rect)
//	}
//
// Compute a bounds table without elements, through the cache:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Ratios: ratios, Top: 2400})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/realize/...   # Specific package
//	go test -run Example ./...  # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/geom
// [ratio]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/ratio
// [realize]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/realize
// [grid]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/grid
// [dataset]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/dataset
// [dataset.List]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/dataset#List
// [realize.Mutation]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/realize#Mutation
// [io]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/io
// [host]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/host
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/ratiogrid/pkg/errors
package pkg
