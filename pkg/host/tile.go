package host

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/ratiogrid/pkg/geom"
)

// Tile is one visual element of the grid.
type Tile struct {
	// ID identifies the tile across reuse.
	ID uuid.UUID
	// Index is the data index the tile currently shows.
	Index int
	// Ratio is the aspect ratio of the item shown.
	Ratio float64

	Size geom.Size
	Rect geom.Rect

	// Measures and Arranges count layout calls since the tile was bound.
	Measures int
	Arranges int

	// Pinned is set when the layout owns the tile's lifetime.
	Pinned bool
}

// Measure implements grid.Element.
func (t *Tile) Measure(size geom.Size) {
	t.Size = size
	t.Measures++
}

// Arrange implements grid.Element.
func (t *Tile) Arrange(rect geom.Rect) {
	t.Rect = rect
	t.Arranges++
}

// Label returns a short description for display.
func (t *Tile) Label() string {
	return fmt.Sprintf("#%d %.2f", t.Index, t.Ratio)
}

func (t *Tile) String() string {
	return fmt.Sprintf("tile %s index %d at %v", t.ID.String()[:8], t.Index, t.Rect)
}

func (t *Tile) bind(index int, ratio float64, pinned bool) {
	t.Index = index
	t.Ratio = ratio
	t.Size = geom.Size{}
	t.Rect = geom.Rect{}
	t.Measures = 0
	t.Arranges = 0
	t.Pinned = pinned
}
