package geom

import "fmt"

// Point is a position in layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width and height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AspectRatio returns width divided by height.
// A zero height yields zero rather than an infinity.
func (s Size) AspectRatio() float64 {
	if s.Height == 0 {
		return 0
	}
	return s.Width / s.Height
}

// WithWidth returns a size of the given width with the same aspect ratio.
func (s Size) WithWidth(width float64) Size {
	ratio := s.AspectRatio()
	if ratio == 0 {
		return Size{Width: width, Height: s.Height}
	}
	return Size{Width: width, Height: width / ratio}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Position Point `json:"position"`
	Size     Size  `json:"size"`
}

// NewRect builds a rectangle from its origin and extent.
func NewRect(x, y, width, height float64) Rect {
	return Rect{Position: Point{X: x, Y: y}, Size: Size{Width: width, Height: height}}
}

// Left returns the x coordinate of the left edge.
func (r Rect) Left() float64 { return r.Position.X }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Position.X + r.Size.Width }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Position.Y }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Position.Y + r.Size.Height }

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Size.Width }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Size.Height }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return r.Position.X + r.Size.Width/2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return r.Position.Y + r.Size.Height/2 }

// IntersectsVertically reports whether the closed vertical spans of r and o
// overlap. Touching edges count as intersecting.
func (r Rect) IntersectsVertically(o Rect) bool {
	return r.Bottom() >= o.Top() && r.Top() <= o.Bottom()
}

// Translate returns r moved by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	r.Position.X += dx
	r.Position.Y += dy
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.Position.X, r.Position.Y, r.Size.Width, r.Size.Height)
}
