package host

import (
	"github.com/matzehuels/ratiogrid/pkg/dataset"
	"github.com/matzehuels/ratiogrid/pkg/geom"
	"github.com/matzehuels/ratiogrid/pkg/grid"
	"github.com/matzehuels/ratiogrid/pkg/realize"
)

// Host runs a grid layout over a dataset list inside a viewport of fixed
// width, the way a scrolling view would.
type Host struct {
	List   *dataset.List
	Pool   *Pool
	Layout *grid.Layout[*Tile]

	width       float64
	size        geom.Size
	unsubscribe func()
	pending     error
}

// New attaches a layout to list. The viewport starts at the top.
func New(list *dataset.List, props grid.Properties, width, height float64, opts ...grid.Option) (*Host, error) {
	pool := NewPool(list, geom.NewRect(0, 0, width, height))
	layout := grid.New[*Tile](props, opts...)
	if err := layout.Initialize(pool); err != nil {
		return nil, err
	}
	if err := layout.SetRatios(list.Ratios()); err != nil {
		return nil, err
	}

	h := &Host{List: list, Pool: pool, Layout: layout, width: width}
	h.unsubscribe = list.Subscribe(h.onChange)
	return h, nil
}

func (h *Host) onChange(mu realize.Mutation) {
	err := h.Layout.SetRatios(h.List.Ratios())
	if err == nil {
		err = h.Layout.OnItemsChanged(mu)
	}
	if err != nil && h.pending == nil {
		h.pending = err
	}
}

// Pass runs a measure and an arrange and returns the desired size.
func (h *Host) Pass() (geom.Size, error) {
	if err := h.pending; err != nil {
		h.pending = nil
		return geom.Size{}, err
	}
	size, err := h.Layout.Measure(h.width)
	if err != nil {
		return geom.Size{}, err
	}
	if _, err := h.Layout.Arrange(size); err != nil {
		return geom.Size{}, err
	}
	h.size = size
	h.syncIndices()
	return size, nil
}

// syncIndices points every live tile at the data index its slot now maps
// to; dataset changes shift items without rebinding their tiles.
func (h *Host) syncIndices() {
	elements := h.Layout.Elements()
	for pos, slot := range elements.Window() {
		if t, ok := slot.Element(); ok {
			t.Index = elements.DataIndex(pos)
		}
	}
}

// Extent returns the height of the last pass.
func (h *Host) Extent() float64 { return h.size.Height }

// Width returns the layout width.
func (h *Host) Width() float64 { return h.width }

// Resize changes the layout width and the viewport height.
func (h *Host) Resize(width, height float64) {
	h.width = width
	v := h.Pool.Viewport()
	h.Pool.SetViewport(geom.NewRect(v.Left(), v.Top(), width, height))
}

// ScrollBy moves the viewport within the extent of the last pass.
func (h *Host) ScrollBy(dy float64) { h.Pool.ScrollBy(dy, h.size.Height) }

// ScrollTo moves the viewport top within the extent of the last pass.
func (h *Host) ScrollTo(y float64) { h.Pool.ScrollTo(y, h.size.Height) }

// Visible returns the tiles of the last pass in index order.
func (h *Host) Visible() []*Tile {
	s := h.Layout.State()
	if s == nil {
		return nil
	}
	out := make([]*Tile, 0, s.Realized.Len())
	for i := s.Realized.Start; i <= s.Realized.End; i++ {
		t, err := h.Layout.Elements().RealizedElement(i)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Close detaches from the list, recycles every tile and verifies the pool.
func (h *Host) Close() error {
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
	if err := h.Layout.Uninitialize(); err != nil {
		return err
	}
	return h.Pool.Check(true)
}
