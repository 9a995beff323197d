package host

import (
	"testing"

	"github.com/matzehuels/ratiogrid/pkg/dataset"
	"github.com/matzehuels/ratiogrid/pkg/geom"
	"github.com/matzehuels/ratiogrid/pkg/realize"
)

const managed = realize.ForceCreate | realize.SuppressAutoRecycle

func TestPoolReusesRecycledTiles(t *testing.T) {
	p := NewPool(dataset.New(1, 2, 3), geom.NewRect(0, 0, 100, 100))

	a := p.GetOrCreateElementAt(0, managed)
	if a.Index != 0 || a.Ratio != 1 || !a.Pinned {
		t.Errorf("tile = %+v, want index 0 ratio 1 pinned", a)
	}
	id := a.ID
	a.Measure(geom.Size{Width: 10, Height: 10})
	p.RecycleElement(a)

	b := p.GetOrCreateElementAt(2, managed)
	if b != a || b.ID != id {
		t.Error("recycled tile was not reused")
	}
	if b.Index != 2 || b.Ratio != 3 || b.Measures != 0 || b.Size != (geom.Size{}) {
		t.Errorf("reused tile not rebound: %+v", b)
	}

	s := p.Stats()
	if s.Created != 1 || s.Reused != 1 || s.Recycled != 1 || s.Live != 1 || s.Free != 0 {
		t.Errorf("Stats() = %+v", s)
	}
	if err := p.Check(false); err != nil {
		t.Errorf("Check(false) error: %v", err)
	}
	if err := p.Check(true); err == nil {
		t.Error("Check(true) with a live tile succeeded")
	}
}

func TestPoolWithoutForceCreateReturnsLiveTile(t *testing.T) {
	p := NewPool(dataset.New(1, 2), geom.NewRect(0, 0, 100, 100))
	a := p.GetOrCreateElementAt(1, managed)
	if b := p.GetOrCreateElementAt(1, 0); b != a {
		t.Error("GetOrCreateElementAt without ForceCreate created a second tile")
	}
	if c := p.GetOrCreateElementAt(1, managed); c == a {
		t.Error("GetOrCreateElementAt with ForceCreate returned the live tile")
	}
}

func TestPoolDoubleRecycle(t *testing.T) {
	p := NewPool(dataset.New(1), geom.NewRect(0, 0, 100, 100))
	a := p.GetOrCreateElementAt(0, managed)
	p.RecycleElement(a)
	p.RecycleElement(a)

	if got := p.Stats().Misuse; got != 1 {
		t.Errorf("Stats().Misuse = %d, want 1", got)
	}
	if err := p.Check(true); err == nil {
		t.Error("Check() after a double recycle succeeded")
	}
}

func TestPoolScroll(t *testing.T) {
	p := NewPool(dataset.New(), geom.NewRect(0, 0, 100, 200))
	tests := []struct {
		to, extent, want float64
	}{
		{50, 1000, 50},
		{-10, 1000, 0},
		{900, 1000, 800},
		{50, 100, 0},
	}
	for _, tt := range tests {
		p.ScrollTo(tt.to, tt.extent)
		if got := p.Viewport().Top(); got != tt.want {
			t.Errorf("ScrollTo(%v, %v) top = %v, want %v", tt.to, tt.extent, got, tt.want)
		}
	}

	p.ScrollTo(100, 1000)
	p.ScrollBy(-30, 1000)
	if got := p.Viewport(); got != geom.NewRect(0, 70, 100, 200) {
		t.Errorf("ScrollBy(-30) viewport = %v, want (0,70 100x200)", got)
	}
}
