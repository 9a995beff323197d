package grid

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/geom"
	"github.com/matzehuels/ratiogrid/pkg/ratio"
	"github.com/matzehuels/ratiogrid/pkg/realize"
)

type testTile struct {
	index     int
	composite bool
	measured  geom.Size
	arranged  geom.Rect
	measures  int
	arranges  int
}

func (t *testTile) Measure(s geom.Size) { t.measured = s; t.measures++ }
func (t *testTile) Arrange(r geom.Rect) { t.arranged = r; t.arranges++ }
func (t *testTile) Composite() bool     { return t.composite }

type testHost struct {
	count     int
	viewport  geom.Rect
	composite bool
	live      map[*testTile]bool
	created   []int
	recycled  []int
}

func newTestHost(count int, viewport geom.Rect) *testHost {
	return &testHost{count: count, viewport: viewport, live: make(map[*testTile]bool)}
}

func (h *testHost) ItemCount() int             { return h.count }
func (h *testHost) RealizationRect() geom.Rect { return h.viewport }

func (h *testHost) GetOrCreateElementAt(index int, _ realize.RealizationOptions) *testTile {
	t := &testTile{index: index, composite: h.composite}
	h.live[t] = true
	h.created = append(h.created, index)
	return t
}

func (h *testHost) RecycleElement(t *testTile) {
	delete(h.live, t)
	h.recycled = append(h.recycled, t.index)
}

var squareProps = Properties{MinItemHeight: 100, ColumnSpacing: 10, RowSpacing: 10}

func newInitialized(t *testing.T, h *testHost) *Layout[*testTile] {
	t.Helper()
	l := New[*testTile](squareProps)
	if err := l.Initialize(h); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	return l
}

func TestMeasureAndArrange(t *testing.T) {
	h := newTestHost(10, geom.NewRect(0, 130, 350, 100))
	l := newInitialized(t, h)

	size, err := l.Measure(350)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if size.Width != 350 || math.Abs(size.Height-710) > 1e-9 {
		t.Errorf("Measure() = %v, want 350x710", size)
	}
	if got, want := l.State().Realized, geom.NewRange(3, 5); got != want {
		t.Errorf("State().Realized = %v, want %v", got, want)
	}
	if want := []int{3, 4, 5}; !slices.Equal(h.created, want) {
		t.Errorf("created = %v, want %v", h.created, want)
	}
	if l.MeasureInvalid() {
		t.Error("MeasureInvalid() = true after Measure")
	}

	if _, err := l.Arrange(size); err != nil {
		t.Fatalf("Arrange() error: %v", err)
	}
	for pos := 0; pos < 3; pos++ {
		tile, err := l.ElementAt(pos)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(tile.measured.Width-110) > 1e-9 || math.Abs(tile.measured.Height-110) > 1e-9 {
			t.Errorf("tile %d measured %v, want 110x110", tile.index, tile.measured)
		}
		wantLeft := float64(pos) * 120
		if math.Abs(tile.arranged.Top()-120) > 1e-9 || math.Abs(tile.arranged.Left()-wantLeft) > 1e-9 {
			t.Errorf("tile %d arranged at %v, want left %v top 120", tile.index, tile.arranged, wantLeft)
		}
	}
}

func TestMeasureScrollRecycles(t *testing.T) {
	h := newTestHost(10, geom.NewRect(0, 130, 350, 100))
	l := newInitialized(t, h)
	if _, err := l.Measure(350); err != nil {
		t.Fatal(err)
	}

	h.viewport = geom.NewRect(0, 0, 350, 100)
	if _, err := l.Measure(350); err != nil {
		t.Fatal(err)
	}

	s := l.State()
	if s.Realized != geom.NewRange(0, 2) || s.Previous != geom.NewRange(3, 5) {
		t.Errorf("State() = %v prev %v, want [0,2] prev [3,5]", s.Realized, s.Previous)
	}
	if !s.Contains(4, true) || s.Contains(4, false) || !s.Entered(1) {
		t.Error("State().Contains disagrees with the ranges")
	}
	if want := []int{3, 4, 5}; !slices.Equal(h.recycled, want) {
		t.Errorf("recycled = %v, want %v", h.recycled, want)
	}
	if len(h.live) != 3 {
		t.Errorf("%d live tiles, want 3", len(h.live))
	}
}

func TestMeasureZeroItems(t *testing.T) {
	h := newTestHost(0, geom.NewRect(0, 0, 350, 600))
	l := newInitialized(t, h)

	size, err := l.Measure(350)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if size.Height != 0 || !l.State().Realized.Empty() || len(h.created) != 0 {
		t.Errorf("Measure() = %v range %v created %v, want empty", size, l.State().Realized, h.created)
	}
	if _, err := l.Arrange(size); err != nil {
		t.Errorf("Arrange() error: %v", err)
	}
}

func TestMeasureCompositeElement(t *testing.T) {
	h := newTestHost(10, geom.NewRect(0, 0, 350, 100))
	h.composite = true
	l := newInitialized(t, h)

	if _, err := l.Measure(350); !errors.Is(err, errors.ErrCodeInvalidChildQuery) {
		t.Errorf("Measure() error = %v, want INVALID_CHILD_QUERY", err)
	}
}

func TestPassesRequireInitialize(t *testing.T) {
	l := New[*testTile](squareProps)
	if _, err := l.Measure(350); err != ErrNotInitialized {
		t.Errorf("Measure() error = %v, want ErrNotInitialized", err)
	}
	if _, err := l.Arrange(geom.Size{}); err != ErrNotInitialized {
		t.Errorf("Arrange() error = %v, want ErrNotInitialized", err)
	}
	if err := l.Initialize(nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Initialize(nil) error = %v, want INVALID_INPUT", err)
	}
}

func TestMeasureRejectsBadInput(t *testing.T) {
	l := newInitialized(t, newTestHost(3, geom.NewRect(0, 0, 350, 100)))
	if _, err := l.Measure(0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Measure(0) error = %v, want INVALID_INPUT", err)
	}
}

func TestItemsChangedRequiresMeasure(t *testing.T) {
	h := newTestHost(10, geom.NewRect(0, 130, 350, 100))
	l := newInitialized(t, h)
	size, err := l.Measure(350)
	if err != nil {
		t.Fatal(err)
	}

	h.count += 2
	if err := l.OnItemsChanged(realize.Insert{At: 4, Count: 2}); err != nil {
		t.Fatalf("OnItemsChanged() error: %v", err)
	}
	if !l.MeasureInvalid() {
		t.Error("MeasureInvalid() = false after a dataset change")
	}
	if got, want := l.RealizedRange(), geom.NewRange(3, 7); got != want {
		t.Errorf("RealizedRange() = %v, want %v", got, want)
	}
	if _, err := l.Arrange(size); !errors.Is(err, errors.ErrCodeStaleState) {
		t.Errorf("Arrange() before Measure error = %v, want STALE_STATE", err)
	}

	if _, err := l.Measure(350); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Arrange(size); err != nil {
		t.Errorf("Arrange() error: %v", err)
	}
	// Index 3 kept its tile; the inserted 4 and 5 were materialized by the pass.
	for pos := 0; pos < 3; pos++ {
		tile, err := l.ElementAt(pos)
		if err != nil {
			t.Fatal(err)
		}
		if tile.index != 3+pos {
			t.Errorf("position %d holds tile created for %d, want %d", pos, tile.index, 3+pos)
		}
	}
	if want := []int{4, 5}; !slices.Equal(h.recycled, want) {
		t.Errorf("recycled = %v, want %v", h.recycled, want)
	}
}

func TestSetPropertiesInvalidates(t *testing.T) {
	l := newInitialized(t, newTestHost(10, geom.NewRect(0, 0, 350, 100)))
	if _, err := l.Measure(350); err != nil {
		t.Fatal(err)
	}

	l.SetProperties(squareProps)
	if l.MeasureInvalid() {
		t.Error("SetProperties() with equal properties invalidated measure")
	}
	l.SetProperties(Properties{MinItemHeight: 50, ColumnSpacing: 10, RowSpacing: 10})
	if !l.MeasureInvalid() {
		t.Error("SetProperties() with new properties did not invalidate measure")
	}

	if _, err := l.Measure(350); err != nil {
		t.Fatal(err)
	}
	l.SetRatios([]float64{2})
	if !l.MeasureInvalid() {
		t.Error("SetRatios() did not invalidate measure")
	}
	if _, err := l.Bounds(); !errors.Is(err, errors.ErrCodeStaleState) {
		t.Errorf("Bounds() after SetRatios error = %v, want STALE_STATE", err)
	}
}

func TestUninitializeRecyclesAll(t *testing.T) {
	h := newTestHost(50, geom.NewRect(0, 0, 350, 700))
	l := newInitialized(t, h)
	for _, top := range []float64{0, 300, 1200, 80} {
		h.viewport = geom.NewRect(0, top, 350, 700)
		if _, err := l.Measure(350); err != nil {
			t.Fatal(err)
		}
	}

	if err := l.Uninitialize(); err != nil {
		t.Fatalf("Uninitialize() error: %v", err)
	}
	if len(h.live) != 0 {
		t.Errorf("%d tiles live after Uninitialize", len(h.live))
	}
	if len(h.created) != len(h.recycled) {
		t.Errorf("created %d, recycled %d", len(h.created), len(h.recycled))
	}
	if l.State() != nil {
		t.Error("State() != nil after Uninitialize")
	}
}

func TestAppendUsesGrowthPolicy(t *testing.T) {
	ratios := []float64{1, 2, 0.5, 1, 1.5, 1, 0.8}
	grown := append(slices.Clone(ratios), 1.2, 0.7, 2)

	h := newTestHost(len(ratios), geom.NewRect(0, 0, 350, 100))
	l := New[*testTile](squareProps, WithGrowthPolicy(ratio.GrowIncremental))
	if err := l.Initialize(h); err != nil {
		t.Fatal(err)
	}
	if err := l.SetRatios(ratios); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Measure(350); err != nil {
		t.Fatal(err)
	}
	rows := l.ratios.RowCount()
	before, _ := l.Bounds()
	lastRowStart := len(ratios) - 1
	for lastRowStart > 0 && before[lastRowStart-1].Top() == before[len(ratios)-1].Top() {
		lastRowStart--
	}

	h.count = len(grown)
	if err := l.SetRatios(grown); err != nil {
		t.Fatal(err)
	}
	if err := l.OnItemsChanged(realize.Insert{At: len(ratios), Count: len(grown) - len(ratios)}); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Measure(350); err != nil {
		t.Fatal(err)
	}
	if got := l.ratios.RepackedFrom(); got != lastRowStart || got == 0 {
		t.Errorf("RepackedFrom() = %d, want %d (rows before append: %d)", got, lastRowStart, rows)
	}

	full := New[*testTile](squareProps)
	if err := full.Initialize(newTestHost(len(grown), geom.NewRect(0, 0, 350, 100))); err != nil {
		t.Fatal(err)
	}
	full.SetRatios(grown)
	if _, err := full.Measure(350); err != nil {
		t.Fatal(err)
	}
	want, _ := full.Bounds()
	got, _ := l.Bounds()
	if !slices.Equal(got, want) {
		t.Errorf("incremental bounds = %v, want %v", got, want)
	}

	// An insert before the end changes existing items and rebuilds fully.
	h.count++
	if err := l.SetRatios(append([]float64{3}, grown...)); err != nil {
		t.Fatal(err)
	}
	if err := l.OnItemsChanged(realize.Insert{At: 0, Count: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Measure(350); err != nil {
		t.Fatal(err)
	}
	if got := l.ratios.RepackedFrom(); got != 0 {
		t.Errorf("RepackedFrom() after insert at 0 = %d, want 0", got)
	}
}

func TestSetRatiosRejectsInvalid(t *testing.T) {
	l := New[*testTile](squareProps)
	if err := l.SetRatios([]float64{1, -2}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetRatios() error = %v, want INVALID_INPUT", err)
	}
}
