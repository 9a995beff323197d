package pipeline

import (
	"context"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/ratiogrid/pkg/cache"
	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/geom"
	rgio "github.com/matzehuels/ratiogrid/pkg/io"
)

func TestSetLayoutDefaults(t *testing.T) {
	var o Options
	o.SetLayoutDefaults()

	if o.MinItemHeight != DefaultMinItemHeight || o.ColumnSpacing != DefaultColumnSpacing || o.RowSpacing != DefaultRowSpacing {
		t.Errorf("layout defaults = %v/%v/%v", o.MinItemHeight, o.ColumnSpacing, o.RowSpacing)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight || o.DefaultRatio != DefaultRatio || o.Growth != DefaultGrowth {
		t.Errorf("defaults = %+v", o)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}

	zero := Options{}
	zero.SetSpacing(0, 0)
	zero.SetLayoutDefaults()
	if zero.ColumnSpacing != 0 || zero.RowSpacing != 0 {
		t.Errorf("explicit zero spacing replaced by %v/%v", zero.ColumnSpacing, zero.RowSpacing)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"ratios", Options{Ratios: []float64{1, 2}}, false},
		{"bad ratio", Options{Ratios: []float64{1, 0}}, true},
		{"negative width", Options{Width: -1}, true},
		{"negative height", Options{Height: -5}, true},
		{"bad default ratio", Options{DefaultRatio: -1}, true},
		{"negative count", Options{Count: -1}, true},
		{"too many", Options{Count: MaxItems + 1}, true},
		{"growth", Options{Growth: "incremental"}, false},
		{"bad growth", Options{Growth: "sometimes"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestItemCount(t *testing.T) {
	o := Options{Ratios: []float64{1, 2, 3}, Count: 10}
	if got := o.ItemCount(); got != 10 {
		t.Errorf("ItemCount() = %d, want 10", got)
	}
	o.Count = 1
	if got := o.ItemCount(); got != 3 {
		t.Errorf("ItemCount() = %d, want 3", got)
	}
}

func TestComputeTable(t *testing.T) {
	opts := Options{Count: 10, Width: 350}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	table, err := ComputeTable(opts)
	if err != nil {
		t.Fatalf("ComputeTable() error: %v", err)
	}
	if len(table.Items) != 10 || table.Rows != 4 {
		t.Errorf("table has %d items in %d rows, want 10 in 4", len(table.Items), table.Rows)
	}
	if math.Abs(table.Extent-710) > 1e-9 {
		t.Errorf("Extent = %v, want 710", table.Extent)
	}
	if got := VisibleRange(table, geom.NewRect(0, 130, 350, 100)); got != geom.NewRange(3, 5) {
		t.Errorf("VisibleRange() = %v, want [3,5]", got)
	}
	if got := VisibleRange(table, geom.NewRect(0, 5000, 350, 100)); got != geom.NewRange(9, 9) {
		t.Errorf("VisibleRange(below) = %v, want [9,9]", got)
	}
}

func TestRunnerCachesBounds(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{Ratios: []float64{1.5, 0.5, 1, 2}, Width: 400, Top: 0, Height: 200}
	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.BoundsHit {
		t.Error("first Execute() should miss the cache")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.BoundsHit {
		t.Error("second Execute() should hit the cache")
	}
	if second.Range != first.Range || len(second.Table.Items) != len(first.Table.Items) {
		t.Errorf("cached result %v differs from computed %v", second.Range, first.Range)
	}
	for i := range first.Table.Items {
		if first.Table.Items[i] != second.Table.Items[i] {
			t.Errorf("item %d = %+v, want %+v", i, second.Table.Items[i], first.Table.Items[i])
		}
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.BoundsHit {
		t.Error("Execute() with Refresh should not hit the cache")
	}

	opts.Refresh = false
	opts.Width = 500
	fourth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.BoundsHit {
		t.Error("Execute() with a new width should miss the cache")
	}
}

func TestRunnerExecuteInvalid(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Ratios: []float64{-1}})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute() error = %v, want INVALID_INPUT", err)
	}
}

func TestRunnerDatasets(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)

	hash, err := r.StoreDataset(ctx, &rgio.Dataset{Ratios: []float64{1, 2}})
	if err != nil {
		t.Fatalf("StoreDataset() error: %v", err)
	}
	ds, err := r.LoadDataset(ctx, hash)
	if err != nil {
		t.Fatalf("LoadDataset() error: %v", err)
	}
	if len(ds.Ratios) != 2 || ds.Ratios[1] != 2 {
		t.Errorf("LoadDataset() = %+v", ds)
	}

	if _, err := r.LoadDataset(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("LoadDataset(missing) error = %v, want NOT_FOUND", err)
	}
	if _, err := r.StoreDataset(ctx, &rgio.Dataset{Ratios: []float64{0}}); err == nil {
		t.Error("StoreDataset() accepted a zero ratio")
	}
}

const testScript = `
[layout]
width = 350.0
height = 100.0
column_spacing = 10.0
row_spacing = 10.0

[dataset]
ratios = [1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0]

[[step]]
op = "scroll"
y = 130.0

[[step]]
op = "insert"
at = 3
ratios = [1.0, 1.0]

[[step]]
op = "remove"
at = 0
count = 3

[[step]]
op = "move"
from = 0
to = 4

[[step]]
op = "replace"
at = 1
ratios = [2.0]

[[step]]
op = "resize"
width = 700.0
height = 300.0

[[step]]
op = "scroll"
by = 10000.0

[[step]]
op = "reset"
ratios = [1.0, 1.0]
`

func TestReplay(t *testing.T) {
	s, err := ReadScript(strings.NewReader(testScript))
	if err != nil {
		t.Fatalf("ReadScript() error: %v", err)
	}
	r := NewRunner(nil, nil, nil)

	frames, err := r.Replay(context.Background(), s)
	if err != nil {
		t.Fatalf("Replay() error: %v", err)
	}
	if len(frames) != len(s.Steps)+1 {
		t.Fatalf("got %d frames, want %d", len(frames), len(s.Steps)+1)
	}

	if got := frames[0].Range; got != geom.NewRange(0, 2) {
		t.Errorf("initial range = %v, want [0,2]", got)
	}
	if got := frames[1].Range; got != geom.NewRange(3, 5) {
		t.Errorf("range after scroll = %v, want [3,5]", got)
	}
	if got := frames[2].Items; got != 12 {
		t.Errorf("items after insert = %d, want 12", got)
	}
	if got := frames[3].Items; got != 9 {
		t.Errorf("items after remove = %d, want 9", got)
	}

	last := frames[len(frames)-1]
	if last.Items != 2 {
		t.Errorf("items after reset = %d, want 2", last.Items)
	}
	for i, f := range frames {
		if f.Pool.Misuse != 0 {
			t.Errorf("frame %d (%s): pool misuse %d", i, f.Step, f.Pool.Misuse)
		}
		if f.Pool.Handed() != f.Pool.Recycled+f.Pool.Live {
			t.Errorf("frame %d (%s): pool %+v does not balance", i, f.Step, f.Pool)
		}
	}
}

func TestReadScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		code   errors.Code
	}{
		{"syntax", "[layout\n", errors.ErrCodeInvalidFormat},
		{"unknown key", "[layout]\nwidht = 3\n", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadScript(strings.NewReader(tt.script)); !errors.Is(err, tt.code) {
				t.Errorf("ReadScript() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReplayBadStep(t *testing.T) {
	s, err := ReadScript(strings.NewReader(`
[dataset]
generate = 20
seed = 1

[[step]]
op = "remove"
at = 15
count = 10
`))
	if err != nil {
		t.Fatal(err)
	}
	frames, err := NewRunner(nil, nil, nil).Replay(context.Background(), s)
	if !errors.Is(err, errors.ErrCodeIndexOutOfRange) {
		t.Errorf("Replay() error = %v, want INDEX_OUT_OF_RANGE", err)
	}
	if len(frames) != 1 {
		t.Errorf("got %d frames before the failure, want 1", len(frames))
	}
}

func TestReplayCountPadsDataset(t *testing.T) {
	s, err := ReadScript(strings.NewReader(`
[layout]
width = 350.0
height = 100.0
count = 10
default_ratio = 1.0

[dataset]
ratios = [1.0, 1.0]

[[step]]
op = "remove"
at = 8
count = 2
`))
	if err != nil {
		t.Fatalf("ReadScript() error: %v", err)
	}
	if s.Layout.Count != 10 {
		t.Fatalf("Layout.Count = %d, want 10", s.Layout.Count)
	}

	frames, err := NewRunner(nil, nil, nil).Replay(context.Background(), s)
	if err != nil {
		t.Fatalf("Replay() error: %v", err)
	}
	if got := frames[0].Items; got != 10 {
		t.Errorf("initial items = %d, want 10", got)
	}
	if got := frames[0].Extent; math.Abs(got-710) > 1e-9 {
		t.Errorf("initial extent = %v, want 710", got)
	}
	if got := frames[1].Items; got != 8 {
		t.Errorf("items after remove = %d, want 8", got)
	}
}

func TestItemRatios(t *testing.T) {
	opts := Options{Ratios: []float64{2, 0.5}, Count: 4, DefaultRatio: 1.5}
	if got, want := opts.ItemRatios(), []float64{2, 0.5, 1.5, 1.5}; !slices.Equal(got, want) {
		t.Errorf("ItemRatios() = %v, want %v", got, want)
	}
	opts.Count = 1
	if got := opts.ItemRatios(); !slices.Equal(got, opts.Ratios) {
		t.Errorf("ItemRatios() with Count below len = %v, want %v", got, opts.Ratios)
	}
}
