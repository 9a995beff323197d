// Package pipeline computes ratio grid layouts for the CLI and the HTTP API.
//
// It centralizes option defaults and validation, bounds table computation
// with caching, visible range lookup, and replay of mutation scripts, so
// that every entry point behaves the same.
//
// # Usage
//
// Compute a bounds table and the range visible in a viewport:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Ratios: ratios,
//	    Width:  1280,
//	    Height: 720,
//	    Top:    2400,
//	})
//	fmt.Println(result.Range, result.Table.Extent)
//
// Replay a script of scroll and dataset changes against a live grid:
//
//	script, err := pipeline.LoadScript("session.toml")
//	frames, err := runner.Replay(ctx, script)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ratiogrid/pkg/cache"
	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/geom"
	"github.com/matzehuels/ratiogrid/pkg/grid"
	rgio "github.com/matzehuels/ratiogrid/pkg/io"
	"github.com/matzehuels/ratiogrid/pkg/ratio"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMinItemHeight is the height every item has before row stretching.
	DefaultMinItemHeight = 100.0

	// DefaultColumnSpacing is the horizontal gap between items of a row.
	DefaultColumnSpacing = 10.0

	// DefaultRowSpacing is the vertical gap between rows.
	DefaultRowSpacing = 10.0

	// DefaultWidth is the default layout width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultRatio is the aspect ratio of items without an explicit one.
	DefaultRatio = 1.0

	// DefaultGrowth is the default bounds growth policy.
	DefaultGrowth = "full"

	// MaxItems bounds the dataset size accepted by the pipeline.
	MaxItems = 1_000_000
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a layout run.
// This struct supports JSON serialization for API requests and TOML for
// config files and scripts.
type Options struct {
	// Dataset
	Ratios []float64 `json:"ratios" toml:"-"`
	// Count extends the dataset with default-ratio items up to Count items.
	Count        int     `json:"count,omitempty" toml:"count"`
	DefaultRatio float64 `json:"default_ratio,omitempty" toml:"default_ratio"`

	// Layout options
	MinItemHeight float64 `json:"min_item_height,omitempty" toml:"min_item_height"`
	ColumnSpacing float64 `json:"column_spacing,omitempty" toml:"column_spacing"`
	RowSpacing    float64 `json:"row_spacing,omitempty" toml:"row_spacing"`
	Width         float64 `json:"width,omitempty" toml:"width"`
	Growth        string  `json:"growth,omitempty" toml:"growth"`

	// Viewport options
	Top    float64 `json:"top,omitempty" toml:"top"`
	Height float64 `json:"height,omitempty" toml:"height"`

	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// spacingSet records that spacings were given explicitly, so a zero
	// spacing is not replaced by the default.
	spacingSet bool
	validated  bool
}

// Result contains the outputs of a layout run.
type Result struct {
	// Table is the bounds table of every item.
	Table *rgio.Table `json:"table"`

	// Range is the index range visible in the viewport.
	Range geom.Range `json:"range"`

	// DatasetHash identifies the ratio sequence.
	DatasetHash string `json:"dataset_hash"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache"`
}

// Stats contains run statistics.
type Stats struct {
	Items      int           `json:"items"`
	Rows       int           `json:"rows"`
	LayoutTime time.Duration `json:"layout_time"`
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	BoundsHit bool `json:"bounds_hit"`
}

// =============================================================================
// Options Methods
// =============================================================================

// SetSpacing sets both spacings explicitly; zero is then kept as zero.
func (o *Options) SetSpacing(column, row float64) {
	o.ColumnSpacing = column
	o.RowSpacing = row
	o.spacingSet = true
}

// SetLayoutDefaults fills unset layout fields with their defaults.
func (o *Options) SetLayoutDefaults() {
	if o.MinItemHeight == 0 {
		o.MinItemHeight = DefaultMinItemHeight
	}
	if !o.spacingSet && o.ColumnSpacing == 0 && o.RowSpacing == 0 {
		o.ColumnSpacing = DefaultColumnSpacing
		o.RowSpacing = DefaultRowSpacing
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.DefaultRatio == 0 {
		o.DefaultRatio = DefaultRatio
	}
	if o.Growth == "" {
		o.Growth = DefaultGrowth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every field.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()

	if err := errors.ValidateLayoutInput(o.MinItemHeight, o.ColumnSpacing, o.RowSpacing, o.Width); err != nil {
		return err
	}
	if o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport height must be positive, got %g", o.Height)
	}
	if err := errors.ValidateRatio(-1, o.DefaultRatio); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "default ratio must be positive and finite, got %g", o.DefaultRatio)
	}
	if err := errors.ValidateRatios(o.Ratios); err != nil {
		return err
	}
	if o.Count < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "count cannot be negative")
	}
	if n := o.ItemCount(); n > MaxItems {
		return errors.New(errors.ErrCodeInvalidInput, "%d items exceed the limit of %d", n, MaxItems)
	}
	if _, err := ratio.ParseGrowthPolicy(o.Growth); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ItemCount returns the number of items laid out: the explicit ratios,
// extended to Count with default-ratio items.
func (o *Options) ItemCount() int {
	return max(len(o.Ratios), o.Count)
}

// ItemRatios returns the ratio of every item: the explicit ratios followed
// by default-ratio items up to Count.
func (o *Options) ItemRatios() []float64 {
	n := o.ItemCount()
	if n == len(o.Ratios) {
		return slices.Clone(o.Ratios)
	}
	return append(slices.Clone(o.Ratios), slices.Repeat([]float64{o.DefaultRatio}, n-len(o.Ratios))...)
}

// GrowthPolicy returns the parsed growth policy.
func (o *Options) GrowthPolicy() ratio.GrowthPolicy {
	p, _ := ratio.ParseGrowthPolicy(o.Growth)
	return p
}

// Params returns the ratio layout parameters.
func (o *Options) Params() ratio.Params {
	return ratio.Params{
		MinItemHeight:  o.MinItemHeight,
		ColumnSpacing:  o.ColumnSpacing,
		RowSpacing:     o.RowSpacing,
		AvailableWidth: o.Width,
	}
}

// Properties returns the grid layout properties.
func (o *Options) Properties() grid.Properties {
	return grid.Properties{
		MinItemHeight: o.MinItemHeight,
		ColumnSpacing: o.ColumnSpacing,
		RowSpacing:    o.RowSpacing,
	}
}

// Viewport returns the viewport rectangle.
func (o *Options) Viewport() geom.Rect {
	return geom.NewRect(0, o.Top, o.Width, o.Height)
}

// BoundsKeyOpts returns cache key options for bounds computation.
func (o *Options) BoundsKeyOpts() cache.BoundsKeyOpts {
	return cache.BoundsKeyOpts{
		Width:         o.Width,
		MinItemHeight: o.MinItemHeight,
		ColumnSpacing: o.ColumnSpacing,
		RowSpacing:    o.RowSpacing,
		DefaultRatio:  o.DefaultRatio,
		ItemCount:     o.ItemCount(),
	}
}
