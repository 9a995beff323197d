package grid

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ratiogrid/pkg/ratio"
)

// Properties are the layout inputs a host sets once and changes rarely.
type Properties struct {
	MinItemHeight float64 `json:"min_item_height" toml:"min_item_height"`
	ColumnSpacing float64 `json:"column_spacing" toml:"column_spacing"`
	RowSpacing    float64 `json:"row_spacing" toml:"row_spacing"`
}

// params combines the properties with the width of a measure pass.
func (p Properties) params(width float64) ratio.Params {
	return ratio.Params{
		MinItemHeight:  p.MinItemHeight,
		ColumnSpacing:  p.ColumnSpacing,
		RowSpacing:     p.RowSpacing,
		AvailableWidth: width,
	}
}

type config struct {
	logger       *log.Logger
	defaultRatio float64
	policy       ratio.GrowthPolicy
}

// Option configures a Layout.
type Option func(*config)

// WithLogger sets the logger for debug output. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaultRatio sets the ratio of items without an explicit one.
func WithDefaultRatio(r float64) Option {
	return func(c *config) { c.defaultRatio = r }
}

// WithGrowthPolicy sets how the bounds table is rebuilt when items are appended.
func WithGrowthPolicy(p ratio.GrowthPolicy) Option {
	return func(c *config) { c.policy = p }
}

func newConfig(opts []Option) config {
	c := config{logger: log.New(io.Discard), defaultRatio: 1}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
