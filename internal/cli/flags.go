package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ratiogrid/pkg/dataset"
	"github.com/matzehuels/ratiogrid/pkg/errors"
	rgio "github.com/matzehuels/ratiogrid/pkg/io"
	"github.com/matzehuels/ratiogrid/pkg/pipeline"
)

// Layout flag names, shared with the config file mapping.
const (
	flagMinItemHeight = "min-item-height"
	flagColumnSpacing = "column-spacing"
	flagRowSpacing    = "row-spacing"
	flagWidth         = "width"
	flagHeight        = "height"
	flagDefaultRatio  = "default-ratio"
	flagGrowth        = "growth"
)

// layoutFlags are the flags of every command that lays out a dataset.
type layoutFlags struct {
	opts     pipeline.Options
	generate int
	seed     uint64
	noCache  bool
}

func (f *layoutFlags) bind(cmd *cobra.Command) {
	f.opts.SetLayoutDefaults()

	fl := cmd.Flags()
	fl.Float64Var(&f.opts.MinItemHeight, flagMinItemHeight, f.opts.MinItemHeight, "item height before rows are stretched")
	fl.Float64Var(&f.opts.ColumnSpacing, flagColumnSpacing, f.opts.ColumnSpacing, "gap between items of a row")
	fl.Float64Var(&f.opts.RowSpacing, flagRowSpacing, f.opts.RowSpacing, "gap between rows")
	fl.Float64Var(&f.opts.Width, flagWidth, f.opts.Width, "available width")
	fl.Float64Var(&f.opts.Height, flagHeight, f.opts.Height, "viewport height")
	fl.Float64Var(&f.opts.DefaultRatio, flagDefaultRatio, f.opts.DefaultRatio, "ratio of items without one")
	fl.StringVar(&f.opts.Growth, flagGrowth, f.opts.Growth, "bounds growth policy: full (default), incremental")
	fl.IntVar(&f.opts.Count, "count", 0, "pad the dataset with default-ratio items up to this count")
	fl.IntVar(&f.generate, "generate", 0, "use this many random ratios instead of a dataset file")
	fl.Uint64Var(&f.seed, "seed", 1, "seed for --generate")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options resolves the flags, the config file and the dataset into options.
func (c *CLI) options(cmd *cobra.Command, args []string, f *layoutFlags) (pipeline.Options, error) {
	opts := f.opts
	c.config.apply(&opts, cmd.Flags().Changed)
	opts.Logger = c.Logger

	ratios, defaultRatio, err := f.dataset(args)
	if err != nil {
		return opts, err
	}
	opts.Ratios = ratios
	if defaultRatio != 0 && !cmd.Flags().Changed(flagDefaultRatio) {
		opts.DefaultRatio = defaultRatio
	}
	return opts, nil
}

// dataset returns the ratios named by the arguments and the dataset's own
// default ratio, if any.
func (f *layoutFlags) dataset(args []string) ([]float64, float64, error) {
	switch {
	case len(args) > 0:
		ds, err := rgio.ImportDataset(args[0])
		if err != nil {
			return nil, 0, fmt.Errorf("load dataset %s: %w", args[0], err)
		}
		return ds.Ratios, ds.DefaultRatio, nil
	case f.generate > 0:
		return dataset.Generate(f.generate, f.seed), 0, nil
	case f.opts.Count > 0:
		return nil, 0, nil
	}
	return nil, 0, errors.New(errors.ErrCodeInvalidInput, "give a dataset file, --generate or --count")
}
