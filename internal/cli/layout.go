package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	rgio "github.com/matzehuels/ratiogrid/pkg/io"
	"github.com/matzehuels/ratiogrid/pkg/pipeline"
)

// layoutCommand creates the layout command for computing bounds tables.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [dataset]",
		Short: "Compute the bounds table of a dataset",
		Long: `Compute the bounds table of a dataset.

The dataset is a JSON, TOML or text file of aspect ratios (width / height).
Every item is placed in a row that is stretched to fill the width; the table
of item rectangles is written as JSON.

Results are cached locally for faster subsequent runs.`,
		Example: heredoc.Doc(`
			# Lay out a file of ratios at the default width
			ratiogrid layout photos.json

			# Lay out 10000 generated items into a narrow column, print to stdout
			ratiogrid layout --generate 10000 --width 480 -o -
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, args, &flags)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), opts, layoutOutput(args, output), flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, or stdout)")
	cmd.Flags().BoolVar(&flags.opts.Refresh, "refresh", false, "recompute even when cached")
	flags.bind(cmd)

	return cmd
}

// layoutOutput derives the output path; "-" is stdout.
func layoutOutput(args []string, output string) string {
	if output != "" {
		return output
	}
	if len(args) == 0 {
		return "-"
	}
	base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	return base + ".layout.json"
}

// runLayout computes the table and writes it.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %d items...", opts.ItemCount()))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "-" {
		return rgio.WriteTable(result.Table, stdout)
	}
	if err := rgio.WriteTableFile(result.Table, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	prog.done("Layout computed")

	printSuccess("Layout complete")
	printFile(output)
	printStats(result.Stats.Items, result.Stats.Rows, result.CacheInfo.BoundsHit)
	printNewline()
	printNextStep("Inspect a viewport", appName+" range --top 0 <dataset>")

	return nil
}
