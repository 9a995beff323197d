package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ratiogrid/internal/api"
	"github.com/matzehuels/ratiogrid/pkg/pipeline"
)

// rangeCommand creates the range command, which reports the items of a
// viewport.
func (c *CLI) rangeCommand() *cobra.Command {
	var (
		flags  layoutFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "range [dataset]",
		Short: "Show the items visible in a viewport",
		Long: `Show the items visible in a viewport.

The viewport spans the layout width, starts at --top and is --height tall.
When nothing intersects it the nearest item is reported: the first one above
the layout, the last one below it.`,
		Example: heredoc.Doc(`
			# Items in the second screen of a 600px viewport
			ratiogrid range photos.json --top 600 --height 600

			# Same, as JSON
			ratiogrid range photos.json --top 600 --height 600 --json
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, args, &flags)
			if err != nil {
				return err
			}
			return c.runRange(cmd.Context(), opts, flags.noCache, asJSON)
		},
	}

	cmd.Flags().Float64Var(&flags.opts.Top, "top", 0, "viewport top")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the range and its items as JSON")
	flags.bind(cmd)

	return cmd
}

func (c *CLI) runRange(ctx context.Context, opts pipeline.Options, noCache, asJSON bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	resp := api.NewRangeResponse(result)

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if resp.Range.Empty() {
		printWarning("No items in viewport %s", opts.Viewport())
		printStats(result.Stats.Items, result.Stats.Rows, result.CacheInfo.BoundsHit)
		return nil
	}

	printSuccess("Items %s visible", StyleHighlight.Render(resp.Range.String()))
	printStats(result.Stats.Items, result.Stats.Rows, result.CacheInfo.BoundsHit)

	t := newTable("Index", "Ratio", "X", "Y", "Width", "Height")
	for _, it := range resp.Items {
		t.Row(
			strconv.Itoa(it.Index),
			formatFloat(it.Width/it.Height),
			formatFloat(it.X),
			formatFloat(it.Y),
			formatFloat(it.Width),
			formatFloat(it.Height),
		)
	}
	fmt.Fprintln(stdout, t.Render())
	printKeyValue("Extent", formatFloat(resp.Extent))
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
