package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ratiogrid/pkg/pipeline"
)

// simulateCommand creates the simulate command, which replays a script of
// scrolls and dataset changes against a live grid.
func (c *CLI) simulateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "simulate [script.toml]",
		Short: "Replay scrolls and dataset changes against a live grid",
		Long: `Replay scrolls and dataset changes against a live grid.

The script is a TOML file with a [layout] table, a [dataset] table and a list
of [[step]] tables. After every step one layout pass runs and the realized
window and the element pool are reported:

  [layout]
  width = 800
  height = 600

  [dataset]
  generate = 1000
  seed = 7

  [[step]]
  op = "scroll"
  by = 2400

  [[step]]
  op = "insert"
  at = 40
  ratios = [1.5, 0.75]

Ops: scroll (y or by), resize (width, height), insert (at, ratios),
remove (at, count), replace (at, ratios), move (from, to), reset (ratios).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd.Context(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the frames as JSON")

	return cmd
}

func (c *CLI) runSimulate(ctx context.Context, path string, asJSON bool) error {
	script, err := pipeline.LoadScript(path)
	if err != nil {
		return fmt.Errorf("load script: %w", err)
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	prog := newProgress(c.Logger)
	frames, replayErr := runner.Replay(ctx, script)
	if replayErr == nil {
		prog.done(fmt.Sprintf("Replayed %d steps", len(script.Steps)))
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(frames); err != nil {
			return err
		}
		return replayErr
	}

	t := newTable("Step", "Items", "Top", "Visible", "Window", "Extent", "Created", "Reused", "Recycled", "Live")
	for _, f := range frames {
		t.Row(
			f.Step,
			strconv.Itoa(f.Items),
			formatFloat(f.Viewport.Top()),
			f.Range.String(),
			f.Window.String(),
			formatFloat(f.Extent),
			strconv.Itoa(f.Pool.Created),
			strconv.Itoa(f.Pool.Reused),
			strconv.Itoa(f.Pool.Recycled),
			strconv.Itoa(f.Pool.Live),
		)
	}
	fmt.Fprintln(stdout, t.Render())

	if replayErr != nil {
		printError("Replay stopped after %d frames", len(frames))
		return replayErr
	}
	printSuccess("Replay complete")
	if len(frames) > 0 {
		last := frames[len(frames)-1].Pool
		printDetail("%d elements handed out, %d created", last.Handed(), last.Created)
	}
	return nil
}
