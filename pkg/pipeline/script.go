package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ratiogrid/pkg/dataset"
	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/geom"
	"github.com/matzehuels/ratiogrid/pkg/grid"
	"github.com/matzehuels/ratiogrid/pkg/host"
	rgio "github.com/matzehuels/ratiogrid/pkg/io"
)

// Step operations.
const (
	OpScroll  = "scroll"
	OpResize  = "resize"
	OpInsert  = "insert"
	OpRemove  = "remove"
	OpReplace = "replace"
	OpMove    = "move"
	OpReset   = "reset"
)

// Script is a recorded session: an initial dataset and layout followed by
// scroll, resize and dataset steps.
//
//	[layout]
//	width = 800
//	height = 600
//
//	[dataset]
//	generate = 500
//	seed = 7
//
//	[[step]]
//	op = "scroll"
//	by = 1200
//
//	[[step]]
//	op = "insert"
//	at = 10
//	ratios = [1.5, 0.5]
type Script struct {
	Layout  Options       `toml:"layout"`
	Dataset ScriptDataset `toml:"dataset"`
	Steps   []Step        `toml:"step"`
}

// ScriptDataset is the initial content of a scripted list.
type ScriptDataset struct {
	// File names a dataset file, resolved relative to the working directory.
	File     string    `toml:"file"`
	Ratios   []float64 `toml:"ratios"`
	Generate int       `toml:"generate"`
	Seed     uint64    `toml:"seed"`
}

// Step is one scripted action.
type Step struct {
	Op string `toml:"op"`

	// scroll: absolute Y or relative By
	Y  *float64 `toml:"y"`
	By float64  `toml:"by"`

	// resize
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`

	// dataset changes
	At     int       `toml:"at"`
	Count  int       `toml:"count"`
	From   int       `toml:"from"`
	To     int       `toml:"to"`
	Ratios []float64 `toml:"ratios"`
}

func (s Step) String() string {
	switch s.Op {
	case OpScroll:
		if s.Y != nil {
			return fmt.Sprintf("scroll to %g", *s.Y)
		}
		return fmt.Sprintf("scroll by %g", s.By)
	case OpResize:
		return fmt.Sprintf("resize %gx%g", s.Width, s.Height)
	case OpInsert:
		return fmt.Sprintf("insert %d at %d", len(s.Ratios), s.At)
	case OpRemove:
		return fmt.Sprintf("remove %d at %d", s.Count, s.At)
	case OpReplace:
		return fmt.Sprintf("replace %d at %d", len(s.Ratios), s.At)
	case OpMove:
		return fmt.Sprintf("move %d to %d", s.From, s.To)
	case OpReset:
		return fmt.Sprintf("reset to %d items", len(s.Ratios))
	}
	return s.Op
}

// Frame is the grid state after one step.
type Frame struct {
	Step     string     `json:"step"`
	Items    int        `json:"items"`
	Viewport geom.Rect  `json:"viewport"`
	Range    geom.Range `json:"range"`
	Window   geom.Range `json:"window"`
	Extent   float64    `json:"extent"`
	Pool     host.Stats `json:"pool"`
}

// ReadScript decodes a TOML script.
func ReadScript(r io.Reader) (*Script, error) {
	var s Script
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode script")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown script key %q", undecoded[0].String())
	}
	if md.IsDefined("layout", "column_spacing") || md.IsDefined("layout", "row_spacing") {
		s.Layout.SetSpacing(s.Layout.ColumnSpacing, s.Layout.RowSpacing)
	}
	return &s, nil
}

// LoadScript reads the script file at path.
func LoadScript(path string) (*Script, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "script %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadScript(f)
}

// initialRatios resolves the dataset section.
func (s *Script) initialRatios() ([]float64, error) {
	d := s.Dataset
	switch {
	case d.File != "":
		ds, err := rgio.ImportDataset(d.File)
		if err != nil {
			return nil, err
		}
		return ds.Ratios, nil
	case d.Generate > 0:
		return dataset.Generate(d.Generate, d.Seed), nil
	}
	return d.Ratios, nil
}

// Replay runs the script against a live grid and returns one frame for the
// initial pass and one per step. It stops at the first failing step and
// returns the frames so far with the error.
func (r *Runner) Replay(ctx context.Context, s *Script) ([]Frame, error) {
	opts := s.Layout
	r.applyLogger(&opts)
	ratios, err := s.initialRatios()
	if err != nil {
		return nil, err
	}
	opts.Ratios = ratios
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	list := dataset.New(opts.ItemRatios()...)
	h, err := host.New(list, opts.Properties(), opts.Width, opts.Height,
		grid.WithDefaultRatio(opts.DefaultRatio),
		grid.WithGrowthPolicy(opts.GrowthPolicy()),
		grid.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	if opts.Top != 0 {
		// The extent is unknown before the first pass.
		h.Pool.SetViewport(opts.Viewport())
	}

	frames := make([]Frame, 0, len(s.Steps)+1)
	frame, err := pass(h, "initial")
	if err != nil {
		return nil, err
	}
	frames = append(frames, frame)

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		if err := apply(h, step); err != nil {
			return frames, fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
		frame, err := pass(h, step.String())
		if err != nil {
			return frames, fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
		frames = append(frames, frame)
		r.Logger.Debug("replayed step", "step", i+1, "op", step.Op, "range", frame.Range, "window", frame.Window)
	}

	if err := h.Close(); err != nil {
		return frames, fmt.Errorf("teardown: %w", err)
	}
	return frames, nil
}

func apply(h *host.Host, s Step) error {
	list := h.List
	switch s.Op {
	case OpScroll:
		if s.Y != nil {
			h.ScrollTo(*s.Y)
		} else {
			h.ScrollBy(s.By)
		}
		return nil
	case OpResize:
		if s.Width <= 0 || s.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "resize needs a positive width and height")
		}
		h.Resize(s.Width, s.Height)
		return nil
	case OpInsert:
		return list.Insert(s.At, s.Ratios...)
	case OpRemove:
		return list.Remove(s.At, s.Count)
	case OpReplace:
		return list.Replace(s.At, s.Ratios...)
	case OpMove:
		return list.Move(s.From, s.To)
	case OpReset:
		return list.Reset(s.Ratios...)
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown step op %q", s.Op)
}

func pass(h *host.Host, label string) (Frame, error) {
	if _, err := h.Pass(); err != nil {
		return Frame{}, err
	}
	return Frame{
		Step:     label,
		Items:    h.List.Len(),
		Viewport: h.Pool.Viewport(),
		Range:    h.Layout.State().Realized,
		Window:   h.Layout.RealizedRange(),
		Extent:   h.Extent(),
		Pool:     h.Pool.Stats(),
	}, nil
}
