package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ratiogrid/pkg/dataset"
	"github.com/matzehuels/ratiogrid/pkg/grid"
	"github.com/matzehuels/ratiogrid/pkg/host"
	"github.com/matzehuels/ratiogrid/pkg/pipeline"
)

const (
	browseScrollStep = 40.0
	browseResizeStep = 50.0
	browseMinWidth   = 100.0
)

var (
	browseTileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Foreground(colorWhite)
	browseStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	browseErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// browseCommand creates the browse command, an interactive scrolling grid.
func (c *CLI) browseCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "browse [dataset]",
		Short: "Scroll a live grid in the terminal",
		Long: `Scroll a live grid in the terminal.

Keys: ↑/↓ scroll, PgUp/PgDn page, Home/End jump, +/- change the width,
i insert an item, x remove the first visible item, r regenerate, q quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && flags.generate == 0 && flags.opts.Count == 0 {
				flags.generate = 1000
			}
			opts, err := c.options(cmd, args, &flags)
			if err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), opts, flags.seed)
		},
	}

	flags.bind(cmd)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, opts pipeline.Options, seed uint64) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	h, err := host.New(dataset.New(opts.ItemRatios()...), opts.Properties(), opts.Width, opts.Height,
		grid.WithDefaultRatio(opts.DefaultRatio),
		grid.WithGrowthPolicy(opts.GrowthPolicy()),
		grid.WithLogger(c.Logger))
	if err != nil {
		return err
	}

	m := newBrowseModel(h, seed)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		h.Close()
		return fmt.Errorf("browse: %w", err)
	}

	stats := h.Pool.Stats()
	if err := h.Close(); err != nil {
		return err
	}
	printSuccess("Browsed %d items", h.List.Len())
	printDetail("%d elements created, %d reused", stats.Created, stats.Reused)
	return nil
}

// =============================================================================
// browseModel - Interactive grid
// =============================================================================

type browseModel struct {
	host *host.Host
	seed uint64

	cols, lines int
	err         error
}

func newBrowseModel(h *host.Host, seed uint64) browseModel {
	m := browseModel{host: h, seed: seed, cols: 80, lines: 24}
	m.pass()
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		h := m.host
		page := h.Pool.Viewport().Height()
		m.err = nil
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "down", "j":
			h.ScrollBy(browseScrollStep)
		case "up", "k":
			h.ScrollBy(-browseScrollStep)
		case "pgdown", " ":
			h.ScrollBy(page)
		case "pgup":
			h.ScrollBy(-page)
		case "home", "g":
			h.ScrollTo(0)
		case "end", "G":
			h.ScrollTo(h.Extent())
		case "+":
			h.Resize(h.Width()+browseResizeStep, page)
		case "-":
			h.Resize(math.Max(browseMinWidth, h.Width()-browseResizeStep), page)
		case "i":
			m.seed++
			m.err = h.List.Insert(m.firstVisible(), dataset.Generate(1, m.seed)...)
		case "x":
			if h.List.Len() > 0 {
				m.err = h.List.Remove(m.firstVisible(), 1)
			}
		case "r":
			m.seed++
			m.err = h.List.Reset(dataset.Generate(h.List.Len(), m.seed)...)
		default:
			return m, nil
		}
		if m.err == nil {
			m.pass()
		}
	case tea.WindowSizeMsg:
		m.cols, m.lines = msg.Width, msg.Height
	}
	return m, nil
}

// firstVisible is the insertion point for edits: the first visible item.
func (m browseModel) firstVisible() int {
	if s := m.host.Layout.State(); s != nil && !s.Realized.Empty() {
		return min(s.Realized.Start, m.host.List.Len())
	}
	return 0
}

func (m *browseModel) pass() {
	_, m.err = m.host.Pass()
}

func (m browseModel) View() string {
	var b strings.Builder

	h := m.host
	stats := h.Pool.Stats()
	b.WriteString(StyleTitle.Render("ratiogrid"))
	b.WriteString(browseStatusStyle.Render(fmt.Sprintf("  %d items · width %.0f · top %.0f/%.0f",
		h.List.Len(), h.Width(), h.Pool.Viewport().Top(), h.Extent())))
	b.WriteString("\n")
	if s := h.Layout.State(); s != nil {
		b.WriteString(browseStatusStyle.Render(fmt.Sprintf("Visible %s · window %s · live %d · created %d · reused %d",
			s.Realized, h.Layout.RealizedRange(), stats.Live, stats.Created, stats.Reused)))
	}
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(browseErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.renderRows(max(1, m.lines-4)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ scroll  PgUp/PgDn page  +/- width  i insert  x remove  r regenerate  q quit"))
	return b.String()
}

// renderRows draws the visible tiles row by row, scaled to the terminal.
func (m browseModel) renderRows(maxLines int) string {
	tiles := m.host.Visible()
	if len(tiles) == 0 {
		return StyleDim.Render("(no items)")
	}

	sx := float64(m.cols) / m.host.Width()
	sy := float64(maxLines) / m.host.Pool.Viewport().Height()

	var rows []string
	for start := 0; start < len(tiles); {
		top := tiles[start].Rect.Top()
		end := start
		for end < len(tiles) && tiles[end].Rect.Top() == top {
			end++
		}

		boxes := make([]string, 0, end-start)
		for _, t := range tiles[start:end] {
			w := max(3, int(t.Rect.Width()*sx)-2)
			h := max(1, int(t.Rect.Height()*sy)-2)
			label := t.Label()
			if len(label) > w {
				label = label[:w]
			}
			boxes = append(boxes, browseTileStyle.Width(w).Height(h).Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
		start = end
	}

	lines := strings.Split(lipgloss.JoinVertical(lipgloss.Left, rows...), "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}
