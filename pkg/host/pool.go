package host

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/geom"
	"github.com/matzehuels/ratiogrid/pkg/realize"
)

// Source is the item collection a pool shows.
type Source interface {
	Len() int
	At(i int) (float64, error)
}

// Stats counts pool traffic.
type Stats struct {
	Created  int `json:"created"`
	Reused   int `json:"reused"`
	Recycled int `json:"recycled"`
	Live     int `json:"live"`
	Free     int `json:"free"`
	// Misuse counts recycles of tiles that were not live.
	Misuse int `json:"misuse"`
}

// Handed returns how many tiles were handed out in total.
func (s Stats) Handed() int { return s.Created + s.Reused }

// Pool hands out and takes back tiles. It is not safe for concurrent use.
type Pool struct {
	source   Source
	viewport geom.Rect
	logger   *log.Logger

	live  map[*Tile]struct{}
	free  []*Tile
	stats Stats
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithPoolLogger sets the logger used to report misuse.
func WithPoolLogger(l *log.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool creates a pool over source with the given viewport.
func NewPool(source Source, viewport geom.Rect, opts ...PoolOption) *Pool {
	p := &Pool{
		source:   source,
		viewport: viewport,
		logger:   log.New(io.Discard),
		live:     make(map[*Tile]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ItemCount implements realize.Context.
func (p *Pool) ItemCount() int { return p.source.Len() }

// RealizationRect implements grid.Context.
func (p *Pool) RealizationRect() geom.Rect { return p.viewport }

// Viewport returns the current viewport.
func (p *Pool) Viewport() geom.Rect { return p.viewport }

// SetViewport replaces the viewport.
func (p *Pool) SetViewport(r geom.Rect) { p.viewport = r }

// ScrollTo moves the viewport top to y, clamped so that the viewport stays
// within [0, extent].
func (p *Pool) ScrollTo(y, extent float64) {
	maxTop := max(0, extent-p.viewport.Height())
	y = min(max(y, 0), maxTop)
	p.viewport = geom.NewRect(p.viewport.Left(), y, p.viewport.Width(), p.viewport.Height())
}

// ScrollBy moves the viewport by dy, clamped like ScrollTo.
func (p *Pool) ScrollBy(dy, extent float64) {
	p.ScrollTo(p.viewport.Top()+dy, extent)
}

// GetOrCreateElementAt implements realize.Context. Without ForceCreate a
// tile already live for index is returned as is.
func (p *Pool) GetOrCreateElementAt(index int, opts realize.RealizationOptions) *Tile {
	if !opts.Has(realize.ForceCreate) {
		for t := range p.live {
			if t.Index == index {
				return t
			}
		}
	}

	ratio, err := p.source.At(index)
	if err != nil {
		p.logger.Warn("tile requested for missing item", "index", index, "err", err)
	}

	var t *Tile
	if n := len(p.free); n > 0 {
		t = p.free[n-1]
		p.free = p.free[:n-1]
		p.stats.Reused++
	} else {
		t = &Tile{ID: uuid.New()}
		p.stats.Created++
	}
	t.bind(index, ratio, opts.Has(realize.SuppressAutoRecycle))
	p.live[t] = struct{}{}
	return t
}

// RecycleElement implements realize.Context.
func (p *Pool) RecycleElement(t *Tile) {
	if _, ok := p.live[t]; !ok {
		p.stats.Misuse++
		p.logger.Error("recycle of a tile that is not live", "tile", t)
		return
	}
	delete(p.live, t)
	p.free = append(p.free, t)
	p.stats.Recycled++
}

// Stats returns the current counters.
func (p *Pool) Stats() Stats {
	s := p.stats
	s.Live = len(p.live)
	s.Free = len(p.free)
	return s
}

// Live returns the live tiles ordered by index.
func (p *Pool) Live() []*Tile {
	out := make([]*Tile, 0, len(p.live))
	for t := range p.live {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *Tile) int { return a.Index - b.Index })
	return out
}

// Check reports misuse and, when drained is set, tiles that were never
// returned.
func (p *Pool) Check(drained bool) error {
	s := p.Stats()
	if s.Misuse > 0 {
		return errors.New(errors.ErrCodeInternal, "%d tiles recycled while not live", s.Misuse)
	}
	if drained && s.Live > 0 {
		return errors.New(errors.ErrCodeInternal, "%d tiles still live", s.Live)
	}
	if s.Handed() != s.Recycled+s.Live {
		return errors.New(errors.ErrCodeInternal, "handed %d tiles, recycled %d, live %d", s.Handed(), s.Recycled, s.Live)
	}
	return nil
}
