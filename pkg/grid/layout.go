package grid

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/geom"
	"github.com/matzehuels/ratiogrid/pkg/observability"
	"github.com/matzehuels/ratiogrid/pkg/ratio"
	"github.com/matzehuels/ratiogrid/pkg/realize"
)

// Element is a realized visual element. Elements are compared by identity.
type Element interface {
	comparable
	// Measure sizes the element to its table rectangle.
	Measure(size geom.Size)
	// Arrange positions the element.
	Arrange(rect geom.Rect)
}

// Composite is implemented by elements that wrap several children. A
// composite element cannot stand for a single data index.
type Composite interface {
	Composite() bool
}

// Context is the host of a Layout: the element pool plus the viewport.
type Context[E any] interface {
	realize.Context[E]
	// RealizationRect returns the viewport in layout coordinates.
	RealizationRect() geom.Rect
}

// ErrNotInitialized is returned by passes run before Initialize.
var ErrNotInitialized = errors.New(errors.ErrCodeInternal, "layout is not initialized for a context")

// Layout is a virtualizing vertical grid whose items keep their aspect ratio.
// It is driven from a single goroutine.
type Layout[E Element] struct {
	props    Properties
	ratios   *ratio.Manager
	elements *realize.Manager[E]
	logger   *log.Logger

	ctx            Context[E]
	state          *State
	measureInvalid bool
}

// New creates a Layout with the given properties.
func New[E Element](props Properties, opts ...Option) *Layout[E] {
	cfg := newConfig(opts)
	return &Layout[E]{
		props:          props,
		ratios:         ratio.NewManager(cfg.defaultRatio, ratio.WithGrowthPolicy(cfg.policy)),
		elements:       realize.NewManager[E](nil),
		logger:         cfg.logger,
		measureInvalid: true,
	}
}

// Initialize attaches the layout to a context and creates its state.
func (l *Layout[E]) Initialize(ctx Context[E]) error {
	if ctx == nil {
		return errors.New(errors.ErrCodeInvalidInput, "context is nil")
	}
	l.ctx = ctx
	l.elements.SetContext(ctx)
	if l.state == nil {
		l.state = newState()
	}
	l.measureInvalid = true
	return nil
}

// Uninitialize recycles every realized element and detaches the context.
func (l *Layout[E]) Uninitialize() error {
	if l.ctx == nil {
		return nil
	}
	if err := l.elements.ClearAll(); err != nil {
		return err
	}
	l.ctx = nil
	l.state = nil
	l.elements.SetContext(nil)
	return nil
}

// Properties returns the current properties.
func (l *Layout[E]) Properties() Properties { return l.props }

// SetProperties replaces the properties. A change requires a new measure.
func (l *Layout[E]) SetProperties(p Properties) {
	if p != l.props {
		l.props = p
		l.measureInvalid = true
	}
}

// SetRatios replaces the explicit item ratios. Every ratio must be a
// positive finite number.
func (l *Layout[E]) SetRatios(ratios []float64) error {
	if err := l.ratios.SetRatios(ratios); err != nil {
		return err
	}
	l.measureInvalid = true
	return nil
}

// OnItemsChanged reconciles the element window with a dataset change.
func (l *Layout[E]) OnItemsChanged(mu realize.Mutation) error {
	before := l.elements.RealizedRange()
	if err := l.elements.Reconcile(mu); err != nil {
		return err
	}
	if !l.isAppend(mu) {
		l.ratios.Invalidate()
	}
	l.measureInvalid = true
	l.logger.Debug("items changed", "mutation", mu, "window", before, "now", l.elements.RealizedRange())
	return nil
}

// isAppend reports whether mu only added items after the last existing one.
// Appends leave the bounds table to the growth policy.
func (l *Layout[E]) isAppend(mu realize.Mutation) bool {
	ins, ok := mu.(realize.Insert)
	if !ok || l.ctx == nil || ins.Count <= 0 {
		return false
	}
	return ins.At >= l.ctx.ItemCount()-ins.Count
}

// MeasureInvalid reports whether a measure pass is pending.
func (l *Layout[E]) MeasureInvalid() bool { return l.measureInvalid }

// State returns the state of the last pass, or nil before Initialize.
func (l *Layout[E]) State() *State { return l.state }

// RealizedRange returns the range of the realized window.
func (l *Layout[E]) RealizedRange() geom.Range { return l.elements.RealizedRange() }

// Bounds returns the current bounds table.
func (l *Layout[E]) Bounds() ([]geom.Rect, error) { return l.ratios.Bounds() }

// RepackedFrom returns the first item the last bounds build laid out; 0
// means the whole table was rebuilt.
func (l *Layout[E]) RepackedFrom() int { return l.ratios.RepackedFrom() }

// ElementAt returns the element at a window position.
func (l *Layout[E]) ElementAt(position int) (E, error) { return l.elements.Get(position) }

// Elements exposes the element window.
func (l *Layout[E]) Elements() *realize.Manager[E] { return l.elements }

// Measure runs the measure pass for the available width and returns the
// desired size: the width and the bottom of the last item.
func (l *Layout[E]) Measure(availableWidth float64) (geom.Size, error) {
	if l.ctx == nil {
		return geom.Size{}, ErrNotInitialized
	}
	if err := errors.ValidateLayoutInput(l.props.MinItemHeight, l.props.ColumnSpacing, l.props.RowSpacing, availableWidth); err != nil {
		return geom.Size{}, err
	}
	start := time.Now()
	n := l.ctx.ItemCount()

	if l.ratios.EnsureBounds(l.props.params(availableWidth), n) {
		observability.Layout().OnBoundsComputed(n, l.ratios.RowCount(), time.Since(start))
		l.logger.Debug("bounds recomputed",
			"items", n,
			"rows", l.ratios.RowCount(),
			"avg_per_row", l.ratios.AverageItemsPerRow(),
			"policy", l.ratios.Policy(),
			"from", l.ratios.RepackedFrom())
	}

	bounds, err := l.ratios.Bounds()
	if err != nil {
		return geom.Size{}, err
	}
	r, err := l.ratios.Range(l.ctx.RealizationRect(), n)
	if err != nil {
		return geom.Size{}, err
	}

	l.state.FillPrevious()
	l.state.Bounds = bounds
	l.state.Realized = r

	if err := l.elements.EnsureAndClear(r); err != nil {
		return geom.Size{}, err
	}
	for i := r.Start; i <= r.End; i++ {
		e, err := l.single(i)
		if err != nil {
			return geom.Size{}, err
		}
		e.Measure(bounds[i].Size)
	}

	l.measureInvalid = false
	observability.Layout().OnMeasure(r, time.Since(start))
	l.logger.Debug("measured", "range", r, "viewport", l.ctx.RealizationRect())

	return geom.Size{Width: availableWidth, Height: l.ratios.Extent(n)}, nil
}

// Arrange positions every element of the last measured range and returns
// finalSize. It fails when a measure is pending.
func (l *Layout[E]) Arrange(finalSize geom.Size) (geom.Size, error) {
	if l.ctx == nil {
		return finalSize, ErrNotInitialized
	}
	if l.state.Bounds == nil {
		return finalSize, nil
	}
	if l.measureInvalid {
		return finalSize, errors.StaleState("layout measure")
	}
	start := time.Now()

	r := l.state.Realized
	for i := r.Start; i <= r.End; i++ {
		e, err := l.single(i)
		if err != nil {
			return finalSize, err
		}
		e.Arrange(l.state.Bounds[i])
	}

	observability.Layout().OnArrange(r.Len(), time.Since(start))
	return finalSize, nil
}

// single returns the realized element for index, rejecting composites.
func (l *Layout[E]) single(index int) (E, error) {
	e, err := l.elements.RealizedElement(index)
	if err != nil {
		return e, err
	}
	if c, ok := any(e).(Composite); ok && c.Composite() {
		var zero E
		return zero, errors.New(errors.ErrCodeInvalidChildQuery, "element for index %d is composite", index)
	}
	return e, nil
}
