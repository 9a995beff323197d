package realize

import (
	"slices"

	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/geom"
	"github.com/matzehuels/ratiogrid/pkg/observability"
)

// noIndex marks the first realized index of an empty window.
const noIndex = -1

// ErrNoContext is returned by operations that need the element pool before
// SetContext was called.
var ErrNoContext = errors.New(errors.ErrCodeInternal, "element manager has no context")

// Manager owns the realized window. It is not safe for concurrent use; all
// calls are expected from the goroutine driving the layout.
type Manager[E comparable] struct {
	ctx   Context[E]
	slots []Slot[E]
	first int
}

// NewManager creates a manager with an empty window.
func NewManager[E comparable](ctx Context[E]) *Manager[E] {
	return &Manager[E]{ctx: ctx, first: noIndex}
}

// SetContext replaces the element pool.
func (m *Manager[E]) SetContext(ctx Context[E]) {
	m.ctx = ctx
}

// RealizedCount returns the number of slots in the window.
func (m *Manager[E]) RealizedCount() int { return len(m.slots) }

// FirstRealizedIndex returns the data index of window position 0, or -1
// when the window is empty.
func (m *Manager[E]) FirstRealizedIndex() int { return m.first }

// RealizedEnd returns the data index of the last slot, or -1 when the
// window is empty.
func (m *Manager[E]) RealizedEnd() int {
	if len(m.slots) == 0 {
		return noIndex
	}
	return m.first + len(m.slots) - 1
}

// RealizedRange returns the window as an inclusive data-index range.
func (m *Manager[E]) RealizedRange() geom.Range {
	if len(m.slots) == 0 {
		return geom.EmptyRange
	}
	return geom.NewRange(m.first, m.RealizedEnd())
}

// LiveCount returns the number of slots holding an element.
func (m *Manager[E]) LiveCount() int {
	n := 0
	for _, s := range m.slots {
		if s.live {
			n++
		}
	}
	return n
}

// Window returns a copy of the slots, position 0 first.
func (m *Manager[E]) Window() []Slot[E] {
	return slices.Clone(m.slots)
}

// DataIndex maps a window position to its data index.
func (m *Manager[E]) DataIndex(position int) int { return position + m.first }

// WindowPosition maps a data index to its window position.
func (m *Manager[E]) WindowPosition(dataIndex int) int { return dataIndex - m.first }

// IsDataIndexRealized reports whether index falls inside the window.
func (m *Manager[E]) IsDataIndexRealized(index int) bool {
	return len(m.slots) > 0 && index >= m.first && index <= m.RealizedEnd()
}

// IsIndexValidInData reports whether index addresses an item of the dataset.
func (m *Manager[E]) IsIndexValidInData(index int) bool {
	return m.ctx != nil && index >= 0 && index < m.ctx.ItemCount()
}

// EnsureAndClear reconciles the window to target, keeping elements already
// realized inside it. Elements outside target are recycled, missing ones are
// created backward from the current first index and then forward from the
// current last index. An empty target clears the window.
func (m *Manager[E]) EnsureAndClear(target geom.Range) error {
	if m.ctx == nil {
		return ErrNoContext
	}
	if target.Empty() {
		return m.ClearAll()
	}
	if n := m.ctx.ItemCount(); target.Start < 0 || target.End >= n {
		return errors.New(errors.ErrCodeIndexOutOfRange, "target %s out of range [0,%d)", target, n)
	}

	if err := m.clearOutOfRange(target); err != nil {
		return err
	}

	if len(m.slots) == 0 {
		for i := target.Start; i <= target.End; i++ {
			if err := m.Add(m.createElement(i), i); err != nil {
				return err
			}
		}
		return nil
	}

	for i := m.first - 1; i >= target.Start; i-- {
		if err := m.Insert(0, i, Live(m.createElement(i))); err != nil {
			return err
		}
	}
	for i := m.RealizedEnd() + 1; i <= target.End; i++ {
		if err := m.Add(m.createElement(i), i); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager[E]) clearOutOfRange(target geom.Range) error {
	if len(m.slots) == 0 {
		return nil
	}

	first, last := m.first, m.RealizedEnd()
	if first > target.End || last < target.Start {
		return m.ClearAll()
	}
	if first == target.Start && last == target.End {
		return nil
	}

	if last > target.End {
		if err := m.ClearRange(target.End+1-first, last-target.End); err != nil {
			return err
		}
	}
	if first < target.Start {
		if err := m.ClearRange(0, target.Start-first); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the element at a window position, materializing it when the
// slot is vacant.
func (m *Manager[E]) Get(position int) (E, error) {
	var zero E
	if position < 0 || position >= len(m.slots) {
		return zero, errors.IndexOutOfRange("window position", position, len(m.slots))
	}
	if e, ok := m.slots[position].Element(); ok {
		return e, nil
	}
	if m.ctx == nil {
		return zero, ErrNoContext
	}

	e := m.createElement(m.DataIndex(position))
	m.slots[position] = Live(e)
	return e, nil
}

// RealizedElement returns the element for a realized data index,
// materializing it when needed.
func (m *Manager[E]) RealizedElement(dataIndex int) (E, error) {
	if !m.IsDataIndexRealized(dataIndex) {
		var zero E
		return zero, errors.New(errors.ErrCodeIndexOutOfRange, "data index %d is not realized (window %s)", dataIndex, m.RealizedRange())
	}
	return m.Get(m.WindowPosition(dataIndex))
}

// ElementDataIndex returns the data index of a live element, or -1 when the
// element is not in the window.
func (m *Manager[E]) ElementDataIndex(element E) int {
	for pos, s := range m.slots {
		if s.live && s.element == element {
			return m.DataIndex(pos)
		}
	}
	return noIndex
}

// Add appends an element for dataIndex. On a non-empty window dataIndex
// must be RealizedEnd()+1.
func (m *Manager[E]) Add(element E, dataIndex int) error {
	if err := m.checkAdjacent(true, dataIndex); err != nil {
		return err
	}
	if len(m.slots) == 0 {
		m.first = dataIndex
	}
	m.slots = append(m.slots, Live(element))
	return nil
}

// Insert places slot at a window position. The slot must belong to
// FirstRealizedIndex()+position; inserting at position 0 of a non-empty
// window extends it backward and requires dataIndex == FirstRealizedIndex()-1.
func (m *Manager[E]) Insert(position, dataIndex int, slot Slot[E]) error {
	if position < 0 || position > len(m.slots) {
		return errors.IndexOutOfRange("window position", position, len(m.slots)+1)
	}
	switch {
	case position == 0:
		if err := m.checkAdjacent(false, dataIndex); err != nil {
			return err
		}
	case dataIndex != m.first+position:
		return errors.New(errors.ErrCodeIndexOutOfRange,
			"data index %d does not belong at window position %d of %s", dataIndex, position, m.RealizedRange())
	}
	m.insertSlot(position, dataIndex, slot)
	return nil
}

// insertSlot inserts without adjacency checks. Reconciliation uses it for
// items added to the dataset, which shift the indices after them.
func (m *Manager[E]) insertSlot(position, dataIndex int, slot Slot[E]) {
	if position == 0 {
		m.first = dataIndex
	}
	m.slots = slices.Insert(m.slots, position, slot)
}

// checkAdjacent rejects a data index that would leave a gap in the window.
func (m *Manager[E]) checkAdjacent(forward bool, dataIndex int) error {
	if dataIndex < 0 {
		return errors.New(errors.ErrCodeIndexOutOfRange, "negative data index %d", dataIndex)
	}
	if len(m.slots) == 0 {
		return nil
	}
	want := m.first - 1
	if forward {
		want = m.RealizedEnd() + 1
	}
	if dataIndex != want {
		return errors.New(errors.ErrCodeIndexOutOfRange,
			"data index %d is not adjacent to window %s, want %d", dataIndex, m.RealizedRange(), want)
	}
	return nil
}

// ClearRange recycles the live elements of [position, position+count) and
// removes those slots.
func (m *Manager[E]) ClearRange(position, count int) error {
	if count == 0 {
		return nil
	}
	if position < 0 || count < 0 || position+count > len(m.slots) {
		return errors.New(errors.ErrCodeIndexOutOfRange,
			"window range [%d,%d) out of range [0,%d)", position, position+count, len(m.slots))
	}

	for pos := position; pos < position+count; pos++ {
		if err := m.recycleAt(pos); err != nil {
			return err
		}
	}
	m.slots = slices.Delete(m.slots, position, position+count)

	if position == 0 {
		if len(m.slots) == 0 {
			m.first = noIndex
		} else {
			m.first += count
		}
	}
	return nil
}

// ClearAll recycles every element and empties the window.
func (m *Manager[E]) ClearAll() error {
	return m.ClearRange(0, len(m.slots))
}

// EnsureElementRealized pins dataIndex into the window, appending it
// (forward) or prepending it (backward) when it is not realized yet. A
// non-empty window only grows by one index at either end.
func (m *Manager[E]) EnsureElementRealized(forward bool, dataIndex int) error {
	if m.IsDataIndexRealized(dataIndex) {
		return nil
	}
	if m.ctx == nil {
		return ErrNoContext
	}
	if err := m.checkAdjacent(forward, dataIndex); err != nil {
		return err
	}

	e := m.createElement(dataIndex)
	if forward {
		return m.Add(e, dataIndex)
	}
	return m.Insert(0, dataIndex, Live(e))
}

// DiscardOutsideWindow sheds elements that a scroll direction made
// invisible: everything from startIndex on (forward) or everything up to
// and including startIndex (backward). Nothing happens when startIndex is
// not realized.
func (m *Manager[E]) DiscardOutsideWindow(forward bool, startIndex int) error {
	if !m.IsDataIndexRealized(startIndex) {
		return nil
	}
	pos := m.WindowPosition(startIndex)
	if forward {
		return m.ClearRange(pos, len(m.slots)-pos)
	}
	return m.ClearRange(0, pos+1)
}

func (m *Manager[E]) createElement(dataIndex int) E {
	e := m.ctx.GetOrCreateElementAt(dataIndex, managedOptions)
	observability.Realization().OnRealize(dataIndex)
	return e
}

// recycleAt hands the element at pos back to the pool and vacates the slot.
func (m *Manager[E]) recycleAt(pos int) error {
	e, ok := m.slots[pos].Element()
	if !ok {
		return nil
	}
	if m.ctx == nil {
		return ErrNoContext
	}
	m.ctx.RecycleElement(e)
	m.slots[pos] = Vacant[E]()
	observability.Realization().OnRecycle(m.DataIndex(pos))
	return nil
}
