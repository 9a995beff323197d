package realize

import (
	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/observability"
)

// Reconcile applies a dataset mutation to the window so that every slot
// keeps mapping to the item it was realized for. Nothing happens on an
// empty window.
func (m *Manager[E]) Reconcile(mutation Mutation) error {
	if len(m.slots) == 0 {
		return nil
	}
	before := m.RealizedRange()

	var err error
	switch mu := mutation.(type) {
	case Insert:
		err = m.onItemsAdded(mu.At, mu.Count)
	case Remove:
		if mu.At < 0 {
			err = m.ClearAll()
			break
		}
		err = m.onItemsRemoved(mu.At, mu.Count)
	case Replace:
		err = m.onItemsReplaced(mu)
	case Move:
		if err = m.onItemsRemoved(mu.OldAt, mu.Count); err == nil {
			err = m.onItemsAdded(mu.NewAt, mu.Count)
		}
	case Reset:
		// Partial reconciliation after an unstructured change can leave
		// stale index mappings behind.
		err = m.ClearAll()
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported mutation %T", mutation)
	}
	if err != nil {
		return err
	}

	observability.Realization().OnReconcile(mutation.Kind(), before, m.RealizedRange())
	return nil
}

// onItemsAdded uses pre-change indices: an insertion inside the window gets
// vacant slots, one before it shifts the window.
func (m *Manager[E]) onItemsAdded(at, count int) error {
	if len(m.slots) == 0 || count <= 0 {
		return nil
	}

	if at >= m.first && at <= m.RealizedEnd() {
		start := at - m.first
		for i := 0; i < count; i++ {
			m.insertSlot(start+i, at+i, Vacant[E]())
		}
		return nil
	}
	if at <= m.first {
		m.first += count
	}
	return nil
}

func (m *Manager[E]) onItemsRemoved(at, count int) error {
	if len(m.slots) == 0 || count <= 0 {
		return nil
	}

	start := max(m.first, at)
	end := min(m.RealizedEnd(), at+count-1)
	affectsFirst := at <= m.first

	if end >= start {
		if err := m.ClearRange(m.WindowPosition(start), end-start+1); err != nil {
			return err
		}
	}
	if affectsFirst && m.first != noIndex {
		m.first -= count
	}
	return nil
}

// onItemsReplaced recycles a same-sized in-window replacement in place so
// the window keeps its anchor; anything else is a remove plus an insert.
func (m *Manager[E]) onItemsReplaced(r Replace) error {
	inPlace := r.OldCount == r.NewCount &&
		r.OldAt == r.NewAt &&
		r.OldCount > 0 &&
		m.IsDataIndexRealized(r.OldAt) &&
		m.IsDataIndexRealized(r.OldAt+r.OldCount-1)

	if !inPlace {
		if err := m.onItemsRemoved(r.OldAt, r.OldCount); err != nil {
			return err
		}
		return m.onItemsAdded(r.NewAt, r.NewCount)
	}

	start := m.WindowPosition(r.OldAt)
	for pos := start; pos < start+r.OldCount; pos++ {
		if err := m.recycleAt(pos); err != nil {
			return err
		}
	}
	return nil
}
