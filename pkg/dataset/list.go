package dataset

import (
	"slices"

	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/realize"
)

// Listener receives the mutation after the list has changed.
type Listener func(realize.Mutation)

// List is an observable list of aspect ratios. It is not safe for
// concurrent use.
type List struct {
	ratios    []float64
	listeners map[int]Listener
	nextID    int
}

// New creates a list holding a copy of ratios. Ratios are not validated;
// use FromRatios for untrusted input.
func New(ratios ...float64) *List {
	return &List{ratios: slices.Clone(ratios), listeners: make(map[int]Listener)}
}

// FromRatios creates a list after validating every ratio.
func FromRatios(ratios []float64) (*List, error) {
	if err := errors.ValidateRatios(ratios); err != nil {
		return nil, err
	}
	return New(ratios...), nil
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.ratios) }

// At returns the ratio of item i.
func (l *List) At(i int) (float64, error) {
	if i < 0 || i >= len(l.ratios) {
		return 0, errors.IndexOutOfRange("item", i, len(l.ratios))
	}
	return l.ratios[i], nil
}

// Ratios returns a copy of the ratios.
func (l *List) Ratios() []float64 { return slices.Clone(l.ratios) }

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (l *List) Subscribe(fn Listener) (unsubscribe func()) {
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	return func() { delete(l.listeners, id) }
}

func (l *List) notify(mu realize.Mutation) {
	ids := make([]int, 0, len(l.listeners))
	for id := range l.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		l.listeners[id](mu)
	}
}

// Insert adds ratios before index at. at may equal Len.
func (l *List) Insert(at int, ratios ...float64) error {
	if at < 0 || at > len(l.ratios) {
		return errors.IndexOutOfRange("insert position", at, len(l.ratios)+1)
	}
	if len(ratios) == 0 {
		return nil
	}
	if err := errors.ValidateRatios(ratios); err != nil {
		return err
	}
	l.ratios = slices.Insert(l.ratios, at, ratios...)
	l.notify(realize.Insert{At: at, Count: len(ratios)})
	return nil
}

// Append adds ratios at the end.
func (l *List) Append(ratios ...float64) error {
	return l.Insert(len(l.ratios), ratios...)
}

// Remove deletes count items starting at at.
func (l *List) Remove(at, count int) error {
	if err := l.checkSpan(at, count); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	l.ratios = slices.Delete(l.ratios, at, at+count)
	l.notify(realize.Remove{At: at, Count: count})
	return nil
}

// Replace overwrites len(ratios) items starting at at.
func (l *List) Replace(at int, ratios ...float64) error {
	if err := l.checkSpan(at, len(ratios)); err != nil {
		return err
	}
	if len(ratios) == 0 {
		return nil
	}
	if err := errors.ValidateRatios(ratios); err != nil {
		return err
	}
	copy(l.ratios[at:], ratios)
	l.notify(realize.Replace{OldAt: at, OldCount: len(ratios), NewAt: at, NewCount: len(ratios)})
	return nil
}

// Move relocates one item so that it ends up at index to.
func (l *List) Move(from, to int) error {
	if err := l.checkSpan(from, 1); err != nil {
		return err
	}
	if to < 0 || to >= len(l.ratios) {
		return errors.IndexOutOfRange("move target", to, len(l.ratios))
	}
	if from == to {
		return nil
	}
	r := l.ratios[from]
	l.ratios = slices.Delete(l.ratios, from, from+1)
	l.ratios = slices.Insert(l.ratios, to, r)
	l.notify(realize.Move{OldAt: from, NewAt: to, Count: 1})
	return nil
}

// Reset replaces the whole content.
func (l *List) Reset(ratios ...float64) error {
	if err := errors.ValidateRatios(ratios); err != nil {
		return err
	}
	l.ratios = slices.Clone(ratios)
	l.notify(realize.Reset{})
	return nil
}

// Apply performs a mutation on the list. Insert and Replace take their new
// items from ratios; Remove and Move ignore it, and Reset installs ratios as
// the new content. A Remove without a position (negative At) only makes
// sense as a notification and is rejected; use Reset to replace the content.
func (l *List) Apply(mu realize.Mutation, ratios []float64) error {
	switch m := mu.(type) {
	case realize.Insert:
		if len(ratios) != m.Count {
			return errors.New(errors.ErrCodeInvalidInput, "insert of %d items given %d ratios", m.Count, len(ratios))
		}
		return l.Insert(m.At, ratios...)
	case realize.Remove:
		if m.At < 0 {
			return errors.New(errors.ErrCodeUnsupported, "remove without a position, use reset")
		}
		return l.Remove(m.At, m.Count)
	case realize.Replace:
		if m.OldAt != m.NewAt || m.OldCount != m.NewCount || len(ratios) != m.NewCount {
			return errors.New(errors.ErrCodeUnsupported, "only in-place replacement of equal length is supported")
		}
		return l.Replace(m.OldAt, ratios...)
	case realize.Move:
		if m.Count != 1 {
			return errors.New(errors.ErrCodeUnsupported, "move of %d items", m.Count)
		}
		return l.Move(m.OldAt, m.NewAt)
	case realize.Reset:
		return l.Reset(ratios...)
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported mutation %T", mu)
}

func (l *List) checkSpan(at, count int) error {
	if count < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "count cannot be negative")
	}
	if at < 0 || at+count > len(l.ratios) {
		return errors.New(errors.ErrCodeIndexOutOfRange,
			"span [%d,%d) out of range [0,%d)", at, at+count, len(l.ratios))
	}
	return nil
}
