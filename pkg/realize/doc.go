// Package realize maintains the window of realized elements of a
// virtualized list.
//
// A Manager owns an ordered run of slots covering a contiguous range of
// data indices: slot i always belongs to data index FirstRealizedIndex()+i.
// A slot holds either a live element handle or nothing (an element that has
// not been materialized yet). Elements are obtained from and returned to an
// external pool through the Context capability; the Manager never builds or
// destroys elements itself.
//
// # Invariants
//
//   - The window is contiguous in data-index space, with no gaps and no reordering.
//   - At most one live element exists per data index.
//   - Every element that leaves the window is passed to Context.RecycleElement
//     exactly once, before its slot is removed.
//
// Add, Insert and EnsureElementRealized grow a non-empty window only by the
// index adjacent to it and fail with INDEX_OUT_OF_RANGE otherwise.
//
// # Dataset Changes
//
// Reconcile keeps the index mapping correct when the backing dataset changes.
// A Mutation is one of Insert, Remove, Replace, Move or Reset:
//
//	m.Reconcile(realize.Insert{At: 5, Count: 2})
//
// Inserts inside the window add empty slots instead of creating elements, so
// nothing is materialized until the next layout pass asks for it.
package realize
