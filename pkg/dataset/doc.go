// Package dataset provides an observable sequence of item aspect ratios.
//
// A List is the backing collection of a ratio grid: each element is the
// width/height ratio of one item. Every structural change is announced to
// subscribers as a realize.Mutation so a layout can reconcile its realized
// window before the next pass:
//
//	list := dataset.New(dataset.Generate(10000, 1)...)
//	list.Subscribe(func(mu realize.Mutation) {
//	    layout.SetRatios(list.Ratios())
//	    layout.OnItemsChanged(mu)
//	})
//	list.Insert(5, 1.5, 0.75)
package dataset
