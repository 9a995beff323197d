// Package geom provides the small geometry vocabulary shared by the layout
// and realization packages: points, sizes, rectangles and inclusive index
// ranges.
//
// Coordinates use a top-left origin with y growing downward, which is the
// space both the ratio layout and the viewport queries operate in.
package geom
