// Package io reads and writes ratio datasets and computed bounds tables.
//
// # Dataset Formats
//
// A dataset is a list of item aspect ratios plus an optional default ratio
// for items without one. Three encodings are supported:
//
// JSON, either an object or a bare array:
//
//	{"default_ratio": 1.0, "ratios": [1.5, 0.75, 1.0]}
//	[1.5, 0.75, 1.0]
//
// TOML:
//
//	default_ratio = 1.0
//	ratios = [1.5, 0.75, 1.0]
//
// Text, one ratio per line. Blank lines and lines starting with # are
// skipped. A ratio may also be written as width:height or widthxheight:
//
//	# holiday photos
//	1.5
//	4:3
//	1920x1080
//
// Use [ImportDataset] to read a file (the format follows the extension) or
// [ReadDataset] to read from any io.Reader. Every ratio is validated to be a
// positive finite number.
//
// # Bounds Tables
//
// [Table] is the JSON form of a computed layout: the layout inputs, the row
// count, the total extent and one rectangle per item. [WriteTable] and
// [ReadTable] convert it, and the cache stores tables in this encoding.
package io
