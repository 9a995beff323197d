package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/geom"
)

// WriteDataset encodes ds to w in the given format.
func WriteDataset(ds *Dataset, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ds); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(ds); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatText:
		for _, r := range ds.Ratios {
			if _, err := io.WriteString(w, strconv.FormatFloat(r, 'g', -1, 64)+"\n"); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
	}
	return nil
}

// ExportDataset writes ds to path in the format of its extension.
func ExportDataset(ds *Dataset, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDataset(ds, f, FormatFromPath(path))
}

// Item is one rectangle of a Table.
type Item struct {
	Index  int     `json:"index"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect converts the item back to a rectangle.
func (it Item) Rect() geom.Rect {
	return geom.NewRect(it.X, it.Y, it.Width, it.Height)
}

// Table is a computed bounds table for the first Items items.
type Table struct {
	Width         float64 `json:"width"`
	MinItemHeight float64 `json:"min_item_height"`
	ColumnSpacing float64 `json:"column_spacing"`
	RowSpacing    float64 `json:"row_spacing"`
	Rows          int     `json:"rows"`
	Extent        float64 `json:"extent"`
	Items         []Item  `json:"items"`
}

// Rects returns the item rectangles in index order.
func (t *Table) Rects() []geom.Rect {
	out := make([]geom.Rect, len(t.Items))
	for i, it := range t.Items {
		out[i] = it.Rect()
	}
	return out
}

// NewItems converts the first n rectangles of bounds.
func NewItems(bounds []geom.Rect, n int) []Item {
	n = min(n, len(bounds))
	items := make([]Item, n)
	for i := range items {
		b := bounds[i]
		items[i] = Item{Index: i, X: b.Left(), Y: b.Top(), Width: b.Width(), Height: b.Height()}
	}
	return items
}

// WriteTable encodes t as indented JSON.
func WriteTable(t *Table, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadTable decodes a JSON table.
func ReadTable(r io.Reader) (*Table, error) {
	var t Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode table")
	}
	return &t, nil
}

// WriteTableFile writes t as JSON to path.
func WriteTableFile(t *Table, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTable(t, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadTableFile reads a JSON table from path.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "table %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTable(f)
}
