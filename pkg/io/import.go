package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ratiogrid/pkg/errors"
)

// Format names a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatText Format = "text"
)

// Formats lists the supported dataset encodings.
var Formats = []string{string(FormatJSON), string(FormatTOML), string(FormatText)}

// Dataset is a decoded ratio list.
type Dataset struct {
	DefaultRatio float64   `json:"default_ratio,omitempty" toml:"default_ratio,omitempty"`
	Ratios       []float64 `json:"ratios" toml:"ratios"`
}

// Validate checks every ratio and the default ratio if set.
func (d *Dataset) Validate() error {
	if d.DefaultRatio != 0 {
		if err := errors.ValidateRatio(-1, d.DefaultRatio); err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "default ratio must be positive and finite, got %g", d.DefaultRatio)
		}
	}
	return errors.ValidateRatios(d.Ratios)
}

// FormatFromPath picks the format from a file extension. Unknown
// extensions are read as text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	}
	return FormatText
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	if err := errors.ValidateFormat(s, Formats...); err != nil {
		return "", err
	}
	return Format(strings.ToLower(s)), nil
}

// ReadDataset decodes a dataset from r. ReadDataset does not close r.
func ReadDataset(r io.Reader, format Format) (*Dataset, error) {
	var (
		ds  *Dataset
		err error
	)
	switch format {
	case FormatJSON:
		ds, err = readJSON(r)
	case FormatTOML:
		ds, err = readTOML(r)
	case FormatText:
		ds, err = readText(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// ImportDataset reads the dataset file at path.
func ImportDataset(path string) (*Dataset, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ReadDataset(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

func readJSON(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var ds Dataset
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &ds.Ratios)
	} else {
		err = json.Unmarshal(data, &ds)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return &ds, nil
}

func readTOML(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if _, err := toml.NewDecoder(r).Decode(&ds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	return &ds, nil
}

func readText(r io.Reader) (*Dataset, error) {
	var ds Dataset
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		v, err := ParseRatio(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", line)
		}
		ds.Ratios = append(ds.Ratios, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return &ds, nil
}

// ParseRatio parses a ratio written as a number, width:height or
// widthxheight.
func ParseRatio(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, sep := range []string{":", "x", "X"} {
		w, h, ok := strings.Cut(s, sep)
		if !ok {
			continue
		}
		wv, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
		if err != nil {
			return 0, fmt.Errorf("width %q: %w", w, err)
		}
		hv, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
		if err != nil {
			return 0, fmt.Errorf("height %q: %w", h, err)
		}
		if hv == 0 {
			return 0, fmt.Errorf("height of %q is zero", s)
		}
		return wv / hv, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("ratio %q: %w", s, err)
	}
	return v, nil
}
