package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateRatio checks that an aspect ratio is a positive finite number.
func ValidateRatio(index int, ratio float64) error {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return New(ErrCodeInvalidInput, "ratio %d is not finite", index)
	}
	if ratio <= 0 {
		return New(ErrCodeInvalidInput, "ratio %d must be positive, got %g", index, ratio)
	}
	return nil
}

// ValidateRatios checks every ratio in the sequence.
func ValidateRatios(ratios []float64) error {
	for i, r := range ratios {
		if err := ValidateRatio(i, r); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLayoutInput validates the scalar inputs of a ratio layout.
//
// The rules are:
//   - minItemHeight must be positive
//   - spacings must be non-negative
//   - width must be positive
//   - every value must be finite
func ValidateLayoutInput(minItemHeight, columnSpacing, rowSpacing, width float64) error {
	for name, v := range map[string]float64{
		"min item height": minItemHeight,
		"column spacing":  columnSpacing,
		"row spacing":     rowSpacing,
		"width":           width,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "%s is not finite", name)
		}
	}
	if minItemHeight <= 0 {
		return New(ErrCodeInvalidInput, "min item height must be positive, got %g", minItemHeight)
	}
	if columnSpacing < 0 || rowSpacing < 0 {
		return New(ErrCodeInvalidInput, "spacing cannot be negative")
	}
	if width <= 0 {
		return New(ErrCodeInvalidInput, "width must be positive, got %g", width)
	}
	return nil
}

// ValidatePath validates a file path given to the CLI or API.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateFormat checks a dataset format name against the supported set.
func ValidateFormat(format string, supported ...string) error {
	for _, s := range supported {
		if strings.EqualFold(format, s) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (must be one of: %s)", format, strings.Join(supported, ", "))
}
