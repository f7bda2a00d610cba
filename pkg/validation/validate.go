package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"redline/pkg/models"
)

// ErrInvalid is the sentinel wrapped by every validation failure. Callers
// test with errors.Is.
var ErrInvalid = errors.New("invalid input")

// RequireID checks that an identifier field is non-blank.
func RequireID(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required: %w", field, ErrInvalid)
	}
	return nil
}

// RequireText checks that a free-text field is non-blank.
func RequireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s must not be empty: %w", field, ErrInvalid)
	}
	return nil
}

// BBox rejects region rectangles containing NaN or infinite coordinates and
// non-positive extents. The engine otherwise takes regions at face value;
// coordinate-space sanity is a viewer concern.
func BBox(b models.BBox) error {
	for _, v := range [...]float64{b.X, b.Y, b.W, b.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("bbox values must be finite: %w", ErrInvalid)
		}
	}
	if b.W <= 0 || b.H <= 0 {
		return fmt.Errorf("bbox extents must be positive: %w", ErrInvalid)
	}
	return nil
}

// Status checks the status enum.
func Status(s models.Status) error {
	if !s.Valid() {
		return fmt.Errorf("unknown status %q: %w", s, ErrInvalid)
	}
	return nil
}

// Priority checks the optional priority enum.
func Priority(p models.Priority) error {
	if !p.Valid() {
		return fmt.Errorf("unknown priority %q: %w", p, ErrInvalid)
	}
	return nil
}
