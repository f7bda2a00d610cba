package validation

import (
	"errors"
	"math"
	"testing"

	"redline/pkg/models"
)

func TestBBox(t *testing.T) {
	good := models.BBox{X: -5, Y: 0, W: 1, H: 0.5}
	if err := BBox(good); err != nil {
		t.Fatalf("valid bbox rejected: %v", err)
	}
	bad := []models.BBox{
		{W: 0, H: 1},
		{W: 1, H: 0},
		{W: -2, H: 3},
		{X: math.NaN(), W: 1, H: 1},
		{Y: math.Inf(1), W: 1, H: 1},
		{W: math.Inf(-1), H: 1},
	}
	for _, b := range bad {
		if err := BBox(b); !errors.Is(err, ErrInvalid) {
			t.Fatalf("bbox %+v should be invalid, got %v", b, err)
		}
	}
}

func TestRequireIDAndText(t *testing.T) {
	if err := RequireID("x", "ok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RequireID("x", "  "); !errors.Is(err, ErrInvalid) {
		t.Fatalf("whitespace id should be invalid, got %v", err)
	}
	if err := RequireText("x", "\t\n"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("whitespace text should be invalid, got %v", err)
	}
}

func TestStatusAndPriority(t *testing.T) {
	for _, s := range []models.Status{models.StatusOpen, models.StatusResolved, models.StatusObsolete} {
		if err := Status(s); err != nil {
			t.Fatalf("status %q rejected: %v", s, err)
		}
	}
	if err := Status("closed"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("unknown status should be invalid, got %v", err)
	}
	if err := Priority(""); err != nil {
		t.Fatalf("empty priority is optional, got %v", err)
	}
	if err := Priority("urgent"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("unknown priority should be invalid, got %v", err)
	}
}
