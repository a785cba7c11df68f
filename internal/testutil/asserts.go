package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireNearlyEqual fails t unless got and want agree elementwise within an
// absolute tolerance of eps.
func RequireNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}

	for i := range got {
		if d := math.Abs(got[i] - want[i]); d > eps {
			t.Fatalf("sample %d: got %v, want %v (off by %v)", i, got[i], want[i], d)
		}
	}
}

// RequireAllFinite fails t if data contains a NaN or an infinity.
func RequireAllFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d is %v", i, v)
		}
	}
}

// PeakError returns the largest absolute elementwise difference between a and
// b, which must have equal length.
func PeakError(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("testutil: length mismatch: %d vs %d", len(a), len(b))
	}

	peak := 0.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > peak {
			peak = d
		}
	}

	return peak, nil
}
