package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
)

const twoPi = 2 * math.Pi

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// The square roots run through SIMD-optimized vecmath implementations when
// available (AVX2, SSE2, NEON).
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	re := make([]float64, len(in))
	im := make([]float64, len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	out := make([]float64, len(in))
	vecmath.Magnitude(out, re, im)

	return out
}

// Phase returns arg(X[k]) in radians for each complex spectrum bin.
//
// Zero-magnitude bins report phase 0, the atan2 convention; callers do not
// need to special-case silent bins.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}

	return out
}

// Wrap maps a phase difference into its principal value in (-pi, pi].
func Wrap(x float64) float64 {
	x = math.Mod(x, twoPi)

	switch {
	case x <= -math.Pi:
		x += twoPi
	case x > math.Pi:
		x -= twoPi
	}

	return x
}

// Unwrap returns a new phase slice with +/-2*pi discontinuities removed.
func Unwrap(phase []float64) []float64 {
	if len(phase) == 0 {
		return nil
	}

	out := make([]float64, len(phase))
	out[0] = phase[0]

	offset := 0.0
	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		switch {
		case d > math.Pi:
			offset -= twoPi
		case d < -math.Pi:
			offset += twoPi
		}

		out[i] = phase[i] + offset
	}

	return out
}
