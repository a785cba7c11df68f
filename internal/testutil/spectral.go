package testutil

import (
	"testing"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// DominantFrequencyHz returns the frequency of the strongest bin in the
// positive half-spectrum of signal. Resolution is sampleRate/len(signal).
func DominantFrequencyHz(t *testing.T, signal []float64, sampleRate float64) float64 {
	t.Helper()

	plan, err := algofft.NewPlan64(len(signal))
	if err != nil {
		t.Fatalf("failed to create FFT plan: %v", err)
	}

	in := make([]complex128, len(signal))
	for i, v := range signal {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, len(signal))
	if err := plan.Forward(out, in); err != nil {
		t.Fatalf("forward FFT failed: %v", err)
	}

	maxBin := 1
	maxPower := 0.0

	for k := 1; k <= len(signal)/2; k++ {
		re := real(out[k])
		im := imag(out[k])

		power := re*re + im*im
		if power > maxPower {
			maxPower = power
			maxBin = k
		}
	}

	return sampleRate * float64(maxBin) / float64(len(signal))
}

// CenterChunk returns a size-sample slice centered in data.
func CenterChunk(data []float64, size int) []float64 {
	mid := len(data)/2 - size/2
	if mid < 0 {
		mid = 0
	}

	return data[mid : mid+size]
}
