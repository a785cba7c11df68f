package stft

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-pvoc/dsp/spectrum"
)

var (
	// ErrEmptySpectrogram indicates a spectrogram with no frames.
	ErrEmptySpectrogram = errors.New("stft: spectrogram must not be empty")
	// ErrRaggedSpectrogram indicates frames of differing bin counts.
	ErrRaggedSpectrogram = errors.New("stft: spectrogram frames must have equal length")
)

// Spectrogram is an ordered sequence of complex spectra, one per analysis
// frame, insertion order equal to time order. All frames share the same bin
// count, which is also the DFT size.
type Spectrogram [][]complex128

// Frames returns the number of analysis frames.
func (s Spectrogram) Frames() int {
	return len(s)
}

// Bins returns the per-frame bin count, or 0 for an empty spectrogram.
func (s Spectrogram) Bins() int {
	if len(s) == 0 {
		return 0
	}

	return len(s[0])
}

// Magnitudes returns |X[u,k]| for every frame u and bin k.
func (s Spectrogram) Magnitudes() [][]float64 {
	if len(s) == 0 {
		return nil
	}

	out := make([][]float64, len(s))
	for u, bins := range s {
		out[u] = spectrum.Magnitude(bins)
	}

	return out
}

// Validate reports whether the spectrogram is non-empty with uniform,
// non-zero frame lengths.
func (s Spectrogram) Validate() error {
	if len(s) == 0 {
		return ErrEmptySpectrogram
	}

	bins := len(s[0])
	if bins == 0 {
		return fmt.Errorf("%w: frame 0 has no bins", ErrRaggedSpectrogram)
	}

	for u, frame := range s {
		if len(frame) != bins {
			return fmt.Errorf("%w: frame %d has %d bins, want %d",
				ErrRaggedSpectrogram, u, len(frame), bins)
		}
	}

	return nil
}
