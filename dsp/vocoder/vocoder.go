package vocoder

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pvoc/dsp/spectrum"
	"github.com/cwbudde/algo-pvoc/dsp/stft"
	"github.com/cwbudde/algo-pvoc/dsp/window"
)

type config struct {
	windowType window.Type
}

// Option configures synthesis.
type Option func(*config)

// WithWindowType sets the synthesis window shape. It must match the window
// used at analysis time for the overlap to reconstitute a constant gain.
// Default is the Hann window.
func WithWindowType(t window.Type) Option {
	return func(cfg *config) {
		cfg.windowType = t
	}
}

func applyOptions(opts []Option) config {
	cfg := config{windowType: window.TypeHann}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// SynthesisHop returns round(analysisHop * scaleFactor).
//
// Nearest-integer rounding is the documented policy; a factor small enough to
// round the hop to zero is an error rather than a silent clamp.
func SynthesisHop(analysisHop int, scaleFactor float64) (int, error) {
	if analysisHop <= 0 {
		return 0, fmt.Errorf("vocoder: analysis hop must be > 0: %d", analysisHop)
	}

	if math.IsNaN(scaleFactor) || math.IsInf(scaleFactor, 0) || scaleFactor <= 0 {
		return 0, fmt.Errorf("vocoder: scale factor must be positive and finite: %f", scaleFactor)
	}

	hop := int(math.Round(float64(analysisHop) * scaleFactor))
	if hop <= 0 {
		return 0, fmt.Errorf("vocoder: scale factor %f rounds analysis hop %d to zero", scaleFactor, analysisHop)
	}

	return hop, nil
}

// Correct returns a copy of spec with every bin's phase replaced by the
// accumulated synthesis phase for the given hop pair. Magnitudes are
// preserved exactly.
//
// Per bin k the instantaneous frequency is estimated from the measured phase
// drift between consecutive frames, with the nominal bin frequency
// 2*pi*k/bins removed before wrapping into (-pi, pi] and restored after.
// Frame 0 keeps its own measured phase and seeds the accumulator; each later
// frame advances the accumulator by synthesisHop times the estimate. The
// accumulation is a running prefix sum over frames, sequential per bin and
// independent across bins.
func Correct(spec stft.Spectrogram, analysisHop, synthesisHop int) (stft.Spectrogram, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	if analysisHop <= 0 {
		return nil, fmt.Errorf("vocoder: analysis hop must be > 0: %d", analysisHop)
	}

	if synthesisHop <= 0 {
		return nil, fmt.Errorf("vocoder: synthesis hop must be > 0: %d", synthesisHop)
	}

	bins := spec.Bins()
	analysisHopF := float64(analysisHop)
	synthesisHopF := float64(synthesisHop)

	omega := make([]float64, bins)
	for k := range omega {
		omega[k] = 2 * math.Pi * float64(k) / float64(bins)
	}

	prevPhase := make([]float64, bins)
	sumPhase := make([]float64, bins)
	out := make(stft.Spectrogram, spec.Frames())

	for u, frame := range spec {
		magnitudes := spectrum.Magnitude(frame)
		phases := spectrum.Phase(frame)

		corrected := make([]complex128, bins)
		for k := range bins {
			if u == 0 {
				sumPhase[k] = phases[k]
			} else {
				delta := spectrum.Wrap(phases[k] - prevPhase[k] - analysisHopF*omega[k])
				instFreq := omega[k] + delta/analysisHopF
				sumPhase[k] += synthesisHopF * instFreq
			}

			prevPhase[k] = phases[k]
			corrected[k] = cmplx.Rect(magnitudes[k], sumPhase[k])
		}

		out[u] = corrected
	}

	return out, nil
}

// Resynthesize inverse-transforms every frame of spec, windows the real part
// with the periodic synthesis window, and overlap-adds the frames at
// synthesisHop. The output has length synthesisHop*(frames-1) + bins.
func Resynthesize(spec stft.Spectrogram, synthesisHop int, opts ...Option) ([]float64, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	if synthesisHop <= 0 {
		return nil, fmt.Errorf("vocoder: synthesis hop must be > 0: %d", synthesisHop)
	}

	cfg := applyOptions(opts)
	bins := spec.Bins()

	plan, err := algofft.NewPlan64(bins)
	if err != nil {
		return nil, fmt.Errorf("vocoder: failed to create FFT plan: %w", err)
	}

	coeffs := window.Generate(cfg.windowType, bins, window.WithPeriodic())
	timeFrame := make([]complex128, bins)
	frameOut := make([]float64, bins)
	out := make([]float64, synthesisHop*(spec.Frames()-1)+bins)

	for u, frame := range spec {
		err := plan.Inverse(timeFrame, frame)
		if err != nil {
			return nil, fmt.Errorf("vocoder: inverse FFT failed at frame %d: %w", u, err)
		}

		for i, v := range timeFrame {
			frameOut[i] = real(v)
		}

		vecmath.MulBlockInPlace(frameOut, coeffs)

		start := u * synthesisHop
		vecmath.AddBlockInPlace(out[start:start+bins], frameOut)
	}

	return out, nil
}

// Synthesize resynthesizes spec at a new duration.
//
// The spectrogram must have been produced with the given analysisHop; the
// output duration scales by scaleFactor relative to the analyzed signal.
func Synthesize(spec stft.Spectrogram, analysisHop int, scaleFactor float64, opts ...Option) ([]float64, error) {
	synthesisHop, err := SynthesisHop(analysisHop, scaleFactor)
	if err != nil {
		return nil, err
	}

	corrected, err := Correct(spec, analysisHop, synthesisHop)
	if err != nil {
		return nil, err
	}

	return Resynthesize(corrected, synthesisHop, opts...)
}

// TimeStretch analyzes signal and resynthesizes it scaled by scaleFactor,
// preserving pitch. It is the analyze-then-synthesize convenience chain.
func TimeStretch(signal []float64, windowSize, analysisHop int, scaleFactor float64, opts ...Option) ([]float64, error) {
	cfg := applyOptions(opts)

	spec, err := stft.Analyze(signal, windowSize, analysisHop, stft.WithWindowType(cfg.windowType))
	if err != nil {
		return nil, err
	}

	return Synthesize(spec, analysisHop, scaleFactor, opts...)
}
