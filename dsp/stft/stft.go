package stft

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pvoc/dsp/window"
)

type config struct {
	windowType window.Type
}

// Option configures an Analyzer.
type Option func(*config)

// WithWindowType sets the analysis window shape. The periodic form is always
// used so that overlap-added frames reconstitute a constant gain. Default is
// the Hann window.
func WithWindowType(t window.Type) Option {
	return func(cfg *config) {
		cfg.windowType = t
	}
}

func defaultConfig() config {
	return config{windowType: window.TypeHann}
}

// Analyzer computes short-time spectra with a reusable FFT plan and window.
//
// An Analyzer is one-shot buffer oriented and not safe for concurrent use;
// create one per goroutine if frames are analyzed in parallel.
type Analyzer struct {
	windowSize int
	hop        int
	windowType window.Type

	coeffs []float64
	plan   *algofft.Plan[complex128]

	windowed  []float64
	timeFrame []complex128
}

// NewAnalyzer creates an analyzer for the given window size and analysis hop.
//
// windowSize and analysisHop must be positive. A power-of-two windowSize is
// recommended for transform efficiency but not required.
func NewAnalyzer(windowSize, analysisHop int, opts ...Option) (*Analyzer, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("stft: window size must be > 0: %d", windowSize)
	}

	if analysisHop <= 0 {
		return nil, fmt.Errorf("stft: analysis hop must be > 0: %d", analysisHop)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	plan, err := algofft.NewPlan64(windowSize)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}

	return &Analyzer{
		windowSize: windowSize,
		hop:        analysisHop,
		windowType: cfg.windowType,
		coeffs:     window.Generate(cfg.windowType, windowSize, window.WithPeriodic()),
		plan:       plan,
		windowed:   make([]float64, windowSize),
		timeFrame:  make([]complex128, windowSize),
	}, nil
}

// WindowSize returns the frame length in samples, which equals the DFT size.
func (a *Analyzer) WindowSize() int { return a.windowSize }

// AnalysisHop returns the hop between consecutive frame starts in samples.
func (a *Analyzer) AnalysisHop() int { return a.hop }

// WindowType returns the analysis window shape.
func (a *Analyzer) WindowType() window.Type { return a.windowType }

// WindowCoefficients returns a copy of the periodic window coefficients.
func (a *Analyzer) WindowCoefficients() []float64 {
	out := make([]float64, len(a.coeffs))
	copy(out, a.coeffs)

	return out
}

// FrameCount returns the number of frames Analyze produces for a signal of
// the given length. A trailing partial frame is dropped, never padded.
func (a *Analyzer) FrameCount(signalLen int) int {
	return FrameCount(signalLen, a.windowSize, a.hop)
}

// Analyze computes the spectrogram of signal.
//
// Frame u covers signal[u*hop : u*hop+windowSize], windowed and transformed
// with the standard forward sign convention. The signal must hold at least
// one full window.
func (a *Analyzer) Analyze(signal []float64) (Spectrogram, error) {
	if len(signal) < a.windowSize {
		return nil, fmt.Errorf("stft: signal length %d shorter than window size %d",
			len(signal), a.windowSize)
	}

	frames := a.FrameCount(len(signal))
	out := make(Spectrogram, frames)

	for u := range frames {
		start := u * a.hop

		vecmath.MulBlock(a.windowed, signal[start:start+a.windowSize], a.coeffs)
		for i, v := range a.windowed {
			a.timeFrame[i] = complex(v, 0)
		}

		bins := make([]complex128, a.windowSize)

		err := a.plan.Forward(bins, a.timeFrame)
		if err != nil {
			return nil, fmt.Errorf("stft: forward FFT failed at frame %d: %w", u, err)
		}

		out[u] = bins
	}

	return out, nil
}

// Analyze is a one-shot helper constructing an Analyzer for a single signal.
func Analyze(signal []float64, windowSize, analysisHop int, opts ...Option) (Spectrogram, error) {
	a, err := NewAnalyzer(windowSize, analysisHop, opts...)
	if err != nil {
		return nil, err
	}

	return a.Analyze(signal)
}

// FrameCount returns floor((signalLen - windowSize) / analysisHop), the
// number of complete frames in a signal; negative results clamp to 0.
func FrameCount(signalLen, windowSize, analysisHop int) int {
	if analysisHop <= 0 || signalLen < windowSize {
		return 0
	}

	return (signalLen - windowSize) / analysisHop
}
