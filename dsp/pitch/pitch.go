package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pvoc/dsp/resample"
	"github.com/cwbudde/algo-pvoc/dsp/vocoder"
	"github.com/cwbudde/algo-pvoc/dsp/window"
)

const (
	semitonesPerOctave = 12.0

	defaultFrameSize   = 1024
	defaultAnalysisHop = 256

	minRatio    = 0.25
	maxRatio    = 4.0
	identityEps = 1e-9
)

// Ratio converts a semitone offset to a frequency ratio, 2^(n/12).
func Ratio(semitones float64) float64 {
	return math.Pow(2, semitones/semitonesPerOctave)
}

// Semitones converts a frequency ratio to a semitone offset.
func Semitones(ratio float64) float64 {
	return semitonesPerOctave * math.Log2(ratio)
}

// Shifter transposes mono signals by a frequency ratio.
//
// It is one-shot buffer oriented and not safe for concurrent use.
type Shifter struct {
	ratio           float64
	frameSize       int
	analysisHop     int
	windowType      window.Type
	resampleQuality resample.Quality
}

// NewShifter creates a pitch shifter with default frame settings and a
// ratio of 1 (identity).
func NewShifter() *Shifter {
	return &Shifter{
		ratio:           1,
		frameSize:       defaultFrameSize,
		analysisHop:     defaultAnalysisHop,
		windowType:      window.TypeHann,
		resampleQuality: resample.QualityBalanced,
	}
}

// PitchRatio returns the requested pitch-shift ratio.
func (s *Shifter) PitchRatio() float64 { return s.ratio }

// PitchSemitones returns the requested pitch shift in semitones.
func (s *Shifter) PitchSemitones() float64 { return Semitones(s.ratio) }

// EffectiveRatio returns the realized ratio, quantized to
// synthesisHop/analysisHop by hop rounding.
func (s *Shifter) EffectiveRatio() float64 {
	hop, err := vocoder.SynthesisHop(s.analysisHop, s.ratio)
	if err != nil {
		return s.ratio
	}

	return float64(hop) / float64(s.analysisHop)
}

// FrameSize returns the analysis frame size in samples.
func (s *Shifter) FrameSize() int { return s.frameSize }

// AnalysisHop returns the analysis hop size in samples.
func (s *Shifter) AnalysisHop() int { return s.analysisHop }

// ResampleQuality returns the quality mode used during duration correction.
func (s *Shifter) ResampleQuality() resample.Quality { return s.resampleQuality }

// SetRatio updates the pitch-shift ratio. ratio must be in [0.25, 4].
func (s *Shifter) SetRatio(ratio float64) error {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio < minRatio || ratio > maxRatio {
		return fmt.Errorf("pitch ratio must be in [%f, %f]: %f", minRatio, maxRatio, ratio)
	}

	s.ratio = ratio

	return nil
}

// SetSemitones updates the pitch shift in semitones.
func (s *Shifter) SetSemitones(semitones float64) error {
	if math.IsNaN(semitones) || math.IsInf(semitones, 0) {
		return fmt.Errorf("pitch semitones must be finite: %f", semitones)
	}

	err := s.SetRatio(Ratio(semitones))
	if err != nil {
		return fmt.Errorf("pitch semitones out of range: %w", err)
	}

	return nil
}

// SetFrameSize updates the analysis frame size.
func (s *Shifter) SetFrameSize(size int) error {
	if size < 2 {
		return fmt.Errorf("pitch frame size must be >= 2: %d", size)
	}

	s.frameSize = size
	if s.analysisHop >= size {
		s.analysisHop = size / 4
	}

	return nil
}

// SetAnalysisHop updates the analysis hop size in samples.
func (s *Shifter) SetAnalysisHop(hop int) error {
	if hop <= 0 || hop >= s.frameSize {
		return fmt.Errorf("pitch analysis hop must be in [1, %d): %d", s.frameSize, hop)
	}

	s.analysisHop = hop

	return nil
}

// SetWindowType updates the analysis/synthesis window shape.
func (s *Shifter) SetWindowType(t window.Type) {
	s.windowType = t
}

// SetResampleQuality updates the duration-correction resampling quality mode.
func (s *Shifter) SetResampleQuality(q resample.Quality) {
	s.resampleQuality = q
}

// Process transposes input by the configured ratio.
//
// The returned slice has the same length as input: the tail lost to frame
// truncation is zero-padded. The input must hold at least one analysis frame.
func (s *Shifter) Process(input []float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, nil
	}

	if math.Abs(s.ratio-1) <= identityEps {
		out := make([]float64, len(input))
		copy(out, input)

		return out, nil
	}

	synthesisHop, err := vocoder.SynthesisHop(s.analysisHop, s.ratio)
	if err != nil {
		return nil, err
	}

	stretched, err := vocoder.TimeStretch(input, s.frameSize, s.analysisHop, s.ratio,
		vocoder.WithWindowType(s.windowType))
	if err != nil {
		return nil, err
	}

	// Playing the stretched signal back at rate * ratio is the same as
	// resampling it by analysisHop/synthesisHop at the original rate.
	shifted, err := resample.Resample(stretched, s.analysisHop, synthesisHop,
		resample.WithQuality(s.resampleQuality))
	if err != nil {
		return nil, fmt.Errorf("pitch: duration correction failed: %w", err)
	}

	return fitLength(shifted, len(input)), nil
}

func fitLength(in []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, in)

	return out
}
