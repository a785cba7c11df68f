package vocoder

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pvoc/dsp/spectrum"
	"github.com/cwbudde/algo-pvoc/dsp/stft"
	"github.com/cwbudde/algo-pvoc/dsp/window"
	"github.com/cwbudde/algo-pvoc/internal/testutil"
)

func TestSynthesisHop(t *testing.T) {
	tests := []struct {
		name        string
		analysisHop int
		factor      float64
		want        int
		wantErr     bool
	}{
		{name: "identity", analysisHop: 256, factor: 1.0, want: 256},
		{name: "double", analysisHop: 256, factor: 2.0, want: 512},
		{name: "half", analysisHop: 256, factor: 0.5, want: 128},
		{name: "rounds to nearest", analysisHop: 256, factor: 1.5, want: 384},
		{name: "rounds fractional", analysisHop: 100, factor: 0.333, want: 33},
		{name: "rounds half up", analysisHop: 2, factor: 1.25, want: 3},
		{name: "zero hop", analysisHop: 0, factor: 1.0, wantErr: true},
		{name: "negative hop", analysisHop: -4, factor: 1.0, wantErr: true},
		{name: "zero factor", analysisHop: 256, factor: 0, wantErr: true},
		{name: "negative factor", analysisHop: 256, factor: -2, wantErr: true},
		{name: "NaN factor", analysisHop: 256, factor: math.NaN(), wantErr: true},
		{name: "Inf factor", analysisHop: 256, factor: math.Inf(1), wantErr: true},
		{name: "factor rounds hop to zero", analysisHop: 256, factor: 0.0001, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SynthesisHop(tt.analysisHop, tt.factor)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SynthesisHop() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && got != tt.want {
				t.Fatalf("SynthesisHop(%d, %f) = %d, want %d", tt.analysisHop, tt.factor, got, tt.want)
			}
		})
	}
}

func TestSynthesizeLengthLaw(t *testing.T) {
	const (
		windowSize  = 1024
		analysisHop = 256
	)

	input := testutil.Sine(440, 44100, 0.8, 8192)

	spec, err := stft.Analyze(input, windowSize, analysisHop)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	for _, factor := range []float64{0.5, 0.75, 1.0, 1.3, 2.0} {
		out, err := Synthesize(spec, analysisHop, factor)
		if err != nil {
			t.Fatalf("Synthesize(%f) error = %v", factor, err)
		}

		hop := int(math.Round(analysisHop * factor))

		want := hop*(spec.Frames()-1) + windowSize
		if len(out) != want {
			t.Fatalf("factor %f: len(out) = %d, want %d", factor, len(out), want)
		}
	}
}

func TestCorrectPreservesMagnitudes(t *testing.T) {
	const (
		windowSize  = 512
		analysisHop = 128
	)

	input := testutil.Noise(5, 0.9, 8192)

	spec, err := stft.Analyze(input, windowSize, analysisHop)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	for _, factor := range []float64{0.5, 1.0, 1.7} {
		hop, err := SynthesisHop(analysisHop, factor)
		if err != nil {
			t.Fatalf("SynthesisHop() error = %v", err)
		}

		corrected, err := Correct(spec, analysisHop, hop)
		if err != nil {
			t.Fatalf("Correct() error = %v", err)
		}

		for u := range spec {
			got := spectrum.Magnitude(corrected[u])
			want := spectrum.Magnitude(spec[u])

			maxDiff, err := testutil.PeakError(got, want)
			if err != nil {
				t.Fatalf("PeakError() error = %v", err)
			}

			if maxDiff > 1e-9 {
				t.Fatalf("factor %f frame %d: magnitude drift %g", factor, u, maxDiff)
			}
		}
	}
}

func TestCorrectSeedsFirstFrameWithItsOwnPhase(t *testing.T) {
	input := testutil.Noise(9, 0.8, 4096)

	spec, err := stft.Analyze(input, 512, 128)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	corrected, err := Correct(spec, 128, 256)
	if err != nil {
		t.Fatalf("Correct() error = %v", err)
	}

	got := spectrum.Phase(corrected[0])
	want := spectrum.Phase(spec[0])

	testutil.RequireNearlyEqual(t, got, want, 1e-9)
}

func TestReconstructionIdentity(t *testing.T) {
	const (
		windowSize  = 1024
		analysisHop = 256
	)

	input := testutil.Sine(440, 44100, 0.8, 8192)

	out, err := TimeStretch(input, windowSize, analysisHop, 1.0)
	if err != nil {
		t.Fatalf("TimeStretch() error = %v", err)
	}

	coeffs := window.Generate(window.TypeHann, windowSize, window.WithPeriodic())

	gains, err := window.SquaredOverlapGain(coeffs, analysisHop)
	if err != nil {
		t.Fatalf("SquaredOverlapGain() error = %v", err)
	}

	// Interior samples see the full window stack; edges are truncated.
	for n := windowSize; n < len(out)-windowSize; n++ {
		got := out[n] / gains[n%analysisHop]
		if math.Abs(got-input[n]) > 1e-6 {
			t.Fatalf("sample %d: got %v, want %v", n, got, input[n])
		}
	}
}

func TestTimeStretchPreservesPitch(t *testing.T) {
	const (
		sampleRate  = 44100.0
		freq        = 440.0
		windowSize  = 1024
		analysisHop = 256
		n           = 44100
	)

	input := testutil.Sine(freq, sampleRate, 0.8, n)

	cases := []struct {
		name   string
		factor float64
	}{
		{name: "double_duration", factor: 2.0},
		{name: "half_duration", factor: 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := TimeStretch(input, windowSize, analysisHop, tc.factor)
			if err != nil {
				t.Fatalf("TimeStretch() error = %v", err)
			}

			testutil.RequireAllFinite(t, out)

			gotRatio := float64(len(out)) / float64(n)
			if math.Abs(gotRatio-tc.factor)/tc.factor > 0.05 {
				t.Fatalf("duration ratio = %f, want ~%f", gotRatio, tc.factor)
			}

			gotFreq := testutil.DominantFrequencyHz(t, testutil.CenterChunk(out, 16384), sampleRate)

			relErr := math.Abs(gotFreq-freq) / freq
			if relErr > 0.03 {
				t.Fatalf("dominant frequency rel err = %f (got %f Hz, want %f Hz)",
					relErr, gotFreq, freq)
			}
		})
	}
}

func TestSynthesizeSilence(t *testing.T) {
	const (
		windowSize  = 1024
		analysisHop = 256
	)

	spec, err := stft.Analyze(testutil.Silence(8192), windowSize, analysisHop)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	out, err := Synthesize(spec, analysisHop, 2.0)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	want := 512*(spec.Frames()-1) + windowSize
	if len(out) != want {
		t.Fatalf("len(out) = %d, want %d", len(out), want)
	}

	testutil.RequireAllFinite(t, out)

	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestSynthesizeErrors(t *testing.T) {
	valid := stft.Spectrogram{make([]complex128, 8), make([]complex128, 8)}
	ragged := stft.Spectrogram{make([]complex128, 8), make([]complex128, 4)}

	tests := []struct {
		name        string
		spec        stft.Spectrogram
		analysisHop int
		factor      float64
	}{
		{name: "empty spectrogram", spec: stft.Spectrogram{}, analysisHop: 4, factor: 1},
		{name: "ragged spectrogram", spec: ragged, analysisHop: 4, factor: 1},
		{name: "zero hop", spec: valid, analysisHop: 0, factor: 1},
		{name: "zero factor", spec: valid, analysisHop: 4, factor: 0},
		{name: "negative factor", spec: valid, analysisHop: 4, factor: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Synthesize(tt.spec, tt.analysisHop, tt.factor); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestResynthesizeValidation(t *testing.T) {
	if _, err := Resynthesize(stft.Spectrogram{}, 256); err == nil {
		t.Fatal("expected error for empty spectrogram")
	}

	if _, err := Resynthesize(stft.Spectrogram{make([]complex128, 8)}, 0); err == nil {
		t.Fatal("expected error for zero synthesis hop")
	}
}
