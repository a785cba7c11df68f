package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeKaiser
)

// Cosine-sum coefficients, evaluated as sum(c[k] * cos(k * 2*pi*x)).
var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

var typeNames = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
	TypeKaiser:      "kaiser",
}

// String returns the lowercase name of the window type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("window.Type(%d)", int(t))
}

// ParseType resolves a window name as accepted on command lines.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}

	return TypeRectangular, fmt.Errorf("unknown window type: %q", name)
}

const defaultKaiserBeta = 8.6

type config struct {
	periodic bool
	beta     float64
}

// Option configures window generation.
type Option func(*config)

// WithPeriodic selects the periodic (FFT framing) form instead of the
// symmetric form. Overlap-added analysis/synthesis requires the periodic form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// WithBeta sets the Kaiser shape parameter. Ignored by other window types.
func WithBeta(beta float64) Option {
	return func(c *config) {
		if beta >= 0 {
			c.beta = beta
		}
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := config{beta: defaultKaiserBeta}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	den := float64(length - 1)
	if cfg.periodic {
		den = float64(length)
	}

	out := make([]float64, length)

	if length == 1 {
		out[0] = evalAt(t, 0, cfg)
		return out
	}

	for n := range out {
		out[n] = evalAt(t, float64(n)/den, cfg)
	}

	return out
}

func evalAt(t Type, x float64, cfg config) float64 {
	switch t {
	case TypeHann:
		return cosineSum(x, hannCoeffs)
	case TypeHamming:
		return cosineSum(x, hammingCoeffs)
	case TypeBlackman:
		return cosineSum(x, blackmanCoeffs)
	case TypeKaiser:
		return kaiserAt(x, cfg.beta)
	default:
		return 1
	}
}

func cosineSum(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func kaiserAt(x, beta float64) float64 {
	if beta <= 0 {
		return 1
	}

	r := 2*x - 1
	arg := math.Sqrt(math.Max(0, 1-r*r))

	return besselI0(beta*arg) / besselI0(beta)
}

// besselI0 approximates the modified Bessel function I0 via its power series.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0

	x2 := x * x / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)

		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// Hamming returns Hamming window coefficients.
func Hamming(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHamming, size, opts...), validateLength(size)
}

// Blackman returns Blackman window coefficients.
func Blackman(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeBlackman, size, opts...), validateLength(size)
}

// Kaiser returns Kaiser window coefficients.
func Kaiser(size int, beta float64, opts ...Option) ([]float64, error) {
	if size <= 0 || beta < 0 {
		return nil, validateKaiser(size, beta)
	}

	return Generate(TypeKaiser, size, append(opts, WithBeta(beta))...), nil
}

// ApplyCoefficients multiplies samples with coefficients and returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a window.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	sumSquares := 0.0

	for _, c := range coeffs {
		sum += c
		sumSquares += c * c
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}

// SquaredOverlapGain returns the summed squared-window gain at each of the
// hop offsets 0..hop-1, for frames advanced by hop samples.
//
// For windows satisfying the constant-overlap-add property the returned
// values are all equal; that constant is the gain an analysis/synthesis
// round trip applies to the interior of a signal.
func SquaredOverlapGain(coeffs []float64, hop int) ([]float64, error) {
	if len(coeffs) == 0 {
		return nil, errEmptyCoeffs
	}

	if hop <= 0 || hop > len(coeffs) {
		return nil, fmt.Errorf("overlap hop must be in [1, %d]: %d", len(coeffs), hop)
	}

	out := make([]float64, hop)
	for offset := range out {
		for i := offset; i < len(coeffs); i += hop {
			out[offset] += coeffs[i] * coeffs[i]
		}
	}

	return out, nil
}
