package resample

import (
	"errors"
	"fmt"
	"math"
)

// designPolyphaseFIR builds a Kaiser-windowed sinc lowpass and splits it into
// up polyphase branches. The prototype is normalized so each branch has unity
// DC gain after interleaving.
func designPolyphaseFIR(up, down int, cfg config) ([][]float64, int, error) {
	if cfg.tapsPerPhase <= 0 {
		return nil, 0, errors.New("resample: taps per phase must be > 0")
	}

	nTaps := cfg.tapsPerPhase * up

	cutoff := (0.5 / float64(max(up, down))) * cfg.cutoffScale
	if cutoff <= 0 || cutoff >= 0.5 {
		return nil, 0, fmt.Errorf("resample: invalid cutoff %.6f", cutoff)
	}

	taps := make([]float64, nTaps)
	center := 0.5 * float64(nTaps-1)

	var sum float64

	for n := range nTaps {
		t := float64(n) - center
		taps[n] = 2 * cutoff * sinc(2*cutoff*t) * kaiserAt(n, nTaps, cfg.kaiserBeta)
		sum += taps[n]
	}

	if sum == 0 {
		return nil, 0, errors.New("resample: designed zero-sum filter")
	}

	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}

	phases := make([][]float64, up)
	longest := 0

	for p := range up {
		branch := make([]float64, 0, (nTaps-p+up-1)/up)
		for i := p; i < nTaps; i += up {
			branch = append(branch, taps[i])
		}

		if len(branch) > longest {
			longest = len(branch)
		}

		phases[p] = branch
	}

	return phases, longest, nil
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}

	if b < 0 {
		b = -b
	}

	for b != 0 {
		a, b = b, a%b
	}

	if a == 0 {
		return 1
	}

	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	pix := math.Pi * x

	return math.Sin(pix) / pix
}

func kaiserAt(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1
	arg := math.Sqrt(math.Max(0, 1-t*t))

	return besselI0(beta*arg) / besselI0(beta)
}

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
