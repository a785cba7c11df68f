// Package testutil provides deterministic signal sources and numeric asserts
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine returns amplitude*sin(2*pi*freqHz*i/sampleRate) for i in [0, n).
func Sine(freqHz, sampleRate, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freqHz*float64(i)/sampleRate)
	}

	return out
}

// Noise returns seeded uniform white noise in [-amplitude, amplitude]. The
// same seed always yields the same buffer.
func Noise(seed int64, amplitude float64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))

	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}

	return out
}

// Silence returns n zero samples.
func Silence(n int) []float64 {
	return make([]float64, n)
}
