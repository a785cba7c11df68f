// Package vocoder provides phase-coherent time-scale modification of a
// spectrogram produced by dsp/stft.
//
// Synthesize recomputes per-frame per-bin phase from the measured
// frame-to-frame phase drift, so that inverse transforms overlap-added at a
// different hop size reconstruct a time-stretched or compressed signal
// without phase smearing. Spectral magnitudes pass through untouched.
//
// The synthesis hop is round(analysisHop * scaleFactor); fractional hops are
// not supported and round to the nearest integer. Output amplitude is not
// normalized: the summed squared-window gain of the overlap (see
// window.SquaredOverlapGain) is left in place for the caller to rescale or
// clip as needed.
package vocoder
