// Package stft provides the forward short-time Fourier transform.
//
// Analyze slices a signal into fixed-size overlapping frames, applies an
// analysis window in its periodic form, and computes one complex spectrum per
// frame. The resulting Spectrogram is the only artifact handed to the
// synthesis side (dsp/vocoder).
//
// Frames are mutually independent; the transform is deterministic and free of
// side effects.
package stft
