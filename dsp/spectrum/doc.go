// Package spectrum provides FFT-adjacent spectrum-domain utilities.
//
// The package intentionally does not implement FFT itself. It operates on
// complex spectrum bins produced by external FFT backends and provides the
// magnitude/phase plumbing the phase vocoder is built on (extraction and
// principal-value wrapping), plus one-dimensional phase unwrapping for
// callers inspecting spectra.
package spectrum
