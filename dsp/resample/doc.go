// Package resample provides rational sample-rate conversion using polyphase
// FIR filtering with anti-aliasing defaults.
//
// Quality modes:
//   - QualityFast: lower CPU, lower attenuation
//   - QualityBalanced: default mode
//   - QualityBest: higher attenuation and flatter passband
//
// Common workflows:
//   - NewRational(up, down, opts...)
//   - Resample(input, up, down, opts...)
//
// The pitch shifter (dsp/pitch) uses this package to turn a time-stretched
// signal back to its original duration, which transposes its pitch.
package resample
