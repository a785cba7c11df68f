// Package pitch provides pitch shifting built on the phase vocoder.
//
// A shift by ratio r time-stretches the signal by r with dsp/vocoder, then
// resamples the stretched signal by analysisHop/synthesisHop so the original
// duration is restored and the pitch moves by r. The vocoder itself is
// unaware of semitones or sample rates; Ratio and Semitones convert between
// the two conventions.
package pitch
