// Package wavio reads and writes mono WAV buffers for the command-line tools.
package wavio

import (
	"fmt"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// beep's wav decoder divides raw 16-bit samples by 65535 while its encoder
// scales floats by 32767, so a decoded sample comes back at half the written
// level. Rescale on read so a write/read round trip has unity gain.
const decodeScale = 65535.0 / 32767.0

// ReadMono decodes a WAV file and downmixes it to a mono float64 buffer.
// It returns the samples and the file's sample rate in Hz.
func ReadMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: %w", err)
	}

	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("wavio: decode %s: %w", path, err)
	}
	defer stream.Close()

	out := make([]float64, 0, stream.Len())
	buf := make([][2]float64, 512)

	for {
		n, ok := stream.Stream(buf)
		for i := range n {
			out = append(out, 0.5*(buf[i][0]+buf[i][1])*decodeScale)
		}

		if !ok {
			break
		}
	}

	if err := stream.Err(); err != nil {
		return nil, 0, fmt.Errorf("wavio: stream %s: %w", path, err)
	}

	return out, int(format.SampleRate), nil
}

// WriteMono encodes a mono float64 buffer as a 16-bit WAV file.
func WriteMono(path string, data []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be > 0: %d", sampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 1,
		Precision:   2,
	}

	if err := wav.Encode(f, &monoStreamer{data: data}, format); err != nil {
		f.Close()
		return fmt.Errorf("wavio: encode %s: %w", path, err)
	}

	return f.Close()
}

// monoStreamer streams a mono buffer as a beep source, duplicating the
// channel so the encoder can fold it back to the declared channel count.
type monoStreamer struct {
	data []float64
	pos  int
}

func (s *monoStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}

	n := 0
	for i := range samples {
		if s.pos >= len(s.data) {
			break
		}

		v := clamp(s.data[s.pos])
		samples[i][0] = v
		samples[i][1] = v
		s.pos++
		n++
	}

	return n, true
}

func (s *monoStreamer) Err() error { return nil }

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
