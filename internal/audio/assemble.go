// Package audio holds the sample-domain half of the pipeline: gap-padded
// concatenation of per-chunk buffers, WAV encode/decode at the fixed
// output format, and optional post-processing hooks.
package audio

import (
	"errors"
	"fmt"
	"math"
)

// Fixed output format of the vocoder graph. The sample rate is part of the
// model contract and is never negotiated at runtime.
const (
	SampleRate = 22050
	Channels   = 1
	BitDepth   = 16
)

// DefaultGapMS is the default inter-chunk silence duration in milliseconds.
// It keeps consecutive sentences from running together after segmentation.
const DefaultGapMS = 300

// ErrNoBuffers is returned by Assemble when there is nothing to concatenate.
var ErrNoBuffers = errors.New("no sample buffers to assemble")

// GapSamples converts a silence duration in milliseconds to a sample count
// at the fixed output rate.
func GapSamples(ms int) int {
	return int(math.Round(float64(SampleRate) * float64(ms) / 1000.0))
}

// Assemble concatenates the ordered per-chunk buffers into one waveform,
// leaving gapSamples of silence between consecutive buffers. The output
// length is the sum of all buffer lengths plus (n-1)*gapSamples.
func Assemble(buffers [][]float32, gapSamples int) ([]float32, error) {
	if len(buffers) == 0 {
		return nil, ErrNoBuffers
	}
	if gapSamples < 0 {
		return nil, fmt.Errorf("negative gap of %d samples", gapSamples)
	}

	total := (len(buffers) - 1) * gapSamples
	for _, buf := range buffers {
		total += len(buf)
	}

	// The gap regions are never written: make zero-initializes the slice,
	// which is exactly the silence we need.
	out := make([]float32, total)

	offset := 0
	for i, buf := range buffers {
		copy(out[offset:], buf)
		offset += len(buf)

		if i < len(buffers)-1 {
			offset += gapSamples
		}
	}

	return out, nil
}
