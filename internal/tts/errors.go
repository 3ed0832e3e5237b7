package tts

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying which pipeline stage failed. A Generate call
// returns exactly one waveform or exactly one of these (wrapped with
// context); there is no partial output.
var (
	// ErrEmptyInput is returned when the whole input is blank or a chunk
	// encodes to fewer than MinTokens tokens.
	ErrEmptyInput = errors.New("input produced no usable tokens")

	// ErrSpecGeneration is returned when the acoustic stage does not
	// produce a usable spectrogram.
	ErrSpecGeneration = errors.New("spectrogram generation failed")

	// ErrWaveformGeneration is returned when the vocoder stage does not
	// produce usable samples.
	ErrWaveformGeneration = errors.New("waveform generation failed")

	// ErrBufferCreation is returned when the assembled output buffer
	// cannot be created.
	ErrBufferCreation = errors.New("output buffer creation failed")
)

// InputTooLongError reports a chunk whose token count exceeds the model
// ceiling even after exhausting every segmentation fallback. The only way
// to produce one is a single word longer than the budget.
type InputTooLongError struct {
	Tokens int
	Max    int
}

func (e *InputTooLongError) Error() string {
	return fmt.Sprintf("chunk encodes to %d tokens, exceeding the %d-token ceiling", e.Tokens, e.Max)
}
