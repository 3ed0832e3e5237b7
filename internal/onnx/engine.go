package onnx

import (
	"context"
	"errors"
	"fmt"
)

// Graph and node names the pipeline requires from the manifest. The model
// export scripts fix these, so a missing name means a broken bundle rather
// than a configuration choice.
const (
	GraphAcoustic = "acoustic"
	GraphVocoder  = "vocoder"

	InputTokens    = "tokens"
	InputSpec      = "spec"
	OutputSpec     = "spec"
	OutputWaveform = "waveform"
)

// Engine hosts the acoustic and vocoder graphs for one loaded model bundle.
type Engine struct {
	runners map[string]*Runner
}

// NewEngine opens ORT sessions for the two required graphs listed in the
// manifest at manifestPath.
func NewEngine(manifestPath string, cfg RunnerConfig) (*Engine, error) {
	sessions, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	e := &Engine{runners: make(map[string]*Runner, 2)}

	for _, name := range []string{GraphAcoustic, GraphVocoder} {
		meta, ok := sessions[name]
		if !ok {
			e.Close()
			return nil, fmt.Errorf("manifest is missing required graph %q", name)
		}

		runner, err := NewRunner(meta, cfg)
		if err != nil {
			e.Close()
			return nil, err
		}

		e.runners[name] = runner
	}

	return e, nil
}

// SynthesizeSpectrogram runs the acoustic graph on one chunk's token IDs
// (shaped [1, N]) and returns the mel spectrogram tensor from its "spec"
// output. A missing or non-float "spec" output is a hard error.
func (e *Engine) SynthesizeSpectrogram(ctx context.Context, tokens []int64) (*Tensor, error) {
	if len(tokens) == 0 {
		return nil, errors.New("acoustic: token slice must not be empty")
	}

	input, err := NewTensor(tokens, []int64{1, int64(len(tokens))})
	if err != nil {
		return nil, fmt.Errorf("acoustic: build token tensor: %w", err)
	}

	outputs, err := e.runners[GraphAcoustic].Run(ctx, map[string]*Tensor{InputTokens: input})
	if err != nil {
		return nil, fmt.Errorf("acoustic: %w", err)
	}

	spec, ok := outputs[OutputSpec]
	if !ok {
		return nil, fmt.Errorf("acoustic graph produced no %q output", OutputSpec)
	}
	if spec.DType() != DTypeFloat32 {
		return nil, fmt.Errorf("acoustic %q output has dtype %s, want %s", OutputSpec, spec.DType(), DTypeFloat32)
	}

	return spec, nil
}

// Vocode runs the vocoder graph on a spectrogram tensor and returns the
// float32 samples from its "waveform" output. A missing or non-float
// "waveform" output is a hard error.
func (e *Engine) Vocode(ctx context.Context, spec *Tensor) ([]float32, error) {
	if spec == nil {
		return nil, errors.New("vocoder: spectrogram must not be nil")
	}

	outputs, err := e.runners[GraphVocoder].Run(ctx, map[string]*Tensor{InputSpec: spec})
	if err != nil {
		return nil, fmt.Errorf("vocoder: %w", err)
	}

	waveform, ok := outputs[OutputWaveform]
	if !ok {
		return nil, fmt.Errorf("vocoder graph produced no %q output", OutputWaveform)
	}

	samples, err := waveform.Float32Data()
	if err != nil {
		return nil, fmt.Errorf("vocoder %q output: %w", OutputWaveform, err)
	}

	return samples, nil
}

// Close releases all graph sessions. Safe to call multiple times.
func (e *Engine) Close() {
	for _, r := range e.runners {
		r.Close()
	}

	e.runners = map[string]*Runner{}
}
