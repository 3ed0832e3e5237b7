// Package tts orchestrates the synthesis pipeline: input normalization,
// token-bounded segmentation, per-chunk two-stage inference, and gap-padded
// assembly of the final waveform.
package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/example/go-otosaku-tts/internal/audio"
	"github.com/example/go-otosaku-tts/internal/config"
	"github.com/example/go-otosaku-tts/internal/onnx"
	"github.com/example/go-otosaku-tts/internal/text"
	"github.com/example/go-otosaku-tts/internal/tokenizer"
)

// Token bounds of the acoustic model's admissible input. Chunks outside
// this range are rejected before any inference runs.
const (
	MinTokens = 2
	MaxTokens = 240
)

// Service runs the full text-to-waveform pipeline for one model bundle.
type Service struct {
	tok         tokenizer.Tokenizer
	segmenter   *text.Segmenter
	inference   Inference
	gapSamples  int
	concurrency int
}

// NewService loads the tokenizer and the two inference graphs from cfg and
// returns a ready pipeline. Callers own the returned Service and must
// Close it.
func NewService(cfg config.Config) (*Service, error) {
	tok, err := tokenizer.NewSentencePieceTokenizer(cfg.Paths.TokenizerModel)
	if err != nil {
		return nil, fmt.Errorf("initialize tokenizer: %w", err)
	}

	engine, err := onnx.NewEngine(cfg.Paths.ONNXManifest, onnx.RunnerConfig{
		LibraryPath: cfg.Runtime.ORTLibraryPath,
		APIVersion:  cfg.Runtime.ORTAPIVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize inference engine: %w", err)
	}

	return newService(tok, newONNXInference(engine), cfg.TTS.GapMS, cfg.TTS.Concurrency), nil
}

// newService wires a Service from already-constructed collaborators.
// Tests use it to inject deterministic fakes.
func newService(tok tokenizer.Tokenizer, inference Inference, gapMS, concurrency int) *Service {
	if gapMS <= 0 {
		gapMS = audio.DefaultGapMS
	}
	if concurrency < 1 {
		concurrency = 1
	}

	return &Service{
		tok:         tok,
		segmenter:   text.NewSegmenter(tok, MaxTokens),
		inference:   inference,
		gapSamples:  audio.GapSamples(gapMS),
		concurrency: concurrency,
	}
}

// Close releases the inference sessions.
func (s *Service) Close() {
	if s.inference != nil {
		s.inference.Close()
	}
}

// Generate turns input text into one mono float32 waveform at 22050 Hz.
//
// The call is all-or-nothing: if any chunk fails, the whole call fails and
// no partial waveform is returned.
func (s *Service) Generate(ctx context.Context, input string) ([]float32, error) {
	normalized, err := text.Normalize(input)
	if err != nil {
		if errors.Is(err, text.ErrEmptyText) {
			return nil, fmt.Errorf("%w: input is blank", ErrEmptyInput)
		}

		return nil, err
	}

	chunks, err := s.segmenter.Segment(normalized)
	if err != nil {
		return nil, fmt.Errorf("segment input: %w", err)
	}

	slog.Debug("input segmented", "chunks", len(chunks), "concurrency", s.concurrency)

	buffers, err := s.synthesizeAll(ctx, chunks)
	if err != nil {
		return nil, err
	}

	// A single chunk needs no gaps; hand its buffer through untouched.
	if len(buffers) == 1 {
		return buffers[0], nil
	}

	out, err := audio.Assemble(buffers, s.gapSamples)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBufferCreation, err)
	}

	return out, nil
}

// SynthesizeWAV runs Generate and encodes the result as WAV bytes. This is
// the entry point the HTTP server and CLI use.
func (s *Service) SynthesizeWAV(ctx context.Context, input string) ([]byte, error) {
	samples, err := s.Generate(ctx, input)
	if err != nil {
		return nil, err
	}

	data, err := audio.EncodeWAV(samples)
	if err != nil {
		return nil, fmt.Errorf("%w: encode WAV: %w", ErrBufferCreation, err)
	}

	return data, nil
}

// synthesizeAll produces one sample buffer per chunk, in chunk order.
func (s *Service) synthesizeAll(ctx context.Context, chunks []string) ([][]float32, error) {
	if s.concurrency > 1 && len(chunks) > 1 {
		return s.synthesizeParallel(ctx, chunks)
	}

	buffers := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		buf, err := s.synthesizeChunk(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}

		buffers = append(buffers, buf)
	}

	return buffers, nil
}

// synthesizeParallel runs chunk synthesis across a bounded worker set.
// Output order follows chunk order regardless of completion order; the
// first failure cancels outstanding work and fails the whole call.
func (s *Service) synthesizeParallel(ctx context.Context, chunks []string) ([][]float32, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	buffers := make([][]float32, len(chunks))
	errs := make([]error, len(chunks))
	sem := make(chan struct{}, s.concurrency)

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)

		go func(i int, chunk string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}

			buf, err := s.synthesizeChunk(ctx, chunk)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}

			buffers[i] = buf
		}(i, chunk)
	}
	wg.Wait()

	// Report the stage failure rather than the cancellation it caused in
	// sibling workers.
	for i, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}

	return buffers, nil
}

// synthesizeChunk validates one chunk's token count and runs it through
// both inference stages. No retries: any failure propagates immediately.
func (s *Service) synthesizeChunk(ctx context.Context, chunk string) ([]float32, error) {
	ids, err := s.tok.Encode(chunk)
	if err != nil {
		return nil, fmt.Errorf("encode chunk: %w", err)
	}

	if len(ids) < MinTokens {
		return nil, fmt.Errorf("%w: chunk %q encodes to %d tokens (min %d)", ErrEmptyInput, chunk, len(ids), MinTokens)
	}
	if len(ids) > MaxTokens {
		return nil, &InputTooLongError{Tokens: len(ids), Max: MaxTokens}
	}

	spec, err := s.inference.SynthesizeSpectrogram(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpecGeneration, err)
	}
	if len(spec.Data) == 0 {
		return nil, fmt.Errorf("%w: acoustic stage returned an empty spectrogram", ErrSpecGeneration)
	}

	samples, err := s.inference.Vocode(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaveformGeneration, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: vocoder returned no samples", ErrWaveformGeneration)
	}

	return samples, nil
}
