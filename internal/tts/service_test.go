package tts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/go-otosaku-tts/internal/audio"
)

const (
	melBins         = 4
	samplesPerFrame = 25
)

// byteTokenizer emits one token per word, with the ID taken from the
// word's first byte so different chunks produce distinguishable audio.
type byteTokenizer struct{}

func (byteTokenizer) Encode(text string) ([]int64, error) {
	fields := strings.Fields(text)
	ids := make([]int64, len(fields))
	for i, f := range fields {
		ids[i] = int64(f[0])
	}
	return ids, nil
}

// charTokenizer emits one token per byte, for forcing over-long chunks.
type charTokenizer struct{}

func (charTokenizer) Encode(text string) ([]int64, error) {
	ids := make([]int64, len(text))
	for i := range ids {
		ids[i] = int64(text[i])
	}
	return ids, nil
}

// fakeInference produces deterministic audio: one spectrogram frame per
// token, samplesPerFrame samples per frame, sample value derived from the
// token ID.
type fakeInference struct {
	specErr   error
	vocodeErr error
}

func (f *fakeInference) SynthesizeSpectrogram(_ context.Context, tokens []int64) (Spectrogram, error) {
	if f.specErr != nil {
		return Spectrogram{}, f.specErr
	}

	data := make([]float32, len(tokens)*melBins)
	for i, tok := range tokens {
		for j := 0; j < melBins; j++ {
			data[i*melBins+j] = float32(tok)
		}
	}

	return Spectrogram{Data: data, Shape: []int64{1, melBins, int64(len(tokens))}}, nil
}

func (f *fakeInference) Vocode(_ context.Context, spec Spectrogram) ([]float32, error) {
	if f.vocodeErr != nil {
		return nil, f.vocodeErr
	}

	frames := len(spec.Data) / melBins
	out := make([]float32, frames*samplesPerFrame)
	for i := 0; i < frames; i++ {
		v := spec.Data[i*melBins] / 1000
		for j := 0; j < samplesPerFrame; j++ {
			out[i*samplesPerFrame+j] = v
		}
	}

	return out, nil
}

func (f *fakeInference) Close() {}

func testService(concurrency int) *Service {
	return newService(byteTokenizer{}, &fakeInference{}, audio.DefaultGapMS, concurrency)
}

// ---------------------------------------------------------------------------
// Generate happy paths
// ---------------------------------------------------------------------------

func TestGenerate_SingleSentenceNoGap(t *testing.T) {
	svc := testService(1)

	out, err := svc.Generate(context.Background(), "Hello world.")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// One chunk of two words: 2 frames, no silence inserted.
	want := 2 * samplesPerFrame
	if len(out) != want {
		t.Errorf("len(out) = %d, want %d (single-chunk output must carry no gap)", len(out), want)
	}
}

func TestGenerate_TwoSentencesWithGap(t *testing.T) {
	svc := testService(1)

	out, err := svc.Generate(context.Background(), "Hi there. Goodbye now.")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Two 2-word chunks plus one 300 ms gap (6615 samples at 22050 Hz).
	want := 2*samplesPerFrame + 2*samplesPerFrame + 6615
	if len(out) != want {
		t.Errorf("len(out) = %d, want %d", len(out), want)
	}

	// Gap region between the chunks is exact silence.
	gapStart := 2 * samplesPerFrame
	for i := gapStart; i < gapStart+6615; i++ {
		if out[i] != 0 {
			t.Fatalf("gap sample [%d] = %v, want 0", i, out[i])
		}
	}

	// The second chunk's samples follow at the correct offset.
	secondStart := gapStart + 6615
	wantVal := float32('G') / 1000
	if out[secondStart] != wantVal {
		t.Errorf("out[%d] = %v, want %v (start of second chunk)", secondStart, out[secondStart], wantVal)
	}
}

func TestGenerate_OrderPreserved(t *testing.T) {
	svc := testService(1)

	out, err := svc.Generate(context.Background(), "Alpha one. Beta two. Gamma three.")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	gap := audio.GapSamples(audio.DefaultGapMS)
	chunkLen := 2 * samplesPerFrame
	starts := []int{0, chunkLen + gap, 2 * (chunkLen + gap)}
	wantVals := []float32{float32('A') / 1000, float32('B') / 1000, float32('G') / 1000}

	for i, start := range starts {
		if out[start] != wantVals[i] {
			t.Errorf("chunk %d starts with %v, want %v", i, out[start], wantVals[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Generate error taxonomy
// ---------------------------------------------------------------------------

func TestGenerate_BlankInput(t *testing.T) {
	svc := testService(1)

	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := svc.Generate(context.Background(), input)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Generate(%q) = %v, want ErrEmptyInput", input, err)
		}
	}
}

func TestGenerate_DegenerateChunkBelowMinTokens(t *testing.T) {
	svc := testService(1)

	// A single word encodes to one token, below the 2-token floor.
	_, err := svc.Generate(context.Background(), "Hi.")
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Generate = %v, want ErrEmptyInput", err)
	}
}

func TestGenerate_OverlongWordFailsDownstream(t *testing.T) {
	// One un-splittable 241-byte word survives segmentation and must be
	// rejected by the synthesizer's bound check, carrying the count.
	svc := newService(charTokenizer{}, &fakeInference{}, audio.DefaultGapMS, 1)

	_, err := svc.Generate(context.Background(), strings.Repeat("a", 241))

	var tooLong *InputTooLongError
	if !errors.As(err, &tooLong) {
		t.Fatalf("Generate = %v, want InputTooLongError", err)
	}
	if tooLong.Tokens != 241 || tooLong.Max != MaxTokens {
		t.Errorf("InputTooLongError = %+v, want Tokens=241 Max=%d", tooLong, MaxTokens)
	}
}

func TestGenerate_SpecStageFailure(t *testing.T) {
	inf := &fakeInference{specErr: errors.New("graph exploded")}
	svc := newService(byteTokenizer{}, inf, audio.DefaultGapMS, 1)

	_, err := svc.Generate(context.Background(), "Hello world.")
	if !errors.Is(err, ErrSpecGeneration) {
		t.Errorf("Generate = %v, want ErrSpecGeneration", err)
	}
}

func TestGenerate_VocoderStageFailure(t *testing.T) {
	inf := &fakeInference{vocodeErr: errors.New("no waveform output")}
	svc := newService(byteTokenizer{}, inf, audio.DefaultGapMS, 1)

	_, err := svc.Generate(context.Background(), "Hello world.")
	if !errors.Is(err, ErrWaveformGeneration) {
		t.Errorf("Generate = %v, want ErrWaveformGeneration", err)
	}
}

func TestGenerate_NoPartialOutputOnFailure(t *testing.T) {
	inf := &fakeInference{vocodeErr: errors.New("boom")}
	svc := newService(byteTokenizer{}, inf, audio.DefaultGapMS, 1)

	out, err := svc.Generate(context.Background(), "First one. Second two. Third three.")
	if err == nil {
		t.Fatal("expected failure")
	}
	if out != nil {
		t.Errorf("failed call returned %d samples, want none", len(out))
	}
}

func TestGenerate_ContextCanceled(t *testing.T) {
	svc := testService(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, "Hello world. Goodbye now.")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// Parallel synthesis
// ---------------------------------------------------------------------------

func TestGenerate_ParallelMatchesSequential(t *testing.T) {
	const input = "Alpha one. Beta two. Gamma three. Delta four. Epsilon five."

	seq, err := testService(1).Generate(context.Background(), input)
	if err != nil {
		t.Fatalf("sequential Generate: %v", err)
	}

	par, err := testService(4).Generate(context.Background(), input)
	if err != nil {
		t.Fatalf("parallel Generate: %v", err)
	}

	if len(par) != len(seq) {
		t.Fatalf("parallel output has %d samples, sequential %d", len(par), len(seq))
	}
	for i := range par {
		if par[i] != seq[i] {
			t.Fatalf("outputs diverge at sample %d: %v vs %v", i, par[i], seq[i])
		}
	}
}

func TestGenerate_ParallelFailureReportsStageError(t *testing.T) {
	inf := &fakeInference{vocodeErr: errors.New("boom")}
	svc := newService(byteTokenizer{}, inf, audio.DefaultGapMS, 4)

	_, err := svc.Generate(context.Background(), "Alpha one. Beta two. Gamma three.")
	if !errors.Is(err, ErrWaveformGeneration) {
		t.Errorf("Generate = %v, want ErrWaveformGeneration (not a cancellation)", err)
	}
}

// ---------------------------------------------------------------------------
// SynthesizeWAV
// ---------------------------------------------------------------------------

func TestSynthesizeWAV(t *testing.T) {
	svc := testService(1)

	data, err := svc.SynthesizeWAV(context.Background(), "Hello world.")
	if err != nil {
		t.Fatalf("SynthesizeWAV: %v", err)
	}

	samples, err := audio.DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if len(samples) != 2*samplesPerFrame {
		t.Errorf("decoded %d samples, want %d", len(samples), 2*samplesPerFrame)
	}
}
