package tts

import "context"

// Spectrogram is a runtime-neutral mel spectrogram payload passed between
// the two inference stages. Shape is expected to be [1, M, T] or [M, T].
type Spectrogram struct {
	Data  []float32
	Shape []int64
}

// Inference abstracts the two opaque model stages so the pipeline
// (segmentation, bounds checks, assembly) is testable with deterministic
// fakes and independent of the graph runtime.
type Inference interface {
	// SynthesizeSpectrogram runs the acoustic stage on one chunk's token
	// IDs and returns its mel spectrogram.
	SynthesizeSpectrogram(ctx context.Context, tokens []int64) (Spectrogram, error)

	// Vocode runs the vocoder stage on a spectrogram and returns mono
	// float32 samples at the fixed output rate.
	Vocode(ctx context.Context, spec Spectrogram) ([]float32, error)

	Close()
}
