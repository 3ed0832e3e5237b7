package tts

import (
	"context"
	"fmt"

	"github.com/example/go-otosaku-tts/internal/onnx"
)

type onnxInference struct {
	engine *onnx.Engine
}

func newONNXInference(engine *onnx.Engine) Inference {
	return &onnxInference{engine: engine}
}

func (r *onnxInference) SynthesizeSpectrogram(ctx context.Context, tokens []int64) (Spectrogram, error) {
	spec, err := r.engine.SynthesizeSpectrogram(ctx, tokens)
	if err != nil {
		return Spectrogram{}, err
	}

	data, err := spec.Float32Data()
	if err != nil {
		return Spectrogram{}, fmt.Errorf("read spectrogram tensor: %w", err)
	}

	return Spectrogram{Data: data, Shape: spec.Shape()}, nil
}

func (r *onnxInference) Vocode(ctx context.Context, spec Spectrogram) ([]float32, error) {
	tensor, err := onnx.NewTensor(spec.Data, spec.Shape)
	if err != nil {
		return nil, fmt.Errorf("build spectrogram tensor: %w", err)
	}

	return r.engine.Vocode(ctx, tensor)
}

func (r *onnxInference) Close() {
	if r.engine != nil {
		r.engine.Close()
	}
}
