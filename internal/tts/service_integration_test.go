package tts

import (
	"context"
	"os"
	"testing"

	"github.com/example/go-otosaku-tts/internal/audio"
	"github.com/example/go-otosaku-tts/internal/config"
	"github.com/example/go-otosaku-tts/internal/testutil"
)

// Requires a real model bundle and ONNX Runtime library; skipped otherwise.
func TestService_EndToEnd(t *testing.T) {
	testutil.RequireONNXRuntime(t)
	testutil.RequireModelBundle(t)
	testutil.RequireTokenizerModel(t)

	cfg := config.DefaultConfig()
	for _, env := range []string{"ORT_LIBRARY_PATH", "OTOSAKUTTS_ORT_LIB"} {
		if p := os.Getenv(env); p != "" {
			cfg.Runtime.ORTLibraryPath = p
			break
		}
	}

	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer svc.Close()

	data, err := svc.SynthesizeWAV(context.Background(), "Hello world. This is a test.")
	if err != nil {
		t.Fatalf("SynthesizeWAV: %v", err)
	}

	samples, err := audio.DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if len(samples) == 0 {
		t.Fatal("synthesis produced no samples")
	}

	// Output must not be pure silence.
	var peak float32
	for _, s := range samples {
		if s > peak {
			peak = s
		}
		if -s > peak {
			peak = -s
		}
	}
	if peak == 0 {
		t.Error("synthesized waveform is all zeros")
	}
}
