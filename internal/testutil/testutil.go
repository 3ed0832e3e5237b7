// Package testutil provides shared skip helpers for integration tests.
//
// Each helper calls t.Skip with a clear human-readable reason when the named
// prerequisite is absent, so integration tests remain runnable in partial
// environments without failing noisily.
//
// Typical usage:
//
//	func TestMyIntegration(t *testing.T) {
//	    testutil.RequireONNXRuntime(t)
//	    testutil.RequireModelBundle(t)
//	    ...
//	}
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/go-otosaku-tts/internal/onnx"
)

// RequireONNXRuntime skips the test if no ONNX Runtime shared library can be
// located. It checks (in order): the ORT_LIBRARY_PATH env var, then the
// OTOSAKUTTS_ORT_LIB env var, then common system library paths.
func RequireONNXRuntime(tb testing.TB) {
	tb.Helper()

	for _, env := range []string{"ORT_LIBRARY_PATH", "OTOSAKUTTS_ORT_LIB"} {
		if p := os.Getenv(env); p != "" {
			_, err := os.Stat(p)
			if err == nil {
				return // found
			}

			tb.Skipf("ONNX Runtime library not found at %s=%q", env, p)
		}
	}
	// Fall back to common system locations.
	candidates := []string{
		"/usr/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/usr/lib/x86_64-linux-gnu/libonnxruntime.so",
	}
	for _, p := range candidates {
		_, err := os.Stat(p)
		if err == nil {
			return // found
		}
	}

	tb.Skip("ONNX Runtime shared library not found; set ORT_LIBRARY_PATH or OTOSAKUTTS_ORT_LIB")
}

// RequireModelBundle skips the test if models/manifest.json (relative to the
// working directory) is missing, unreadable, or lacks the two pipeline graphs.
func RequireModelBundle(tb testing.TB) {
	tb.Helper()

	manifestPath := filepath.Join("models", "manifest.json")

	sessions, err := onnx.LoadManifest(manifestPath)
	if err != nil {
		tb.Skipf("model bundle not available at %q: %v", manifestPath, err)
	}

	for _, name := range []string{onnx.GraphAcoustic, onnx.GraphVocoder} {
		meta, ok := sessions[name]
		if !ok {
			tb.Skipf("model bundle is missing graph %q", name)
		}

		_, err := os.Stat(meta.Path)
		if err != nil {
			tb.Skipf("graph %q file not available: %v", name, err)
		}
	}
}

// RequireTokenizerModel skips the test if models/tokenizer.model (relative
// to the working directory) is missing.
func RequireTokenizerModel(tb testing.TB) {
	tb.Helper()

	path := filepath.Join("models", "tokenizer.model")

	_, err := os.Stat(path)
	if err != nil {
		tb.Skipf("tokenizer model not available at %q: %v", path, err)
	}
}
