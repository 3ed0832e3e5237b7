// Package doctor provides environment preflight checks for otosakutts.
package doctor

import (
	"fmt"
	"io"
	"os"

	"github.com/example/go-otosaku-tts/internal/onnx"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config holds the paths each doctor check inspects.
type Config struct {
	// ORTLibraryPath is the configured ONNX Runtime shared library; when
	// empty, common system locations are probed instead.
	ORTLibraryPath string
	// ONNXManifest is the path to the graph manifest.
	ONNXManifest string
	// TokenizerModel is the path to the SentencePiece model.
	TokenizerModel string
}

// ortSearchPaths are probed when no explicit ORT library path is configured.
var ortSearchPaths = []string{
	"/usr/lib/libonnxruntime.so",
	"/usr/local/lib/libonnxruntime.so",
	"/usr/lib/x86_64-linux-gnu/libonnxruntime.so",
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- ONNX Runtime library ---------------------------------------------
	if cfg.ORTLibraryPath != "" {
		if _, err := os.Stat(cfg.ORTLibraryPath); err != nil {
			res.fail(fmt.Sprintf("ORT library %q: %v", cfg.ORTLibraryPath, err))
			fmt.Fprintf(w, "%s ONNX Runtime library %s: not found\n", FailMark, cfg.ORTLibraryPath)
		} else {
			fmt.Fprintf(w, "%s ONNX Runtime library: %s\n", PassMark, cfg.ORTLibraryPath)
		}
	} else if found := probeORTLibrary(); found != "" {
		fmt.Fprintf(w, "%s ONNX Runtime library: %s (auto-detected)\n", PassMark, found)
	} else {
		res.fail("ORT library: not found in common locations; set runtime.ort_library_path")
		fmt.Fprintf(w, "%s ONNX Runtime library: not found; set runtime.ort_library_path or ORT_LIBRARY_PATH\n", FailMark)
	}

	// ---- graph manifest ---------------------------------------------------
	sessions, err := onnx.LoadManifest(cfg.ONNXManifest)
	if err != nil {
		res.fail(fmt.Sprintf("ONNX manifest %q: %v", cfg.ONNXManifest, err))
		fmt.Fprintf(w, "%s ONNX manifest %s: %v\n", FailMark, cfg.ONNXManifest, err)
	} else {
		fmt.Fprintf(w, "%s ONNX manifest: %s (%d graphs)\n", PassMark, cfg.ONNXManifest, len(sessions))

		for _, name := range []string{onnx.GraphAcoustic, onnx.GraphVocoder} {
			meta, ok := sessions[name]
			if !ok {
				res.fail(fmt.Sprintf("graph %q: missing from manifest", name))
				fmt.Fprintf(w, "%s graph %s: missing from manifest\n", FailMark, name)
				continue
			}
			if _, err := os.Stat(meta.Path); err != nil {
				res.fail(fmt.Sprintf("graph %q file %q: %v", name, meta.Path, err))
				fmt.Fprintf(w, "%s graph %s: file %s not found\n", FailMark, name, meta.Path)
				continue
			}
			fmt.Fprintf(w, "%s graph %s: %s\n", PassMark, name, meta.Path)
		}
	}

	// ---- tokenizer model --------------------------------------------------
	if _, err := os.Stat(cfg.TokenizerModel); err != nil {
		res.fail(fmt.Sprintf("tokenizer model %q: %v", cfg.TokenizerModel, err))
		fmt.Fprintf(w, "%s tokenizer model %s: not found\n", FailMark, cfg.TokenizerModel)
	} else {
		fmt.Fprintf(w, "%s tokenizer model: %s\n", PassMark, cfg.TokenizerModel)
	}

	return res
}

func probeORTLibrary() string {
	for _, p := range ortSearchPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
