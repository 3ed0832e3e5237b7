package onnx

import (
	"strings"
	"testing"
)

func TestNewEngine_MissingManifest(t *testing.T) {
	_, err := NewEngine("/nonexistent/manifest.json", RunnerConfig{})
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestNewEngine_MissingRequiredGraph(t *testing.T) {
	// A manifest without the acoustic graph must fail before any ORT
	// session is opened, so no runtime library is needed for this test.
	path := writeManifest(t, `{
		"graphs": [{"name": "vocoder", "filename": "vocoder.onnx"}]
	}`)

	_, err := NewEngine(path, RunnerConfig{})
	if err == nil {
		t.Fatal("expected error for missing acoustic graph")
	}
	if !strings.Contains(err.Error(), "acoustic") {
		t.Errorf("error should name the missing graph: %v", err)
	}
}
