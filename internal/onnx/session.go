// Package onnx hosts the two exported inference graphs behind the
// synthesis pipeline: the acoustic model (token IDs to mel spectrogram)
// and the vocoder (spectrogram to waveform samples). Graph files and node
// layouts are described by a JSON manifest so the pipeline never hardcodes
// paths to model artifacts.
package onnx

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// NodeInfo describes one typed graph input or output.
type NodeInfo struct {
	Name  string `json:"name"`
	DType string `json:"dtype"`
	Shape []any  `json:"shape"`
}

// Session holds the metadata needed to open one ONNX graph.
type Session struct {
	Name string
	Path string

	Inputs  []NodeInfo
	Outputs []NodeInfo
}

type manifestFile struct {
	Graphs []manifestGraph `json:"graphs"`
}

type manifestGraph struct {
	Name     string     `json:"name"`
	Filename string     `json:"filename"`
	Inputs   []NodeInfo `json:"inputs"`
	Outputs  []NodeInfo `json:"outputs"`
}

// LoadManifest reads a graph manifest and returns session metadata keyed by
// graph name. Graph filenames are resolved relative to the manifest.
func LoadManifest(manifestPath string) (map[string]Session, error) {
	if manifestPath == "" {
		return nil, errors.New("manifest path is required")
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read ONNX manifest: %w", err)
	}

	var manifest manifestFile
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decode ONNX manifest: %w", err)
	}

	if len(manifest.Graphs) == 0 {
		return nil, errors.New("ONNX manifest has no graphs")
	}

	baseDir := filepath.Dir(manifestPath)
	sessions := make(map[string]Session, len(manifest.Graphs))

	for _, g := range manifest.Graphs {
		if g.Name == "" {
			return nil, errors.New("manifest graph has empty name")
		}
		if g.Filename == "" {
			return nil, fmt.Errorf("manifest graph %q has empty filename", g.Name)
		}
		if _, dup := sessions[g.Name]; dup {
			return nil, fmt.Errorf("manifest graph %q declared twice", g.Name)
		}

		sessions[g.Name] = Session{
			Name:    g.Name,
			Path:    filepath.Join(baseDir, g.Filename),
			Inputs:  g.Inputs,
			Outputs: g.Outputs,
		}
	}

	return sessions, nil
}
