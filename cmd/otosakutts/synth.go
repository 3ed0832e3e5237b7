package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/go-otosaku-tts/internal/audio"
	"github.com/example/go-otosaku-tts/internal/tts"
	"github.com/spf13/cobra"
)

func newSynthCmd() *cobra.Command {
	var text string
	var out string
	var normalize bool
	var dcBlock bool
	var fadeInMS float64
	var fadeOutMS float64

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize text to WAV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			inputText, err := readSynthText(text, os.Stdin)
			if err != nil {
				return err
			}

			svc, err := tts.NewService(cfg)
			if err != nil {
				return fmt.Errorf("initialize synthesis service: %w", err)
			}
			defer svc.Close()

			samples, err := svc.Generate(cmd.Context(), inputText)
			if err != nil {
				return err
			}

			samples = applyDSP(samples, synthDSPOptions{
				Normalize: normalize,
				DCBlock:   dcBlock,
				FadeInMS:  fadeInMS,
				FadeOutMS: fadeOutMS,
			})

			return writeSynthOutput(out, samples, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to synthesize (if empty, read from stdin)")
	cmd.Flags().StringVar(&out, "out", "out.wav", "Output WAV path ('-' for stdout)")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Peak-normalize output audio")
	cmd.Flags().BoolVar(&dcBlock, "dc-block", false, "Apply DC-block high-pass filter")
	cmd.Flags().Float64Var(&fadeInMS, "fade-in-ms", 0, "Apply linear fade-in duration in milliseconds")
	cmd.Flags().Float64Var(&fadeOutMS, "fade-out-ms", 0, "Apply linear fade-out duration in milliseconds")

	return cmd
}

type synthDSPOptions struct {
	Normalize bool
	DCBlock   bool
	FadeInMS  float64
	FadeOutMS float64
}

func applyDSP(samples []float32, opts synthDSPOptions) []float32 {
	var hooks []audio.Hook
	if opts.Normalize {
		hooks = append(hooks, audio.PeakNormalize)
	}
	if opts.DCBlock {
		hooks = append(hooks, func(s []float32) []float32 {
			return audio.DCBlock(s, audio.SampleRate)
		})
	}
	if opts.FadeInMS > 0 {
		hooks = append(hooks, func(s []float32) []float32 {
			return audio.FadeIn(s, audio.SampleRate, opts.FadeInMS)
		})
	}
	if opts.FadeOutMS > 0 {
		hooks = append(hooks, func(s []float32) []float32 {
			return audio.FadeOut(s, audio.SampleRate, opts.FadeOutMS)
		})
	}

	return audio.ApplyHooks(samples, hooks...)
}

// writeSynthOutput writes the synthesized samples either as a finalized WAV
// file on disk or as a streaming WAV on stdout when outPath is "-". The
// streaming variant carries placeholder chunk sizes since stdout is not
// seekable.
func writeSynthOutput(outPath string, samples []float32, stdout io.Writer) error {
	if outPath == "-" {
		if stdout == nil {
			return fmt.Errorf("stdout writer is nil")
		}
		if _, err := audio.WriteWAVHeaderStreaming(stdout); err != nil {
			return fmt.Errorf("write WAV header: %w", err)
		}
		if _, err := audio.WritePCM16Samples(stdout, samples); err != nil {
			return fmt.Errorf("write PCM samples: %w", err)
		}
		return nil
	}

	wavData, err := audio.EncodeWAV(samples)
	if err != nil {
		return fmt.Errorf("encode WAV: %w", err)
	}
	return os.WriteFile(outPath, wavData, 0o644)
}

func readSynthText(text string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	input := strings.TrimSpace(string(b))
	if input == "" {
		return "", fmt.Errorf("either provide --text or pipe text on stdin")
	}
	return input, nil
}
