package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/example/go-otosaku-tts/internal/audio"
	"github.com/example/go-otosaku-tts/internal/bench"
	"github.com/example/go-otosaku-tts/internal/tts"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		text   string
		runs   int
		format string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark synthesis latency and realtime factor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("--text is required for bench")
			}
			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			svc, err := tts.NewService(cfg)
			if err != nil {
				return fmt.Errorf("initialize synthesis service: %w", err)
			}
			defer svc.Close()

			results, err := bench.Run(cmd.Context(), svc.Generate, text, runs, audio.SampleRate)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return bench.WriteJSON(os.Stdout, results)
			default:
				return bench.WriteReport(os.Stdout, results)
			}
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to synthesize for each run (required)")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of synthesis runs")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")

	return cmd
}
