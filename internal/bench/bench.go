// Package bench provides timing primitives for the bench CLI command.
package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing and audio metadata for a single generate run.
type RunResult struct {
	Index         int           `json:"index"`
	Cold          bool          `json:"cold"` // true for the first run (cold-start)
	Duration      time.Duration `json:"duration_ns"`
	AudioDuration time.Duration `json:"audio_duration_ns"`
	RTF           float64       `json:"rtf"`
}

// Stats holds aggregate timing statistics across runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// ---------------------------------------------------------------------------
// RTF helpers
// ---------------------------------------------------------------------------

// AudioDuration converts a sample count at sampleRate to wall-clock audio time.
func AudioDuration(sampleCount, sampleRate int) time.Duration {
	if sampleRate < 1 {
		return 0
	}
	return time.Duration(float64(sampleCount) / float64(sampleRate) * float64(time.Second))
}

// RTF returns the real-time factor: synthesis wall time divided by audio
// duration. Below 1.0 means faster than real time.
func RTF(wall, audio time.Duration) float64 {
	if audio <= 0 {
		return 0
	}
	return float64(wall) / float64(audio)
}

// ---------------------------------------------------------------------------
// Runner
// ---------------------------------------------------------------------------

// Generator produces samples for one text input. Satisfied by the tts
// service's Generate method.
type Generator func(ctx context.Context, text string) ([]float32, error)

// Run generates text `runs` times and collects per-run timings. The first
// run is marked cold since it typically includes model warm-up cost.
func Run(ctx context.Context, gen Generator, text string, runs, sampleRate int) ([]RunResult, error) {
	if runs < 1 {
		return nil, fmt.Errorf("run count must be >= 1, got %d", runs)
	}

	results := make([]RunResult, 0, runs)
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		samples, err := gen(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		elapsed := time.Since(start)

		audioDur := AudioDuration(len(samples), sampleRate)
		results = append(results, RunResult{
			Index:         i + 1,
			Cold:          i == 0,
			Duration:      elapsed,
			AudioDuration: audioDur,
			RTF:           RTF(elapsed, audioDur),
		})
	}

	return results, nil
}

// ---------------------------------------------------------------------------
// Reporting
// ---------------------------------------------------------------------------

// WriteReport writes a human-readable summary of results to w. Warm-run
// statistics exclude the cold first run when more than one run exists.
func WriteReport(w io.Writer, results []RunResult) error {
	for _, r := range results {
		marker := ""
		if r.Cold {
			marker = " (cold)"
		}
		_, err := fmt.Fprintf(w, "run %d%s: %v wall, %v audio, RTF %.3f\n",
			r.Index, marker, r.Duration.Round(time.Millisecond),
			r.AudioDuration.Round(time.Millisecond), r.RTF)
		if err != nil {
			return err
		}
	}

	warm := results
	if len(results) > 1 {
		warm = results[1:]
	}
	durations := make([]time.Duration, len(warm))
	for i, r := range warm {
		durations[i] = r.Duration
	}
	stats := ComputeStats(durations)

	_, err := fmt.Fprintf(w, "warm runs: min %v, max %v, mean %v\n",
		stats.Min.Round(time.Millisecond), stats.Max.Round(time.Millisecond),
		stats.Mean.Round(time.Millisecond))
	return err
}

// WriteJSON writes results as a JSON array to w.
func WriteJSON(w io.Writer, results []RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
