package audio

import (
	"math"
	"testing"
)

func TestPeakNormalize(t *testing.T) {
	out := PeakNormalize([]float32{0.1, -0.5, 0.25})

	var peak float64
	for _, s := range out {
		if a := math.Abs(float64(s)); a > peak {
			peak = a
		}
	}

	if math.Abs(peak-1.0) > 1e-6 {
		t.Errorf("peak after normalize = %v, want 1.0", peak)
	}
}

func TestPeakNormalize_SilenceUnchanged(t *testing.T) {
	in := []float32{0, 0, 0}

	out := PeakNormalize(in)
	for i, s := range out {
		if s != 0 {
			t.Errorf("sample[%d] = %v, want 0", i, s)
		}
	}
}

func TestFadeIn(t *testing.T) {
	in := make([]float32, 2205) // 100 ms
	for i := range in {
		in[i] = 1.0
	}

	out := FadeIn(in, SampleRate, 50)

	if out[0] != 0 {
		t.Errorf("first sample = %v, want 0", out[0])
	}
	if out[len(out)-1] != 1.0 {
		t.Errorf("last sample = %v, want 1.0 (past the ramp)", out[len(out)-1])
	}
	// Input must not be mutated.
	if in[0] != 1.0 {
		t.Error("FadeIn mutated its input")
	}
}

func TestFadeOut(t *testing.T) {
	in := make([]float32, 2205)
	for i := range in {
		in[i] = 1.0
	}

	out := FadeOut(in, SampleRate, 50)

	if out[0] != 1.0 {
		t.Errorf("first sample = %v, want 1.0 (before the ramp)", out[0])
	}
	if out[len(out)-1] != 0 {
		t.Errorf("last sample = %v, want 0", out[len(out)-1])
	}
}

func TestDCBlock_RemovesOffset(t *testing.T) {
	in := make([]float32, SampleRate) // 1 s of constant offset
	for i := range in {
		in[i] = 0.5
	}

	out := DCBlock(in, SampleRate)

	// After settling, the output mean should be near zero.
	var sum float64
	tail := out[len(out)/2:]
	for _, s := range tail {
		sum += float64(s)
	}
	mean := sum / float64(len(tail))

	if math.Abs(mean) > 0.01 {
		t.Errorf("tail mean after DC block = %v, want ~0", mean)
	}
}

func TestApplyHooks_Order(t *testing.T) {
	double := func(s []float32) []float32 {
		out := make([]float32, len(s))
		for i, v := range s {
			out[i] = v * 2
		}
		return out
	}
	addOne := func(s []float32) []float32 {
		out := make([]float32, len(s))
		for i, v := range s {
			out[i] = v + 1
		}
		return out
	}

	out := ApplyHooks([]float32{1}, double, addOne)
	if out[0] != 3 {
		t.Errorf("hooks applied out of order: got %v, want 3", out[0])
	}
}
