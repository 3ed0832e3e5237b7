package audio

import "math"

// Hook is a post-processing step applied to assembled samples.
type Hook func(samples []float32) []float32

// ApplyHooks runs the hooks over samples in order.
func ApplyHooks(samples []float32, hooks ...Hook) []float32 {
	out := samples
	for _, hook := range hooks {
		out = hook(out)
	}

	return out
}

// PeakNormalize scales samples so the peak amplitude reaches 1.0.
// Silent input is returned unchanged.
func PeakNormalize(samples []float32) []float32 {
	var peak float32
	for _, s := range samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return samples
	}

	out := make([]float32, len(samples))
	gain := 1.0 / peak
	for i, s := range samples {
		out[i] = s * gain
	}

	return out
}

// DCBlock removes DC offset with a one-pole high-pass filter
// (y[n] = x[n] - x[n-1] + R*y[n-1], R chosen for ~20 Hz cutoff).
func DCBlock(samples []float32, sampleRate int) []float32 {
	if len(samples) == 0 || sampleRate < 1 {
		return samples
	}

	r := float32(1.0 - (2.0 * math.Pi * 20.0 / float64(sampleRate)))

	out := make([]float32, len(samples))
	var prevIn, prevOut float32
	for i, s := range samples {
		out[i] = s - prevIn + r*prevOut
		prevIn = s
		prevOut = out[i]
	}

	return out
}

// FadeIn applies a linear fade-in ramp over the given duration in milliseconds.
func FadeIn(samples []float32, sampleRate int, ms float64) []float32 {
	n := rampSamples(len(samples), sampleRate, ms)
	if n == 0 {
		return samples
	}

	out := append([]float32(nil), samples...)
	for i := 0; i < n; i++ {
		out[i] *= float32(i) / float32(n)
	}

	return out
}

// FadeOut applies a linear fade-out ramp over the given duration in milliseconds.
func FadeOut(samples []float32, sampleRate int, ms float64) []float32 {
	n := rampSamples(len(samples), sampleRate, ms)
	if n == 0 {
		return samples
	}

	out := append([]float32(nil), samples...)
	start := len(out) - n
	for i := start; i < len(out); i++ {
		out[i] *= float32(len(out)-1-i) / float32(n)
	}

	return out
}

func rampSamples(total, sampleRate int, ms float64) int {
	if total == 0 || sampleRate < 1 || ms <= 0 {
		return 0
	}

	n := int(math.Round(float64(sampleRate) * ms / 1000.0))
	if n > total {
		n = total
	}

	return n
}
