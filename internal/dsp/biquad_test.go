package dsp

import (
	"math"
	"testing"
)

func TestCoefficientsLowPassAttenuatesHighFrequency(t *testing.T) {
	var c Coefficients
	sampleRate := 48000.0
	c.Configure(LowPass, 500, 0.707, sampleRate)

	// Settle the filter, then compare RMS of a near-Nyquist tone against
	// a low tone well inside the passband.
	highRMS := settledRMS(&c, 20000, sampleRate)

	c.Reset()
	c.Configure(LowPass, 500, 0.707, sampleRate)
	lowRMS := settledRMS(&c, 100, sampleRate)

	if highRMS >= lowRMS {
		t.Fatalf("expected a 500Hz lowpass to attenuate 20kHz more than 100Hz: high=%v low=%v", highRMS, lowRMS)
	}
}

func TestCoefficientsHighPassAttenuatesLowFrequency(t *testing.T) {
	var c Coefficients
	sampleRate := 48000.0
	c.Configure(HighPass, 2000, 0.707, sampleRate)
	lowRMS := settledRMS(&c, 50, sampleRate)

	c.Reset()
	c.Configure(HighPass, 2000, 0.707, sampleRate)
	highRMS := settledRMS(&c, 15000, sampleRate)

	if lowRMS >= highRMS {
		t.Fatalf("expected a 2kHz highpass to attenuate 50Hz more than 15kHz: low=%v high=%v", lowRMS, highRMS)
	}
}

func TestCoefficientsConfigureClampsDegenerateParameters(t *testing.T) {
	var c Coefficients
	// A zero sample rate must not produce NaN/Inf coefficients via division by zero.
	c.Configure(LowPass, 1000, 0.707, 0)
	if y := c.Process(1.0); math.IsNaN(y) || math.IsInf(y, 0) {
		t.Fatalf("Configure with sampleRate=0 left the filter usable, got %v", y)
	}
}

func TestCoefficientsResetClearsState(t *testing.T) {
	var c Coefficients
	c.Configure(LowPass, 1000, 0.707, 48000)
	for i := 0; i < 50; i++ {
		c.Process(1.0)
	}
	c.Reset()
	if c.x1 != 0 || c.x2 != 0 || c.y1 != 0 || c.y2 != 0 {
		t.Fatalf("Reset left nonzero state: x1=%v x2=%v y1=%v y2=%v", c.x1, c.x2, c.y1, c.y2)
	}
	// A fresh impulse after Reset should match a filter that never ran.
	var fresh Coefficients
	fresh.Configure(LowPass, 1000, 0.707, 48000)
	if got, want := c.Process(1.0), fresh.Process(1.0); got != want {
		t.Fatalf("post-reset output diverged from a fresh filter: got %v want %v", got, want)
	}
}

func settledRMS(c *Coefficients, freq, sampleRate float64) float64 {
	const n = 512
	var sumSquares float64
	for i := 0; i < n; i++ {
		x := math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
		y := c.Process(x)
		if i >= n/2 {
			sumSquares += y * y
		}
	}
	return math.Sqrt(sumSquares / float64(n/2))
}
