package dsp

import (
	"math"
	"testing"
)

func TestRMSOfSilenceIsZero(t *testing.T) {
	samples := make([]float32, 100)
	if got := RMS(samples); got != 0 {
		t.Fatalf("expected 0 for silence, got %v", got)
	}
}

func TestRMSMatchesExplicitFormula(t *testing.T) {
	samples := []float32{0.5, -0.5, 0.5, -0.5}
	var sumSquares float64
	for _, s := range samples {
		sumSquares += float64(s) * float64(s)
	}
	rms := math.Sqrt(sumSquares / float64(len(samples)))
	want := DbToGain(10 * math.Log10(rms))

	if got := RMS(samples); math.Abs(got-want) > 1e-9 {
		t.Fatalf("RMS() = %v, want %v", got, want)
	}
}

func TestEqualPowerPanCenterIsHalfPower(t *testing.T) {
	l, r := EqualPowerPan(0)
	if l < 0.7 || l > 0.71 || r < 0.7 || r > 0.71 {
		t.Fatalf("expected ~0.707/0.707 at center pan, got %v/%v", l, r)
	}
}

func TestEqualPowerPanClampsOutOfRange(t *testing.T) {
	l, r := EqualPowerPan(5)
	wantL, wantR := EqualPowerPan(1)
	if l != wantL || r != wantR {
		t.Fatalf("expected pan > 1 to clamp to pan=1, got %v/%v want %v/%v", l, r, wantL, wantR)
	}
}
