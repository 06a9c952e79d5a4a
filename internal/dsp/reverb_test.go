package dsp

import "testing"

func TestReverbProducesWetTailAfterImpulse(t *testing.T) {
	r := NewReverb(48000)
	r.SetWetLevel(1.0)
	r.SetDryLevel(0.0)

	r.Process(1.0, 1.0)

	tailEnergy := 0.0
	for i := 0; i < 2000; i++ {
		l, right := r.Process(0, 0)
		tailEnergy += l*l + right*right
	}
	if tailEnergy == 0 {
		t.Fatal("expected a nonzero reverb tail following an impulse")
	}
}

func TestReverbSilentInputStaysSilent(t *testing.T) {
	r := NewReverb(48000)
	for i := 0; i < 100; i++ {
		l, right := r.Process(0, 0)
		if l != 0 || right != 0 {
			t.Fatalf("expected silence with no input and an untouched reverb, got %v/%v at step %d", l, right, i)
		}
	}
}

func TestReverbDryLevelZeroExcludesInputFromOutput(t *testing.T) {
	r := NewReverb(48000)
	r.SetDryLevel(0)
	r.SetWetLevel(0)

	// Smoothed parameters ramp over 10ms; settle them before sampling.
	for i := 0; i < int(0.02*48000); i++ {
		r.Process(1.0, 1.0)
	}
	l, right := r.Process(1.0, 1.0)
	if l != 0 || right != 0 {
		t.Fatalf("expected zero output with dry=0 and wet=0, got %v/%v", l, right)
	}
}

func TestReverbFreezeSustainsTailWithoutNewInput(t *testing.T) {
	r := NewReverb(48000)
	r.SetWetLevel(1.0)
	r.SetDryLevel(0.0)

	r.Process(1.0, 1.0)
	for i := 0; i < 500; i++ {
		r.Process(0, 0)
	}

	r.SetFreeze(true)
	// Let the freeze ramp (damping/feedback are not smoothed, but gainInput's
	// effect on future input is immediate) settle before measuring.
	preFreezeEnergy := 0.0
	for i := 0; i < 4000; i++ {
		l, right := r.Process(5.0, 5.0) // new input should be ignored while frozen
		preFreezeEnergy += l*l + right*right
	}
	if preFreezeEnergy == 0 {
		t.Fatal("expected the frozen tail to keep sustaining energy")
	}
}

func TestReverbWidthZeroCollapsesChannelsToMono(t *testing.T) {
	r := NewReverb(48000)
	r.SetWetLevel(1.0)
	r.SetDryLevel(0.0)
	r.SetWidth(0)
	// Settle the 10ms width ramp.
	for i := 0; i < int(0.02*48000); i++ {
		r.Process(0, 0)
	}

	r.Process(1.0, -1.0)
	for i := 0; i < 100; i++ {
		l, right := r.Process(0, 0)
		if diff := l - right; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("expected L==R with width=0, got %v vs %v at step %d", l, right, i)
		}
	}
}

func TestReverbSampleRateRescalesDelayLines(t *testing.T) {
	r := NewReverb(44100)
	baseLen := len(r.combL[0].buf)

	r.SetSampleRate(88200)
	scaledLen := len(r.combL[0].buf)

	if scaledLen < baseLen*2-4 || scaledLen > baseLen*2+4 {
		t.Fatalf("expected comb buffer length to roughly double at 2x sample rate: base=%d scaled=%d", baseLen, scaledLen)
	}
}
