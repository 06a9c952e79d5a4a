package envelope

import "testing"

func TestEnvelopeValueStaysInUnitRange(t *testing.T) {
	a := New(0.01, 0.02, 0.7, 0.05, 48000)
	a.NoteOn()
	for i := 0; i < 48000; i++ {
		v := a.Tick()
		if v < 0 || v > 1 {
			t.Fatalf("sample %d: envelope value %f out of [0,1]", i, v)
		}
		if i == 30000 {
			a.NoteOff()
		}
	}
	if v := a.Value(); v != 0 {
		t.Fatalf("expected envelope to have decayed to 0 after release, got %f", v)
	}
}

func TestSustainHoldsExactValue(t *testing.T) {
	a := New(0.001, 0.001, 0.5, 0.01, 48000)
	a.NoteOn()
	for i := 0; i < 48000; i++ {
		a.Tick()
	}
	if a.State() != Sustain {
		t.Fatalf("expected to reach sustain, got state %v", a.State())
	}
	if a.Value() != 0.5 {
		t.Fatalf("expected sustain value to equal configured sustain level, got %f", a.Value())
	}
}

func TestZeroAttackSkipsToDecay(t *testing.T) {
	a := New(0, 0.01, 0.3, 0.01, 48000)
	a.NoteOn()
	if a.State() != Decay && a.State() != Sustain {
		t.Fatalf("zero attack should skip straight past ATTACK, got %v", a.State())
	}
}

func TestZeroEverythingGoesStraightToSustain(t *testing.T) {
	a := New(0, 0, 0.4, 0.01, 48000)
	a.NoteOn()
	if a.State() != Sustain || a.Value() != 0.4 {
		t.Fatalf("expected immediate sustain at 0.4, got state=%v value=%f", a.State(), a.Value())
	}
}

func TestNoteOffFromIdleIsNoop(t *testing.T) {
	a := New(0.01, 0.01, 0.5, 0.01, 48000)
	a.NoteOff()
	if a.State() != Idle {
		t.Fatalf("expected NoteOff on idle envelope to remain idle, got %v", a.State())
	}
}
