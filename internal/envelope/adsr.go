// Package envelope implements the per-voice ADSR amplitude envelope.
// It is kept as an explicit state machine (not a stateless envelope(t)
// function) because voices also consult State to decide when they are
// allowed to self-terminate.
package envelope

// State is one phase of the ADSR state machine.
type State uint8

const (
	Idle State = iota
	Attack
	Decay
	Sustain
	Release
)

// ADSR is a stateful attack/decay/sustain/release envelope. Attack,
// Decay and Release are seconds; Sustain is a dimensionless level in
// [0,1].
type ADSR struct {
	Attack     float64
	Decay      float64
	Sustain    float64
	Release    float64
	SampleRate float64

	envelopeVal float64
	state       State

	attackRate  float64
	decayRate   float64
	releaseRate float64
}

// New builds an ADSR with the given parameters and sample rate, with
// rates precomputed.
func New(attack, decay, sustain, release, sampleRate float64) *ADSR {
	a := &ADSR{
		Attack:     attack,
		Decay:      decay,
		Sustain:    clamp01(sustain),
		Release:    release,
		SampleRate: sampleRate,
		state:      Idle,
	}
	a.Recompute()
	return a
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// rate computes distance / (seconds * sampleRate), or the sentinel -1
// when seconds <= 0 ("skip this phase").
func rate(distance, seconds, sampleRate float64) float64 {
	if seconds <= 0 {
		return -1
	}
	return distance / (seconds * sampleRate)
}

// Recompute recalculates attack/decay rates whenever parameters or the
// sample rate change. If the new rates make the current phase
// impossible (its rate sentinel is -1), the envelope advances
// immediately to the next phase.
func (a *ADSR) Recompute() {
	a.Sustain = clamp01(a.Sustain)
	a.attackRate = rate(1.0, a.Attack, a.SampleRate)
	a.decayRate = rate(1.0-a.Sustain, a.Decay, a.SampleRate)

	switch a.state {
	case Attack:
		if a.attackRate <= 0 {
			a.advanceFromAttack()
		}
	case Decay:
		if a.decayRate <= 0 {
			a.state = Sustain
			a.envelopeVal = a.Sustain
		}
	case Sustain:
		a.envelopeVal = a.Sustain
	}
}

// NoteOn triggers the envelope from IDLE into whichever phase is
// reachable given the current rates.
func (a *ADSR) NoteOn() {
	a.state = Attack
	if a.attackRate > 0 {
		return
	}
	a.advanceFromAttack()
}

func (a *ADSR) advanceFromAttack() {
	a.envelopeVal = 1.0
	if a.decayRate > 0 {
		a.state = Decay
		return
	}
	a.state = Sustain
	a.envelopeVal = a.Sustain
}

// NoteOff transitions to RELEASE, computing the release rate from the
// current envelope value so the release always ramps smoothly to zero
// regardless of which phase the note was in. A no-op from IDLE.
func (a *ADSR) NoteOff() {
	if a.state == Idle {
		return
	}
	a.state = Release
	a.releaseRate = rate(a.envelopeVal, a.Release, a.SampleRate)
	if a.releaseRate <= 0 {
		// Release <= 0 means an instant cutoff to silence.
		a.envelopeVal = 0
		a.state = Idle
	}
}

// Tick advances the envelope by one sample and returns the new value.
func (a *ADSR) Tick() float64 {
	switch a.state {
	case Idle:
		return 0
	case Attack:
		a.envelopeVal += a.attackRate
		if a.envelopeVal >= 1.0 {
			a.envelopeVal = 1.0
			if a.decayRate > 0 {
				a.state = Decay
			} else {
				a.state = Sustain
				a.envelopeVal = a.Sustain
			}
		}
	case Decay:
		a.envelopeVal -= a.decayRate
		if a.envelopeVal <= a.Sustain {
			a.envelopeVal = a.Sustain
			a.state = Sustain
		}
	case Sustain:
		a.envelopeVal = a.Sustain
	case Release:
		a.envelopeVal -= a.releaseRate
		if a.envelopeVal <= 0 {
			a.envelopeVal = 0
			a.state = Idle
		}
	}
	return a.envelopeVal
}

// Value returns the current envelope value without advancing it.
func (a *ADSR) Value() float64 { return a.envelopeVal }

// State returns the current phase.
func (a *ADSR) State() State { return a.state }

// Idle reports whether the envelope has returned to the idle phase.
func (a *ADSR) Idle() bool { return a.state == Idle }

// Reset forces the envelope back to idle with zero output, used when a
// voice is recycled by the stealing pool.
func (a *ADSR) Reset() {
	a.state = Idle
	a.envelopeVal = 0
}
