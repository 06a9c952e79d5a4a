package voice

import (
	"daz-sequencer/internal/envelope"
	"daz-sequencer/internal/oscillator"
)

// FMAlgorithm selects how the four operators are wired together. Numbers
// follow classic DX7-style algorithm numbering for 4-operator voices.
type FMAlgorithm uint8

const (
	// AlgorithmStack chains all four operators in series: 4 modulates 3,
	// 3 modulates 2, 2 modulates 1 (the carrier).
	AlgorithmStack FMAlgorithm = iota
	// AlgorithmTwoStacks pairs (4->3) and (2->1) as two independent
	// modulator/carrier stacks, summed.
	AlgorithmTwoStacks
	// AlgorithmThreeCarriers uses operator 4 to modulate operator 1 only;
	// operators 2 and 3 are carriers on their own.
	AlgorithmThreeCarriers
)

// FMOperatorPreset configures one of the four operators.
type FMOperatorPreset struct {
	Ratio   float64
	Detune  float64
	Level   float64
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// FMPreset configures a full 4-operator FM voice.
type FMPreset struct {
	Operators  [4]FMOperatorPreset
	Algorithm  FMAlgorithm
	SampleRate float64
}

type fmOperator struct {
	preset *FMOperatorPreset
	phase  oscillator.Phase
	env    *envelope.ADSR
}

func newFMOperator(preset *FMOperatorPreset, sampleRate float64) *fmOperator {
	return &fmOperator{
		preset: preset,
		env:    envelope.New(preset.Attack, preset.Decay, preset.Sustain, preset.Release, sampleRate),
	}
}

// FMVoice is a 4-operator FM synthesis voice: each operator is a phase
// oscillator with its own envelope, wired into the others by Algorithm.
type FMVoice struct {
	preset *FMPreset
	ops    [4]*fmOperator

	note     uint8
	velocity uint8
	baseFreq float64
	active   bool
}

// NewFMVoice builds an idle voice bound to preset.
func NewFMVoice(preset *FMPreset) *FMVoice {
	v := &FMVoice{preset: preset}
	for i := range preset.Operators {
		v.ops[i] = newFMOperator(&preset.Operators[i], preset.SampleRate)
	}
	return v
}

func (v *FMVoice) StartNote(note, velocity uint8) {
	v.note = note
	v.velocity = velocity
	v.baseFreq = oscillator.NoteToFrequency(float64(note))
	for _, op := range v.ops {
		op.phase.SetValue(0)
		op.env.Reset()
		op.env.NoteOn()
	}
	v.active = true
}

func (v *FMVoice) StopNote() {
	for _, op := range v.ops {
		op.env.NoteOff()
	}
}

func (v *FMVoice) Stop() {
	for _, op := range v.ops {
		op.env.Reset()
	}
	v.active = false
}

func (v *FMVoice) Note() uint8 { return v.note }

// EnvelopeLevel reports the carrier's (operator 1) envelope, which is
// what the voice pool's steal heuristic cares about.
func (v *FMVoice) EnvelopeLevel() float64 { return v.ops[0].env.Value() }

func (v *FMVoice) Active() bool {
	return v.active && !v.ops[0].env.Idle()
}

func (v *FMVoice) Render(out []float32, frames, channels int) {
	if !v.Active() {
		return
	}
	sr := v.preset.SampleRate
	gain := velocityGain(v.velocity)

	incs := [4]float64{}
	for i, op := range v.ops {
		freq := v.baseFreq*op.preset.Ratio + op.preset.Detune
		incs[i] = freq / sr
	}

	for i := 0; i < frames; i++ {
		var opOut [4]float64
		envs := [4]float64{}
		for o := 0; o < 4; o++ {
			envs[o] = v.ops[o].env.Tick()
		}

		switch v.preset.Algorithm {
		case AlgorithmTwoStacks:
			v.ops[3].phase.Advance(incs[3])
			opOut[3] = v.ops[3].phase.Sample(oscillator.Sine) * envs[3] * v.ops[3].preset.Level
			v.ops[2].phase.Advance(incs[2] + opOut[3])
			opOut[2] = v.ops[2].phase.Sample(oscillator.Sine) * envs[2] * v.ops[2].preset.Level

			v.ops[1].phase.Advance(incs[1])
			opOut[1] = v.ops[1].phase.Sample(oscillator.Sine) * envs[1] * v.ops[1].preset.Level
			v.ops[0].phase.Advance(incs[0] + opOut[1])
			opOut[0] = v.ops[0].phase.Sample(oscillator.Sine) * envs[0] * v.ops[0].preset.Level

			opOut[0] = (opOut[0] + opOut[2]) * 0.5
		case AlgorithmThreeCarriers:
			v.ops[3].phase.Advance(incs[3])
			opOut[3] = v.ops[3].phase.Sample(oscillator.Sine) * envs[3] * v.ops[3].preset.Level

			v.ops[0].phase.Advance(incs[0] + opOut[3])
			opOut[0] = v.ops[0].phase.Sample(oscillator.Sine) * envs[0] * v.ops[0].preset.Level

			v.ops[1].phase.Advance(incs[1])
			opOut[1] = v.ops[1].phase.Sample(oscillator.Sine) * envs[1] * v.ops[1].preset.Level

			v.ops[2].phase.Advance(incs[2])
			opOut[2] = v.ops[2].phase.Sample(oscillator.Sine) * envs[2] * v.ops[2].preset.Level

			opOut[0] = (opOut[0] + opOut[1] + opOut[2]) / 3.0
		default: // AlgorithmStack
			v.ops[3].phase.Advance(incs[3])
			opOut[3] = v.ops[3].phase.Sample(oscillator.Sine) * envs[3] * v.ops[3].preset.Level

			v.ops[2].phase.Advance(incs[2] + opOut[3])
			opOut[2] = v.ops[2].phase.Sample(oscillator.Sine) * envs[2] * v.ops[2].preset.Level

			v.ops[1].phase.Advance(incs[1] + opOut[2])
			opOut[1] = v.ops[1].phase.Sample(oscillator.Sine) * envs[1] * v.ops[1].preset.Level

			v.ops[0].phase.Advance(incs[0] + opOut[1])
			opOut[0] = v.ops[0].phase.Sample(oscillator.Sine) * envs[0] * v.ops[0].preset.Level
		}

		sampleVal := opOut[0] * gain

		base := i * channels
		out[base] += float32(sampleVal)
		if channels > 1 {
			out[base+1] += float32(sampleVal)
		}

		if v.ops[0].env.Idle() {
			v.active = false
		}
	}
}
