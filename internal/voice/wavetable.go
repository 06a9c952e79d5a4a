package voice

import (
	"daz-sequencer/internal/dsp"
	"daz-sequencer/internal/envelope"
	"daz-sequencer/internal/oscillator"
)

// WavetablePreset configures a subtractive-synthesis voice: two detuned
// oscillators feeding a resonant filter, each with its own envelope.
type WavetablePreset struct {
	Shape          oscillator.Shape
	DetuneCents    float64
	FilterType     dsp.BiquadType
	FilterCutoff   float64
	FilterQ        float64
	FilterEnvAmt   float64
	Attack         float64
	Decay          float64
	Sustain        float64
	Release        float64
	FilterAttack   float64
	FilterDecay    float64
	FilterSustain  float64
	FilterRelease  float64
	SampleRate     float64
}

// WavetableVoice is a two-oscillator subtractive voice: osc1/osc2 detuned
// against each other, summed, then run through a per-voice resonant
// filter whose cutoff is modulated by its own envelope.
type WavetableVoice struct {
	preset *WavetablePreset

	phase1, phase2 oscillator.Phase
	freq           float64

	ampEnv    *envelope.ADSR
	filterEnv *envelope.ADSR
	filter    dsp.Coefficients

	note     uint8
	velocity uint8
	active   bool
}

// NewWavetableVoice builds an idle voice bound to preset.
func NewWavetableVoice(preset *WavetablePreset) *WavetableVoice {
	return &WavetableVoice{
		preset:    preset,
		ampEnv:    envelope.New(preset.Attack, preset.Decay, preset.Sustain, preset.Release, preset.SampleRate),
		filterEnv: envelope.New(preset.FilterAttack, preset.FilterDecay, preset.FilterSustain, preset.FilterRelease, preset.SampleRate),
	}
}

func (v *WavetableVoice) StartNote(note, velocity uint8) {
	v.note = note
	v.velocity = velocity
	v.freq = oscillator.NoteToFrequency(float64(note))
	v.phase1.SetValue(0)
	v.phase2.SetValue(0)
	v.ampEnv.Reset()
	v.filterEnv.Reset()
	v.ampEnv.NoteOn()
	v.filterEnv.NoteOn()
	v.filter.Reset()
	v.active = true
}

func (v *WavetableVoice) StopNote() {
	v.ampEnv.NoteOff()
	v.filterEnv.NoteOff()
}

func (v *WavetableVoice) Stop() {
	v.ampEnv.Reset()
	v.filterEnv.Reset()
	v.active = false
}

func (v *WavetableVoice) Note() uint8 { return v.note }

func (v *WavetableVoice) EnvelopeLevel() float64 { return v.ampEnv.Value() }

func (v *WavetableVoice) Active() bool {
	return v.active && !v.ampEnv.Idle()
}

func (v *WavetableVoice) Render(out []float32, frames, channels int) {
	if !v.Active() {
		return
	}
	sr := v.preset.SampleRate
	detuneRatio := semitoneRatio(v.preset.DetuneCents / 100.0)
	inc1 := v.freq / sr
	inc2 := (v.freq * detuneRatio) / sr
	gain := velocityGain(v.velocity)

	for i := 0; i < frames; i++ {
		s1 := v.phase1.Sample(v.preset.Shape)
		s2 := v.phase2.Sample(v.preset.Shape)
		mixed := (s1 + s2) * 0.5

		filterEnvVal := v.filterEnv.Tick()
		cutoff := v.preset.FilterCutoff + filterEnvVal*v.preset.FilterEnvAmt
		v.filter.Configure(v.preset.FilterType, cutoff, v.preset.FilterQ, sr)
		filtered := v.filter.Process(mixed)

		ampEnvVal := v.ampEnv.Tick()
		sampleVal := filtered * ampEnvVal * gain

		base := i * channels
		out[base] += float32(sampleVal)
		if channels > 1 {
			out[base+1] += float32(sampleVal)
		}

		v.phase1.Advance(inc1)
		v.phase2.Advance(inc2)

		if v.ampEnv.Idle() {
			v.active = false
		}
	}
}
