package voice

import (
	"math"

	"daz-sequencer/internal/dsp"
	"daz-sequencer/internal/envelope"
	"daz-sequencer/internal/sample"
)

// EPianoVelocityLayer is one recorded dynamic layer of the electric
// piano: a set of keyed sample regions plus the minimum velocity that
// selects this layer.
type EPianoVelocityLayer struct {
	MinVelocity uint8
	Sources     []sample.Source
}

// EPianoPreset configures the sample-table e-piano engine: several
// velocity layers, a "muffle" tone filter, a fixed pan position, and an
// optional amplitude tremolo.
type EPianoPreset struct {
	Layers       []EPianoVelocityLayer
	Attack       float64
	Decay        float64
	Sustain      float64
	Release      float64
	MuffleCutoff float64
	Pan          float64
	TremoloRate  float64
	TremoloDepth float64
	SampleRate   float64
}

// EPianoVoice plays back velocity-layered piano samples through a fixed
// "muffle" lowpass and an optional tremolo, using the looser
// EPianoSilenceThreshold rather than the sampler's envelope-idle cutoff
// since a sustained tremolo can keep the envelope from ever settling to
// true silence during release.
type EPianoVoice struct {
	preset *EPianoPreset
	env    *envelope.ADSR
	muffle dsp.Coefficients

	source       *sample.Source
	position     float64
	step         float64
	tremoloPhase float64

	note     uint8
	velocity uint8
	active   bool
}

// NewEPianoVoice builds an idle voice bound to preset.
func NewEPianoVoice(preset *EPianoPreset) *EPianoVoice {
	return &EPianoVoice{
		preset: preset,
		env:    envelope.New(preset.Attack, preset.Decay, preset.Sustain, preset.Release, preset.SampleRate),
	}
}

func (v *EPianoVoice) StartNote(note, velocity uint8) {
	layer := pickLayer(v.preset.Layers, velocity)
	if layer == nil {
		v.active = false
		return
	}
	var picked *sample.Source
	for i := range layer.Sources {
		if layer.Sources[i].Covers(note) {
			picked = &layer.Sources[i]
			break
		}
	}
	if picked == nil {
		v.active = false
		return
	}

	v.source = picked
	v.note = note
	v.velocity = velocity
	v.position = 0
	v.tremoloPhase = 0
	ratio := float64(int(note) - int(picked.RootNote))
	v.step = math.Pow(2.0, ratio/12.0)
	v.env.Reset()
	v.env.NoteOn()
	v.muffle.Configure(dsp.LowPass, v.preset.MuffleCutoff, 0.707, v.preset.SampleRate)
	v.muffle.Reset()
	v.active = true
}

func pickLayer(layers []EPianoVelocityLayer, velocity uint8) *EPianoVelocityLayer {
	var best *EPianoVelocityLayer
	for i := range layers {
		if velocity >= layers[i].MinVelocity {
			if best == nil || layers[i].MinVelocity > best.MinVelocity {
				best = &layers[i]
			}
		}
	}
	return best
}

func (v *EPianoVoice) StopNote() {
	v.env.NoteOff()
}

func (v *EPianoVoice) Stop() {
	v.env.Reset()
	v.active = false
}

func (v *EPianoVoice) Note() uint8 { return v.note }

func (v *EPianoVoice) EnvelopeLevel() float64 { return v.env.Value() }

func (v *EPianoVoice) Active() bool {
	if !v.active || v.source == nil {
		return false
	}
	return v.env.Value() >= EPianoSilenceThreshold || v.env.State() != envelope.Release
}

func (v *EPianoVoice) Render(out []float32, frames, channels int) {
	if !v.active || v.source == nil {
		return
	}
	gain := velocityGain(v.velocity)
	pcm := v.source.PCM
	tremoloInc := 2 * math.Pi * v.preset.TremoloRate / v.preset.SampleRate

	panL, panR := dsp.EqualPowerPan(v.preset.Pan)

	for i := 0; i < frames; i++ {
		if int(v.position) >= pcm.Frames() {
			v.active = false
			break
		}
		idx := int(v.position)
		frac := v.position - float64(idx)
		l0, r0 := pcm.At(idx)
		l1, r1 := pcm.At(idx + 1)
		l := float64(l0) + (float64(l1)-float64(l0))*frac
		r := float64(r0) + (float64(r1)-float64(r0))*frac

		mono := v.muffle.Process((l + r) * 0.5)

		env := v.env.Tick()
		tremolo := 1.0 - v.preset.TremoloDepth*0.5*(1-math.Cos(v.tremoloPhase))
		amp := env * gain * tremolo

		base := i * channels
		out[base] += float32(mono * amp * panL)
		if channels > 1 {
			out[base+1] += float32(mono * amp * panR)
		}

		v.position += v.step
		v.tremoloPhase += tremoloInc
		if v.tremoloPhase > 2*math.Pi {
			v.tremoloPhase -= 2 * math.Pi
		}
		if v.env.Value() < EPianoSilenceThreshold && v.env.State() == envelope.Release {
			v.active = false
		}
	}
}
