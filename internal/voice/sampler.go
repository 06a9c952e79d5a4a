package voice

import (
	"math"

	"daz-sequencer/internal/envelope"
	"daz-sequencer/internal/sample"
)

// SamplerPreset is the static configuration for a Sampler voice: a set of
// keyed sample regions plus the amplitude envelope applied on top of
// whatever the sample itself contains.
type SamplerPreset struct {
	Sources    []sample.Source
	Attack     float64
	Decay      float64
	Sustain    float64
	Release    float64
	SampleRate float64
}

// SamplerVoice plays back recorded PCM audio, pitch-shifted by linear
// resampling from the source's root note.
type SamplerVoice struct {
	preset *SamplerPreset
	source *sample.Source
	env    *envelope.ADSR

	note     uint8
	velocity uint8
	position float64
	step     float64
	oneShot  bool
	active   bool
}

// NewSamplerVoice builds an idle voice bound to preset. The preset is
// shared read-only across every voice instance drawing from it.
func NewSamplerVoice(preset *SamplerPreset) *SamplerVoice {
	return &SamplerVoice{
		preset: preset,
		env:    envelope.New(preset.Attack, preset.Decay, preset.Sustain, preset.Release, preset.SampleRate),
	}
}

func (v *SamplerVoice) StartNote(note, velocity uint8) {
	var picked *sample.Source
	for i := range v.preset.Sources {
		if v.preset.Sources[i].Covers(note) {
			picked = &v.preset.Sources[i]
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
	v.oneShot = picked.OneShot
	v.position = 0
	ratio := float64(int(note) - int(picked.RootNote))
	v.step = semitoneRatio(ratio)
	v.env.Reset()
	v.env.NoteOn()
	v.active = true
}

func (v *SamplerVoice) StopNote() {
	if v.oneShot {
		return
	}
	v.env.NoteOff()
}

func (v *SamplerVoice) Stop() {
	v.env.Reset()
	v.active = false
}

func (v *SamplerVoice) Note() uint8 { return v.note }

func (v *SamplerVoice) EnvelopeLevel() float64 { return v.env.Value() }

func (v *SamplerVoice) Active() bool {
	return v.active && v.source != nil && int(v.position) < v.source.PCM.Frames() && !v.env.Idle()
}

func (v *SamplerVoice) Render(out []float32, frames, channels int) {
	if !v.Active() {
		return
	}
	gain := velocityGain(v.velocity)
	pcm := v.source.PCM
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

		env := v.env.Tick()
		amp := env * gain

		base := i * channels
		out[base] += float32(l * amp)
		if channels > 1 {
			out[base+1] += float32(r * amp)
		}

		v.position += v.step
		if v.env.Idle() {
			v.active = false
		}
	}
}

func semitoneRatio(semitones float64) float64 {
	return math.Pow(2.0, semitones/12.0)
}
