// Package metronome implements the click track: two short precomputed
// beep buffers mixed into the output whenever the sequencer crosses a
// tick boundary it cares about, built on internal/oscillator.
package metronome

import "daz-sequencer/internal/oscillator"

const (
	barFrequency  = 1000.0
	beatFrequency = 700.0
	beepSeconds   = 0.040
	beepGain      = 0.3
)

// Metronome mixes a bar-beep and a beat-beep into the audio stream on
// request, each a short fixed-frequency sine burst with a linear
// fade-out to avoid clicking.
type Metronome struct {
	sampleRate float64
	barBuffer  []float32
	beatBuffer []float32
	active     []activeBeep
}

type activeBeep struct {
	buffer []float32
	pos    int
}

// New precomputes the two beep buffers for sampleRate.
func New(sampleRate float64) *Metronome {
	m := &Metronome{sampleRate: sampleRate}
	m.barBuffer = buildBeep(barFrequency, sampleRate)
	m.beatBuffer = buildBeep(beatFrequency, sampleRate)
	return m
}

func buildBeep(frequency, sampleRate float64) []float32 {
	frames := int(beepSeconds * sampleRate)
	if frames < 1 {
		frames = 1
	}
	buf := make([]float32, frames)
	var phase oscillator.Phase
	inc := frequency / sampleRate
	for i := 0; i < frames; i++ {
		fade := 1.0 - float64(i)/float64(frames)
		buf[i] = float32(phase.Sample(oscillator.Sine) * beepGain * fade)
		phase.Advance(inc)
	}
	return buf
}

// Bip triggers a new beep: the higher-pitched bar beep on the first beat
// of a bar, the lower-pitched beat beep otherwise. Multiple beeps can be
// active simultaneously — a new bar beep does not cut off a
// still-ringing beat beep.
func (m *Metronome) Bip(startOfBar bool) {
	buf := m.beatBuffer
	if startOfBar {
		buf = m.barBuffer
	}
	m.active = append(m.active, activeBeep{buffer: buf})
}

// Process mixes every active beep into out (stereo-interleaved,
// frames*channels long), advancing each one and pruning any that have
// finished playing.
func (m *Metronome) Process(out []float32, frames, channels int) {
	if len(m.active) == 0 {
		return
	}
	live := m.active[:0]
	for _, beep := range m.active {
		for i := 0; i < frames && beep.pos < len(beep.buffer); i++ {
			sampleVal := beep.buffer[beep.pos]
			base := i * channels
			out[base] += sampleVal
			if channels > 1 {
				out[base+1] += sampleVal
			}
			beep.pos++
		}
		if beep.pos < len(beep.buffer) {
			live = append(live, beep)
		}
	}
	m.active = live
}
