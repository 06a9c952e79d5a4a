// Package processor implements a uniform contract over all four sound
// generators: each Processor owns a bounded, steal-on-overflow voice
// pool, a recorded NoteEvent list, a preset bank, and a current preset
// index.
package processor

import (
	"sort"

	"daz-sequencer/internal/seqstate"
	"daz-sequencer/internal/voice"
)

// MaxVoices is the per-processor polyphony ceiling.
const MaxVoices = 32

// Processor is the audio-side owner of one sound generator. It is never
// downcast to a concrete Sampler/Wavetable/FM/EPiano type by the engine;
// all type-specific behavior lives behind the Preset's NewVoice factory.
type Processor struct {
	name            string
	presets         []Preset
	currentPresetID int

	voices      [MaxVoices]voice.Voice
	activeCount int

	events []seqstate.NoteEvent

	Volume     float64
	Pan        float64
	ReverbSend float64

	scratch []float32
}

// New builds a processor bound to name and presets, with preset 0
// selected and an empty voice pool.
func New(name string, presets []Preset) *Processor {
	return &Processor{
		name:    name,
		presets: presets,
		Volume:  1.0,
		Pan:     0,
	}
}

// Prepare (pre-)allocates the processor's private render buffer for the
// configured callback size. Called off the audio path whenever the host
// buffer size changes.
func (p *Processor) Prepare(bufferFrames, channels int) {
	need := bufferFrames * channels
	if cap(p.scratch) < need {
		p.scratch = make([]float32, need)
	} else {
		p.scratch = p.scratch[:need]
	}
}

// GetName returns the processor's display name.
func (p *Processor) GetName() string { return p.name }

// GetCurrentPresetID returns the active preset index.
func (p *Processor) GetCurrentPresetID() int { return p.currentPresetID }

// SetCurrentPresetID clamps and sets the active preset index; an
// out-of-range id clamps to the nearest valid index rather than erroring.
func (p *Processor) SetCurrentPresetID(id int) {
	if len(p.presets) == 0 {
		return
	}
	if id < 0 {
		id = 0
	}
	if id >= len(p.presets) {
		id = len(p.presets) - 1
	}
	p.currentPresetID = id
}

// GetPresets returns the preset bank.
func (p *Processor) GetPresets() []Preset { return p.presets }

// PresetNames returns the display names of every preset, used to
// populate the UI mirror's preset_names field.
func (p *Processor) PresetNames() []string {
	names := make([]string, len(p.presets))
	for i, ps := range p.presets {
		names[i] = ps.Name()
	}
	return names
}

// GetNotesEvents returns the recorded note-event list.
func (p *Processor) GetNotesEvents() []seqstate.NoteEvent { return p.events }

// SetNotesEvents replaces the recorded note-event list wholesale, used
// when loading a project file.
func (p *Processor) SetNotesEvents(events []seqstate.NoteEvent) { p.events = events }

// AddNotesEvent appends a recorded event and stable-sorts by tick_on so
// playback always walks the event list in time order.
func (p *Processor) AddNotesEvent(e seqstate.NoteEvent) {
	p.events = append(p.events, e)
	sort.SliceStable(p.events, func(i, j int) bool {
		return p.events[i].TickOn < p.events[j].TickOn
	})
}

// NoteOn starts a new voice for note/velocity from the current preset,
// stealing the lowest-envelope active voice if the pool is already full.
func (p *Processor) NoteOn(note, velocity uint8) {
	if p.currentPresetID < 0 || p.currentPresetID >= len(p.presets) {
		return
	}
	preset := p.presets[p.currentPresetID]
	v := preset.NewVoice()
	v.StartNote(note, velocity)

	if p.activeCount < len(p.voices) {
		p.voices[p.activeCount] = v
		p.activeCount++
		return
	}

	steal := 0
	lowest := p.voices[0].EnvelopeLevel()
	for i := 1; i < p.activeCount; i++ {
		lvl := p.voices[i].EnvelopeLevel()
		if lvl < lowest {
			lowest = lvl
			steal = i
		}
	}
	p.voices[steal].Stop()
	p.voices[steal] = v
}

// NoteOff releases the most recently started active voice still playing
// note.
func (p *Processor) NoteOff(note uint8) {
	for i := p.activeCount - 1; i >= 0; i-- {
		if p.voices[i].Note() == note && p.voices[i].Active() {
			p.voices[i].StopNote()
			return
		}
	}
}

// AllNoteOff immediately silences every active voice (no release tail),
// used by PlayStop-to-stopped and UndoLastSession.
func (p *Processor) AllNoteOff() {
	for i := 0; i < p.activeCount; i++ {
		p.voices[i].Stop()
	}
	p.activeCount = 0
}

// ActiveVoiceCount reports how many voices are currently occupying the
// pool, which is always bounded by MaxVoices.
func (p *Processor) ActiveVoiceCount() int { return p.activeCount }

// Render zeroes the processor's scratch buffer, renders every active
// voice into it, compacts finished voices out of the pool by
// swap-remove, and returns the buffer for the engine to meter and mix.
func (p *Processor) Render(frames, channels int) []float32 {
	p.Prepare(frames, channels)
	for i := range p.scratch {
		p.scratch[i] = 0
	}
	for i := 0; i < p.activeCount; i++ {
		p.voices[i].Render(p.scratch, frames, channels)
	}
	for i := p.activeCount - 1; i >= 0; i-- {
		if !p.voices[i].Active() {
			last := p.activeCount - 1
			p.voices[i] = p.voices[last]
			p.voices[last] = nil
			p.activeCount--
		}
	}
	return p.scratch
}
