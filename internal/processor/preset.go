package processor

import "daz-sequencer/internal/voice"

// Preset is the capability a sound-bank entry exposes to a Processor: a
// display name and a factory for a fresh Voice. Sampler/Wavetable/FM/
// EPiano each get their own Preset implementation below, and the
// Processor never downcasts one.
type Preset interface {
	Name() string
	NewVoice() voice.Voice
}

// SamplerPreset wraps a voice.SamplerPreset with the display name the
// UI and project files need.
type SamplerPreset struct {
	PresetName string
	Preset     voice.SamplerPreset
}

func (p *SamplerPreset) Name() string       { return p.PresetName }
func (p *SamplerPreset) NewVoice() voice.Voice { return voice.NewSamplerVoice(&p.Preset) }

// WavetablePreset wraps a voice.WavetablePreset.
type WavetablePreset struct {
	PresetName string
	Preset     voice.WavetablePreset
}

func (p *WavetablePreset) Name() string       { return p.PresetName }
func (p *WavetablePreset) NewVoice() voice.Voice { return voice.NewWavetableVoice(&p.Preset) }

// FMPreset wraps a voice.FMPreset.
type FMPreset struct {
	PresetName string
	Preset     voice.FMPreset
}

func (p *FMPreset) Name() string       { return p.PresetName }
func (p *FMPreset) NewVoice() voice.Voice { return voice.NewFMVoice(&p.Preset) }

// EPianoPreset wraps a voice.EPianoPreset.
type EPianoPreset struct {
	PresetName string
	Preset     voice.EPianoPreset
}

func (p *EPianoPreset) Name() string       { return p.PresetName }
func (p *EPianoPreset) NewVoice() voice.Voice { return voice.NewEPianoVoice(&p.Preset) }
