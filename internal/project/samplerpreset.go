package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"daz-sequencer/internal/sample"
	"daz-sequencer/internal/voice"
)

// SamplerSampleRecord is one keyed sample entry in a sampler preset's
// JSON.
type SamplerSampleRecord struct {
	RootMIDINote uint8  `json:"root_midi_note"`
	NoteMIDIMin  uint8  `json:"note_midi_min"`
	NoteMIDIMax  uint8  `json:"note_midi_max"`
	FilePath     string `json:"filepath"`
	IsOneShot    bool   `json:"is_one_shot"`
}

// SamplerPresetRecord is the on-disk shape of preset.json.
type SamplerPresetRecord struct {
	ID      int                   `json:"id"`
	Name    string                `json:"name"`
	Attack  float64               `json:"attack"`
	Decay   float64               `json:"decay"`
	Sustain float64               `json:"sustain"`
	Release float64               `json:"release"`
	Samples []SamplerSampleRecord `json:"samples"`
}

// LoadSamplerPreset reads <presetDir>/preset.json and every sample file
// it references (resolved relative to presetDir), building a ready-to-
// play voice.SamplerPreset. This only ever runs at startup, off the
// audio path.
func LoadSamplerPreset(presetDir string, sampleRate float64) (*SamplerPresetRecord, *voice.SamplerPreset, error) {
	jsonPath := filepath.Join(presetDir, "preset.json")
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, nil, fmt.Errorf("project: read %s: %w", jsonPath, err)
	}

	var rec SamplerPresetRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, nil, fmt.Errorf("project: decode %s: %w", jsonPath, err)
	}

	sources := make([]sample.Source, 0, len(rec.Samples))
	for _, s := range rec.Samples {
		wavPath := filepath.Join(presetDir, s.FilePath)
		pcm, err := sample.LoadWAV(wavPath)
		if err != nil {
			return nil, nil, fmt.Errorf("project: sampler preset %q: %w", rec.Name, err)
		}
		sources = append(sources, sample.Source{
			PCM:      pcm,
			RootNote: s.RootMIDINote,
			NoteMin:  s.NoteMIDIMin,
			NoteMax:  s.NoteMIDIMax,
			OneShot:  s.IsOneShot,
		})
	}

	preset := &voice.SamplerPreset{
		Sources:    sources,
		Attack:     rec.Attack,
		Decay:      rec.Decay,
		Sustain:    rec.Sustain,
		Release:    rec.Release,
		SampleRate: sampleRate,
	}
	return &rec, preset, nil
}
