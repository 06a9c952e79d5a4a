// Package config loads the engine's static configuration from a TOML
// file using BurntSushi/toml.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Engine is the static, load-once configuration for the whole process.
// CLI flags (see cmd/daz-sequencer) can override individual fields
// after loading.
type Engine struct {
	SampleRate          int     `toml:"sample_rate"`
	BufferSize          int     `toml:"buffer_size"`
	TicksPerQuarterNote int     `toml:"ticks_per_quarter_note"`
	Bars                int     `toml:"bars"`
	DefaultTempo        float64 `toml:"default_tempo"`
	ProjectDir          string  `toml:"project_dir"`
	SamplerPresetRoot   string  `toml:"sampler_preset_root"`
}

// Default returns the engine configuration used when no config file is
// present.
func Default() Engine {
	return Engine{
		SampleRate:          48000,
		BufferSize:          128,
		TicksPerQuarterNote: 960,
		Bars:                2,
		DefaultTempo:        95,
		ProjectDir:          "./saves",
		SamplerPresetRoot:   "./data/sampler-presets",
	}
}

// Load reads engine.toml at path, falling back to Default() for any
// field left unset in the file.
func Load(path string) (Engine, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Engine{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}
