// Command daz-sequencer wires the audio engine, SDL2 host, and the
// optional Fyne monitor window together and runs the process.
package main

import (
	"flag"
	"fmt"
	"os"

	"daz-sequencer/internal/broadcast"
	"daz-sequencer/internal/config"
	"daz-sequencer/internal/debug"
	"daz-sequencer/internal/dsp"
	"daz-sequencer/internal/host"
	"daz-sequencer/internal/metronome"
	"daz-sequencer/internal/midi"
	"daz-sequencer/internal/processor"
	"daz-sequencer/internal/project"
	"daz-sequencer/internal/ring"
	"daz-sequencer/internal/seqstate"
	"daz-sequencer/internal/sequencer"
	"daz-sequencer/internal/ui"
	"daz-sequencer/internal/voice"
)

func main() {
	configPath := flag.String("config", "", "path to engine.toml (optional)")
	projectPath := flag.String("project", "", "path to a .daz project file to load at startup (optional)")
	headless := flag.Bool("headless", false, "run without the Fyne monitor window")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "daz-sequencer: %v\n", err)
		os.Exit(1)
	}

	logger := debug.NewLogger(2048)
	logger.SetMinLevel(debug.LogLevelInfo)
	defer logger.Shutdown()

	bus := broadcast.New[seqstate.Message]()
	audioReceiver := bus.Register()

	audioState := seqstate.New(cfg.TicksPerQuarterNote, cfg.Bars, cfg.DefaultTempo)
	uiState := seqstate.New(cfg.TicksPerQuarterNote, cfg.Bars, cfg.DefaultTempo)

	instruments, procs, err := buildDefaultRig(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "daz-sequencer: %v\n", err)
		os.Exit(1)
	}
	audioState.Instruments = instruments
	uiState.Instruments = append([]seqstate.InstrumentData(nil), instruments...)

	if *projectPath != "" {
		loaded, err := project.Load(*projectPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "daz-sequencer: loading project: %v\n", err)
			os.Exit(1)
		}
		for i := range loaded {
			if i >= len(procs) {
				break
			}
			procs[i].SetNotesEvents(loaded[i].PairedNotes)
			procs[i].Volume = loaded[i].Volume
			procs[i].Pan = loaded[i].Pan
			procs[i].ReverbSend = loaded[i].ReverbSend
			procs[i].SetCurrentPresetID(loaded[i].CurrentPresetID)

			audioState.Instruments[i].Volume = loaded[i].Volume
			audioState.Instruments[i].Pan = loaded[i].Pan
			audioState.Instruments[i].ReverbSend = loaded[i].ReverbSend
			audioState.Instruments[i].CurrentPresetID = procs[i].GetCurrentPresetID()
			audioState.Instruments[i].PairedNotes = loaded[i].PairedNotes
			uiState.Instruments[i] = audioState.Instruments[i]
		}
		logger.LogProject(debug.LogLevelInfo, "loaded project", map[string]interface{}{"path": *projectPath})
	}

	midiIn := ring.New[midi.Message](256)
	metro := metronome.New(float64(cfg.SampleRate))
	reverb := dsp.NewReverb(float64(cfg.SampleRate))
	// Each processor's dry signal is already mixed straight into the
	// output buffer during the engine's per-processor mixdown; the
	// shared reverb only ever contributes the wet tail from ReverbSend.
	reverb.SetDryLevel(0)

	engine := sequencer.NewEngine(float64(cfg.SampleRate), 2, audioState, audioReceiver, bus, midiIn, procs, metro, reverb)

	sdlHost, err := host.New(engine, bus, midiIn, logger, cfg.SampleRate, 2, cfg.BufferSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "daz-sequencer: %v\n", err)
		os.Exit(1)
	}
	defer sdlHost.Close()
	go sdlHost.Run()

	if *headless {
		select {}
	}

	monitor := ui.New(bus, uiState, logger)
	go monitor.Run()
	monitor.ShowAndRun()
}

// buildDefaultRig constructs the fixed four-instrument set (Sampler,
// Wavetable, FM, E-piano), each with one starter preset, so the process
// has something to play the moment it starts. The sampler's keyed
// regions are loaded from cfg.SamplerPresetRoot/preset.json when
// present; with no preset on disk (sample-asset layout is a deployment
// concern, not something this repo ships), the sampler instrument falls
// back to an envelope-only preset with no keyed regions, so it stays
// silent rather than erroring the whole process out.
func buildDefaultRig(cfg config.Engine, logger *debug.Logger) ([]seqstate.InstrumentData, []*processor.Processor, error) {
	sampleRate := float64(cfg.SampleRate)

	samplerVoicePreset := voice.SamplerPreset{
		Attack: 0.001, Decay: 0.1, Sustain: 0.8, Release: 0.2,
		SampleRate: sampleRate,
	}
	samplerPresetName := "default"
	if cfg.SamplerPresetRoot != "" {
		if rec, loaded, err := project.LoadSamplerPreset(cfg.SamplerPresetRoot, sampleRate); err != nil {
			logger.LogProject(debug.LogLevelWarning, "no sampler preset on disk, starting silent", map[string]interface{}{
				"path": cfg.SamplerPresetRoot, "error": err.Error(),
			})
		} else {
			samplerVoicePreset = *loaded
			samplerPresetName = rec.Name
		}
	}
	samplerPreset := &processor.SamplerPreset{
		PresetName: samplerPresetName,
		Preset:     samplerVoicePreset,
	}
	wavetablePreset := &processor.WavetablePreset{
		PresetName: "default",
		Preset: voice.WavetablePreset{
			FilterCutoff: 4000, FilterQ: 0.7,
			Attack: 0.005, Decay: 0.1, Sustain: 0.7, Release: 0.3,
			FilterAttack: 0.005, FilterDecay: 0.2, FilterSustain: 0.3, FilterRelease: 0.3,
			SampleRate: sampleRate,
		},
	}
	fmPreset := &processor.FMPreset{
		PresetName: "default",
		Preset: voice.FMPreset{
			Operators: [4]voice.FMOperatorPreset{
				{Ratio: 1.0, Level: 1.0, Attack: 0.001, Decay: 0.2, Sustain: 0.6, Release: 0.3},
				{Ratio: 2.0, Level: 0.6, Attack: 0.001, Decay: 0.1, Sustain: 0.4, Release: 0.2},
				{Ratio: 1.0, Level: 1.0, Attack: 0.001, Decay: 0.2, Sustain: 0.6, Release: 0.3},
				{Ratio: 3.01, Level: 0.4, Attack: 0.001, Decay: 0.1, Sustain: 0.3, Release: 0.2},
			},
			Algorithm:  voice.AlgorithmStack,
			SampleRate: sampleRate,
		},
	}
	epianoPreset := &processor.EPianoPreset{
		PresetName: "default",
		Preset: voice.EPianoPreset{
			Attack: 0.001, Decay: 0.3, Sustain: 0.5, Release: 0.5,
			MuffleCutoff: 5000, TremoloRate: 5, TremoloDepth: 0,
			SampleRate: sampleRate,
		},
	}

	names := []string{"sampler", "wavetable", "fm", "epiano"}
	presets := [][]processor.Preset{
		{samplerPreset}, {wavetablePreset}, {fmPreset}, {epianoPreset},
	}

	instruments := make([]seqstate.InstrumentData, len(names))
	procs := make([]*processor.Processor, len(names))
	for i, name := range names {
		procs[i] = processor.New(name, presets[i])
		instruments[i] = seqstate.InstrumentData{
			Name:        name,
			Volume:      1.0,
			PresetNames: procs[i].PresetNames(),
		}
	}
	return instruments, procs, nil
}
