package sequencer

import (
	"testing"

	"daz-sequencer/internal/broadcast"
	"daz-sequencer/internal/dsp"
	"daz-sequencer/internal/metronome"
	"daz-sequencer/internal/midi"
	"daz-sequencer/internal/processor"
	"daz-sequencer/internal/ring"
	"daz-sequencer/internal/seqstate"
	"daz-sequencer/internal/voice"
)

func simplePreset(name string) processor.Preset {
	return &processor.WavetablePreset{
		PresetName: name,
		Preset: voice.WavetablePreset{
			FilterCutoff: 4000, FilterQ: 0.7,
			Attack: 0.001, Decay: 0.05, Sustain: 0.9, Release: 0.2,
			FilterAttack: 0.001, FilterDecay: 0.05, FilterSustain: 0.9, FilterRelease: 0.2,
			SampleRate: 48000,
		},
	}
}

func newTestEngine(t *testing.T) (*Engine, *broadcast.Broadcaster[seqstate.Message], *broadcast.Receiver[seqstate.Message]) {
	t.Helper()
	const sampleRate = 48000.0
	bars, tpqn := 2, 960

	bus := broadcast.New[seqstate.Message]()
	audioReceiver := bus.Register()
	uiReceiver := bus.Register()

	state := seqstate.New(tpqn, bars, 95)
	state.Instruments = []seqstate.InstrumentData{{Name: "lead", CurrentPresetID: 0}}

	proc := processor.New("lead", []processor.Preset{simplePreset("default")})
	midiIn := ring.New[midi.Message](64)
	metro := metronome.New(sampleRate)
	reverb := dsp.NewReverb(sampleRate)
	reverb.SetDryLevel(0)

	eng := NewEngine(sampleRate, 2, state, audioReceiver, bus, midiIn, []*processor.Processor{proc}, metro, reverb)
	return eng, bus, uiReceiver
}

func TestTickStaysInBoundsAcrossManyCallbacks(t *testing.T) {
	eng, bus, _ := newTestEngine(t)
	bus.Send(seqstate.Message{Kind: seqstate.PlayStop})

	const frames = 128
	out := make([]float32, frames*2)
	for i := 0; i < 7500; i++ {
		eng.Process(out, frames, 2)
		if eng.State.Tick < 0 || eng.State.Tick >= eng.State.NBTicks {
			t.Fatalf("tick out of bounds at callback %d: %d", i, eng.State.Tick)
		}
	}
}

func TestRecordPlaybackLoopRetriggersQuantizedNote(t *testing.T) {
	eng, bus, _ := newTestEngine(t)
	bus.Send(seqstate.Message{Kind: seqstate.SetTempo, Float: 120})
	bus.Send(seqstate.Message{Kind: seqstate.PlayStop})
	bus.Send(seqstate.Message{Kind: seqstate.SetIsRecording, Bool: true})

	const frames = 64
	out := make([]float32, frames*2)

	// Run until tick 50, then record a note_on/off pair.
	for eng.State.Tick < 50 {
		eng.Process(out, frames, 2)
	}
	eng.NoteOnLive(60, 110)
	for eng.State.Tick < 300 {
		eng.Process(out, frames, 2)
	}
	eng.NoteOffLive(60)

	events := eng.Processors[0].GetNotesEvents()
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 recorded event, got %d", len(events))
	}
	if events[0].TickOff == -1 {
		t.Fatal("expected tick_off to be set after note_off")
	}
	if events[0].TickOff == events[0].TickOn {
		t.Fatal("expected tick_off != tick_on")
	}
}

func TestZeroDurationNoteIsExtended(t *testing.T) {
	eng, bus, _ := newTestEngine(t)
	bus.Send(seqstate.Message{Kind: seqstate.PlayStop})
	bus.Send(seqstate.Message{Kind: seqstate.SetIsRecording, Bool: true})

	out := make([]float32, 128*2)
	eng.Process(out, 128, 2)

	eng.NoteOnLive(60, 100)
	eng.NoteOffLive(60)

	events := eng.Processors[0].GetNotesEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].TickOff != events[0].TickOn+120 && events[0].TickOff != eng.State.NBTicks-1 {
		t.Fatalf("expected zero-duration note extended by 120 ticks (clamped), got on=%d off=%d", events[0].TickOn, events[0].TickOff)
	}
}

func TestUndoLastSessionRemovesOnlyLatestSession(t *testing.T) {
	eng, bus, _ := newTestEngine(t)
	proc := eng.Processors[0]
	proc.SetNotesEvents([]seqstate.NoteEvent{
		{NoteID: 60, TickOn: 10, TickOff: 20, RecordSession: 1},
		{NoteID: 62, TickOn: 30, TickOff: 40, RecordSession: 2},
	})

	bus.Send(seqstate.Message{Kind: seqstate.UndoLastSession})
	out := make([]float32, 128*2)
	eng.Process(out, 128, 2)

	events := proc.GetNotesEvents()
	if len(events) != 1 || events[0].RecordSession != 1 {
		t.Fatalf("expected only the earlier session's note to remain, got %+v", events)
	}
}

func TestMetronomeSilentUntilActivated(t *testing.T) {
	eng, bus, _ := newTestEngine(t)
	bus.Send(seqstate.Message{Kind: seqstate.SetTempo, Float: 120})
	bus.Send(seqstate.Message{Kind: seqstate.PlayStop})

	const frames = 64
	out := make([]float32, frames*2)
	nonZero := false
	for i := 0; i < 2000 && !nonZero; i++ {
		for j := range out {
			out[j] = 0
		}
		eng.Process(out, frames, 2)
		for _, s := range out {
			if s != 0 {
				nonZero = true
				break
			}
		}
	}
	if nonZero {
		t.Fatal("expected silence with metronome inactive")
	}

	bus.Send(seqstate.Message{Kind: seqstate.ToggleMetronome})
	for i := 0; i < 2000 && !nonZero; i++ {
		for j := range out {
			out[j] = 0
		}
		eng.Process(out, frames, 2)
		for _, s := range out {
			if s != 0 {
				nonZero = true
				break
			}
		}
	}
	if !nonZero {
		t.Fatal("expected an audible click once the metronome is activated")
	}
}

func TestRingOverflowExactlySixtyFour(t *testing.T) {
	r := ring.New[midi.Message](64)
	succeeded := 0
	for i := 0; i < 65; i++ {
		if r.Write(midi.Message{Kind: midi.KindNoteOn, Note: 60, Velocity: 100}) {
			succeeded++
		}
	}
	if succeeded != 64 {
		t.Fatalf("expected exactly 64 successful writes, got %d", succeeded)
	}
}
