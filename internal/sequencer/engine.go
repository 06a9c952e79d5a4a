package sequencer

import (
	"daz-sequencer/internal/broadcast"
	"daz-sequencer/internal/dsp"
	"daz-sequencer/internal/metronome"
	"daz-sequencer/internal/midi"
	"daz-sequencer/internal/processor"
	"daz-sequencer/internal/ring"
	"daz-sequencer/internal/seqstate"
)

// recordedNoteVelocity is the fixed velocity applied when a recorded
// NoteEvent is replayed; NoteEvent does not carry a velocity of its own.
const recordedNoteVelocity = 100

// Engine owns every real-time resource: the processors, the metronome,
// the reverb send, the audio-side shared state copy, and the tick
// clock. Process is the audio callback entry point.
type Engine struct {
	SampleRate float64
	Channels   int

	State   *seqstate.State
	Control *broadcast.Receiver[seqstate.Message]
	Bus     *broadcast.Broadcaster[seqstate.Message]

	MidiIn *ring.Buffer[midi.Message]

	Processors []*processor.Processor
	Metronome  *metronome.Metronome
	Reverb     *dsp.Reverb

	clock TickClock
	stamp int

	reverbInL, reverbInR []float64
	publishedEventCounts []int
}

// NewEngine wires the constructed resources into a ready-to-run engine.
func NewEngine(sampleRate float64, channels int, state *seqstate.State, control *broadcast.Receiver[seqstate.Message], bus *broadcast.Broadcaster[seqstate.Message], midiIn *ring.Buffer[midi.Message], procs []*processor.Processor, metro *metronome.Metronome, reverb *dsp.Reverb) *Engine {
	return &Engine{
		SampleRate:           sampleRate,
		Channels:             channels,
		State:                state,
		Control:              control,
		Bus:                  bus,
		MidiIn:               midiIn,
		Processors:           procs,
		Metronome:            metro,
		Reverb:               reverb,
		publishedEventCounts: make([]int, len(procs)),
	}
}

func (e *Engine) selectedProcessor() *processor.Processor {
	id := e.State.InstrumentSelectedID
	if id < 0 || id >= len(e.Processors) {
		return nil
	}
	return e.Processors[id]
}

// Process is the audio callback: fills out (interleaved, frames *
// e.Channels samples) following a fixed ten-step ordering each call —
// drain control input, apply latches, advance the tick clock, render
// and mix every processor plus the metronome and reverb send, apply
// master volume, then publish observable state.
func (e *Engine) Process(out []float32, frames, channels int) {
	// 1. Drain control messages into the audio-side state.
	for _, m := range e.Control.DrainAll() {
		e.State.Apply(m)
	}
	e.drainMIDI()

	// 2. Undo latch.
	if e.State.UndoLastSession {
		e.applyUndo()
		e.State.UndoLastSession = false
	}

	// 3. Sync preset ids from shared state to processors.
	for i, proc := range e.Processors {
		if i < len(e.State.Instruments) {
			proc.SetCurrentPresetID(e.State.Instruments[i].CurrentPresetID)
		}
	}

	// 4. Advance the clock while playing.
	bipped := false
	beatEdge := false
	if e.State.IsPlaying {
		e.clock.Advance(frames, e.SampleRate, e.State.TickTime, func() {
			e.onTick(&bipped, &beatEdge)
		})
	}

	// 5. Kill-all-notes latch.
	if e.State.KillAllNotes {
		for _, proc := range e.Processors {
			proc.AllNoteOff()
		}
		e.State.KillAllNotes = false
	}

	// 6. Zero the output buffer.
	for i := range out {
		out[i] = 0
	}

	// 7. Mix the metronome.
	e.Metronome.Process(out, frames, channels)

	// 8. Render, meter, and mix every processor.
	e.ensureReverbScratch(frames)
	for i := range e.reverbInL {
		e.reverbInL[i] = 0
		e.reverbInR[i] = 0
	}
	for i, proc := range e.Processors {
		buf := proc.Render(frames, channels)
		rmsL, rmsR := interleavedRMS(buf, frames, channels)
		if i < len(e.State.Instruments) {
			e.State.Instruments[i].RMSLeft = rmsL
			e.State.Instruments[i].RMSRight = rmsR
		}

		vol := proc.Volume
		send := proc.ReverbSend
		panL, panR := dsp.EqualPowerPan(proc.Pan)
		for f := 0; f < frames; f++ {
			base := f * channels
			mono := float64(buf[base])
			if channels > 1 {
				mono = (mono + float64(buf[base+1])) * 0.5
			}
			mono *= vol
			sL := mono * panL
			sR := mono * panR
			out[base] += float32(sL)
			if channels > 1 {
				out[base+1] += float32(sR)
			}
			if send > 0 {
				e.reverbInL[f] += sL * send
				e.reverbInR[f] += sR * send
			}
		}
	}
	if e.Reverb != nil {
		for f := 0; f < frames; f++ {
			wetL, wetR := e.Reverb.Process(e.reverbInL[f], e.reverbInR[f])
			base := f * channels
			out[base] += float32(wetL)
			if channels > 1 {
				out[base+1] += float32(wetR)
			}
		}
	}

	// 9. Master volume.
	masterVol := float32(e.State.Volume)
	for i := range out {
		out[i] *= masterVol
	}

	// 10. Publish audio-side state to observers.
	e.publish(beatEdge)
}

func (e *Engine) onTick(bipped, beatEdge *bool) {
	currentTick := e.State.Tick
	tpqn := e.State.TicksPerQuarterNote

	if !*bipped && tpqn > 0 {
		switch {
		case currentTick%(4*tpqn) == 0:
			if e.State.MetronomeActive {
				e.Metronome.Bip(true)
			}
			*bipped = true
			*beatEdge = true
		case currentTick%tpqn == 0:
			if e.State.MetronomeActive {
				e.Metronome.Bip(false)
			}
			*bipped = true
			*beatEdge = true
		}
	}

	halfLoop := e.State.NBTicks / 2
	for _, proc := range e.Processors {
		for _, ev := range proc.GetNotesEvents() {
			justRecorded := (e.stamp-ev.StampRecord) < halfLoop && ev.RecordSession == e.State.RecordSession
			if ev.TickOn == currentTick && !justRecorded {
				proc.NoteOn(ev.NoteID, recordedNoteVelocity)
			}
			if ev.TickOff == currentTick && !justRecorded {
				proc.NoteOff(ev.NoteID)
			}
		}
	}

	e.State.Tick++
	e.stamp++
	if e.State.Tick >= e.State.NBTicks {
		e.State.Tick = 0
	}
}

func (e *Engine) applyUndo() {
	proc := e.selectedProcessor()
	if proc == nil {
		return
	}
	events := proc.GetNotesEvents()
	maxSession := -1
	for _, ev := range events {
		if ev.RecordSession > maxSession {
			maxSession = ev.RecordSession
		}
	}
	if maxSession < 0 {
		proc.AllNoteOff()
		return
	}
	kept := make([]seqstate.NoteEvent, 0, len(events))
	for _, ev := range events {
		if ev.RecordSession != maxSession {
			kept = append(kept, ev)
		}
	}
	proc.SetNotesEvents(kept)
	proc.AllNoteOff()
}

// NoteOnLive routes a live (keyboard/MIDI) note-on to the currently
// selected processor, recording it when is_recording && is_playing.
func (e *Engine) NoteOnLive(note, velocity uint8) {
	proc := e.selectedProcessor()
	if proc == nil {
		return
	}
	proc.NoteOn(note, velocity)
	if e.State.IsRecording && e.State.IsPlaying {
		tickOn := e.State.QuantizeTick(e.State.Tick)
		proc.AddNotesEvent(seqstate.NoteEvent{
			NoteID:        note,
			TickOn:        tickOn,
			TickOff:       -1,
			RecordSession: e.State.RecordSession,
			StampRecord:   e.stamp,
		})
	}
}

// NoteOffLive routes a live note-off and closes the matching open
// recorded event, if any.
func (e *Engine) NoteOffLive(note uint8) {
	proc := e.selectedProcessor()
	if proc == nil {
		return
	}
	proc.NoteOff(note)
	if !(e.State.IsRecording && e.State.IsPlaying) {
		return
	}
	events := proc.GetNotesEvents()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].NoteID == note && events[i].TickOff == -1 {
			tickOff := e.State.QuantizeTick(e.State.Tick)
			if tickOff == events[i].TickOn {
				tickOff += 120
				if tickOff >= e.State.NBTicks {
					tickOff = e.State.NBTicks - 1
				}
			}
			events[i].TickOff = tickOff
			return
		}
	}
}

func (e *Engine) drainMIDI() {
	if e.MidiIn == nil {
		return
	}
	for {
		msg, ok := e.MidiIn.Read()
		if !ok {
			return
		}
		switch msg.Kind {
		case midi.KindNoteOn:
			e.NoteOnLive(msg.Note, msg.Velocity)
		case midi.KindNoteOff:
			e.NoteOffLive(msg.Note)
		}
	}
}

func (e *Engine) ensureReverbScratch(frames int) {
	if cap(e.reverbInL) < frames {
		e.reverbInL = make([]float64, frames)
		e.reverbInR = make([]float64, frames)
		return
	}
	e.reverbInL = e.reverbInL[:frames]
	e.reverbInR = e.reverbInR[:frames]
}

// interleavedRMS computes the meter formula for each channel of an
// interleaved buffer without allocating, since this runs on the audio
// callback's fast path.
func interleavedRMS(buf []float32, frames, channels int) (left, right float64) {
	if frames == 0 {
		return 0, 0
	}
	var sumL, sumR float64
	for f := 0; f < frames; f++ {
		base := f * channels
		l := float64(buf[base])
		sumL += l * l
		if channels > 1 {
			r := float64(buf[base+1])
			sumR += r * r
		} else {
			sumR += l * l
		}
	}
	meanL := sumL / float64(frames)
	meanR := sumR / float64(frames)
	return dsp.MeterFromMeanSquare(meanL), dsp.MeterFromMeanSquare(meanR)
}

func (e *Engine) publish(beatEdge bool) {
	if e.State.IsPlaying {
		e.Bus.Send(seqstate.Message{Kind: seqstate.SetTick, Int: e.State.Tick})
	}
	if beatEdge {
		e.Bus.Send(seqstate.Message{Kind: seqstate.SetBpmHasBiped, Bool: true})
	}

	if id := e.State.InstrumentSelectedID; id >= 0 && id < len(e.Processors) {
		events := e.Processors[id].GetNotesEvents()
		if len(e.publishedEventCounts) <= id {
			grown := make([]int, len(e.Processors))
			copy(grown, e.publishedEventCounts)
			e.publishedEventCounts = grown
		}
		if len(events) != e.publishedEventCounts[id] {
			e.publishedEventCounts[id] = len(events)
			e.Bus.Send(seqstate.Message{Kind: seqstate.SetMidiMessagesInstrument, Events: append([]seqstate.NoteEvent(nil), events...)})
		}
	}

	for i, proc := range e.Processors {
		if i >= len(e.State.Instruments) {
			continue
		}
		inst := e.State.Instruments[i]
		e.Bus.Send(seqstate.Message{Kind: seqstate.SetRMSInstrument, Index: i, Left: inst.RMSLeft, Right: inst.RMSRight})
		e.Bus.Send(seqstate.Message{Kind: seqstate.SetMixInstrument, Index: i, Float: proc.Volume, Left: proc.Pan, Right: proc.ReverbSend})
	}
}
