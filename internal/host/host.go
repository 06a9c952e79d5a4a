// Package host binds the engine to a real audio device and an
// on-device keyboard via go-sdl2: open a float32 stereo device, keep
// the queued backlog bounded, and push fresh buffers from a driving
// loop rather than a cgo audio callback.
package host

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"daz-sequencer/internal/broadcast"
	"daz-sequencer/internal/debug"
	"daz-sequencer/internal/midi"
	"daz-sequencer/internal/ring"
	"daz-sequencer/internal/seqstate"
	"daz-sequencer/internal/sequencer"
)

// Host owns the SDL audio device and the keyboard-to-MIDI binding.
type Host struct {
	engine     *sequencer.Engine
	bus        *broadcast.Broadcaster[seqstate.Message]
	midiOut    *ring.Buffer[midi.Message]
	logger     *debug.Logger
	sampleRate int
	channels   int
	bufferSize int

	audioDev sdl.AudioDeviceID
	frame    []float32
	stop     chan struct{}
}

// New initializes SDL's audio and event subsystems and opens a
// float32-interleaved stereo playback device at sampleRate.
func New(engine *sequencer.Engine, bus *broadcast.Broadcaster[seqstate.Message], midiOut *ring.Buffer[midi.Message], logger *debug.Logger, sampleRate, channels, bufferSize int) (*Host, error) {
	if err := sdl.Init(sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("host: sdl init: %w", err)
	}

	spec := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_F32,
		Channels: uint8(channels),
		Samples:  uint16(bufferSize),
	}
	dev, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("host: open audio device: %w", err)
	}
	sdl.PauseAudioDevice(dev, false)

	h := &Host{
		engine:     engine,
		bus:        bus,
		midiOut:    midiOut,
		logger:     logger,
		sampleRate: sampleRate,
		channels:   channels,
		bufferSize: bufferSize,
		audioDev:   dev,
		frame:      make([]float32, bufferSize*channels),
		stop:       make(chan struct{}),
	}
	return h, nil
}

// Close tears down the SDL subsystems.
func (h *Host) Close() {
	close(h.stop)
	if h.audioDev != 0 {
		sdl.CloseAudioDevice(h.audioDev)
	}
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	sdl.Quit()
}

// Run drives both the keyboard→MIDI event pump and the audio-fill loop
// until Close is called. It blocks the calling goroutine.
func (h *Host) Run() {
	period := time.Duration(float64(h.bufferSize) / float64(h.sampleRate) * float64(time.Second))
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			h.pumpEvents()
			h.fillAndQueue()
		}
	}
}

func (h *Host) pumpEvents() {
	for {
		e := sdl.PollEvent()
		if e == nil {
			return
		}
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			h.logger.LogHost(debug.LogLevelInfo, "quit event received", nil)
			go h.Close()
		case *sdl.KeyboardEvent:
			h.handleKey(ev)
		}
	}
}

func (h *Host) handleKey(ev *sdl.KeyboardEvent) {
	pressed := ev.State == sdl.PRESSED
	repeat := ev.Repeat != 0
	if repeat {
		return
	}

	if note, ok := KeyToNote(ev.Keysym.Sym); ok {
		kind := midi.KindNoteOff
		velocity := uint8(0)
		if pressed {
			kind = midi.KindNoteOn
			velocity = 100
		}
		h.midiOut.Write(midi.Message{Kind: kind, Note: note, Velocity: velocity})
		return
	}

	if !pressed {
		return
	}

	switch ev.Keysym.Sym {
	case sdl.K_b:
		h.bus.Send(seqstate.Message{Kind: seqstate.SetTempo, Float: h.engine.State.Tempo - 1})
		return
	case sdl.K_n:
		h.bus.Send(seqstate.Message{Kind: seqstate.SetTempo, Float: h.engine.State.Tempo + 1})
		return
	case sdl.K_ESCAPE:
		h.logger.LogHost(debug.LogLevelInfo, "escape pressed, exiting", nil)
		go h.Close()
		return
	}

	if msg, ok := KeyToControlMessage(ev.Keysym.Sym); ok {
		h.bus.Send(msg)
	}
}

func (h *Host) fillAndQueue() {
	for i := range h.frame {
		h.frame[i] = 0
	}
	h.engine.Process(h.frame, h.bufferSize, h.channels)

	maxQueuedBytes := uint32(len(h.frame)) * 4 * 2
	if sdl.GetQueuedAudioSize(h.audioDev) > maxQueuedBytes {
		return
	}
	sdl.QueueAudio(h.audioDev, floatsToBytes(h.frame))
}
