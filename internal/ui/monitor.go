// Package ui implements a thin Fyne-based monitor window: it owns its
// own UI-side copy of the shared sequencer state, reconciled purely by
// replaying broadcast messages, and renders it at a bounded ~30Hz.
package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"daz-sequencer/internal/broadcast"
	"daz-sequencer/internal/debug"
	"daz-sequencer/internal/seqstate"
)

const refreshInterval = time.Second / 30

// Monitor is the UI-side mirror: its own seqstate.State, kept coherent
// with the audio side purely by draining the same broadcast messages
// (never by reading the engine's state directly).
type Monitor struct {
	app    fyne.App
	window fyne.Window

	state    *seqstate.State
	receiver *broadcast.Receiver[seqstate.Message]
	bus      *broadcast.Broadcaster[seqstate.Message]
	logger   *debug.Logger

	transportLabel  *widget.Label
	instrumentLabel *widget.Label
	meterLabel      *widget.Label
	logLabel        *widget.Label

	stop chan struct{}
}

// New builds the monitor window and registers its own receiver with bus.
func New(bus *broadcast.Broadcaster[seqstate.Message], state *seqstate.State, logger *debug.Logger) *Monitor {
	a := app.New()
	w := a.NewWindow("daz-sequencer monitor")

	m := &Monitor{
		app:      a,
		window:   w,
		state:    state,
		receiver: bus.Register(),
		bus:      bus,
		logger:   logger,
		stop:     make(chan struct{}),
	}

	m.transportLabel = widget.NewLabel("")
	m.instrumentLabel = widget.NewLabel("")
	m.meterLabel = widget.NewLabel("")
	m.logLabel = widget.NewLabel("")

	tempoDown := widget.NewButton("Tempo -1", func() { m.nudgeTempo(-1) })
	tempoUp := widget.NewButton("Tempo +1", func() { m.nudgeTempo(1) })
	playStop := widget.NewButton("Play/Stop", func() { m.bus.Send(seqstate.Message{Kind: seqstate.PlayStop}) })

	w.SetContent(container.NewVBox(
		m.transportLabel,
		m.instrumentLabel,
		m.meterLabel,
		container.NewHBox(playStop, tempoDown, tempoUp),
		m.logLabel,
	))
	w.Resize(fyne.NewSize(420, 260))
	return m
}

func (m *Monitor) nudgeTempo(delta float64) {
	m.bus.Send(seqstate.Message{Kind: seqstate.SetTempo, Float: m.state.Tempo + delta})
}

// Run drains the receiver at refreshInterval and repaints the window
// until Close is called. Fyne's own event loop must run on the main
// goroutine, so callers typically launch Run in a goroutine and then
// call ShowAndRun on the returned App from the main goroutine (see
// cmd/daz-sequencer).
func (m *Monitor) Run() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			for _, msg := range m.receiver.DrainAll() {
				m.state.Apply(msg)
			}
			m.repaint()
		}
	}
}

// ShowAndRun blocks on Fyne's main loop; call from the process's main
// goroutine only.
func (m *Monitor) ShowAndRun() {
	m.window.ShowAndRun()
}

// Close stops the refresh loop.
func (m *Monitor) Close() {
	close(m.stop)
}

func (m *Monitor) repaint() {
	m.transportLabel.SetText(fmt.Sprintf("tick %d/%d  tempo %.1f  playing=%v recording=%v",
		m.state.Tick, m.state.NBTicks, m.state.Tempo, m.state.IsPlaying, m.state.IsRecording))

	if id := m.state.InstrumentSelectedID; id >= 0 && id < len(m.state.Instruments) {
		inst := m.state.Instruments[id]
		m.instrumentLabel.SetText(fmt.Sprintf("instrument: %s  preset %d/%d  notes=%d",
			inst.Name, inst.CurrentPresetID, len(inst.PresetNames), len(inst.PairedNotes)))
		m.meterLabel.SetText(fmt.Sprintf("rms L=%.4f R=%.4f", inst.RMSLeft, inst.RMSRight))
	}

	recent := m.logger.GetRecentEntries(5)
	text := ""
	for _, e := range recent {
		text += e.Format() + "\n"
	}
	m.logLabel.SetText(text)
}
