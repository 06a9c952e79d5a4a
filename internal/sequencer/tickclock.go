// Package sequencer owns the real-time audio callback: advancing the
// tick clock, dispatching recorded and live notes to processors, mixing
// their output with the metronome and reverb send, and publishing
// audio-side state back to UI observers.
package sequencer

// TickClock accumulates elapsed buffer time and emits whole-tick
// advances at the configured tick duration, the way a sample-accurate
// sequencer must when the host's buffer size doesn't divide evenly into
// tick_time.
type TickClock struct {
	accumulated float64
}

// Advance adds frames/sampleRate seconds of elapsed time and calls onTick
// once per whole tick_time consumed, in order, until less than one
// tick_time remains buffered. tickTime is re-read on every iteration so a
// tempo change mid-loop (unlikely within one callback, but cheap to
// support) takes effect immediately.
func (c *TickClock) Advance(frames int, sampleRate float64, tickTime func() float64, onTick func()) {
	if sampleRate <= 0 {
		return
	}
	c.accumulated += float64(frames) / sampleRate
	for {
		tt := tickTime()
		if tt <= 0 || c.accumulated < tt {
			return
		}
		c.accumulated -= tt
		onTick()
	}
}
