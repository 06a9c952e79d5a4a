// Package voice implements the four per-algorithm voice models: sampler,
// wavetable subtractive, FM operator, and e-piano. All four share the
// same Voice contract so a processor's voice pool can manage them
// uniformly.
package voice

// SilenceThreshold is the absolute amplitude below which a voice with an
// idle envelope is considered finished and self-deactivates.
const SilenceThreshold = 1e-12

// EPianoSilenceThreshold is the looser threshold the e-piano voice uses,
// since its sustained tremolo keeps the envelope from ever fully
// reaching SilenceThreshold during release.
const EPianoSilenceThreshold = 1e-4

// Voice is the shared contract every sound-generating voice implements.
// The engine never downcasts a Voice — it only needs StartNote/StopNote/
// Render/Active/Note/EnvelopeLevel to run the voice pool.
type Voice interface {
	// StartNote begins a new note at the given MIDI note number and
	// velocity (0-127).
	StartNote(note, velocity uint8)
	// StopNote releases the currently playing note (enters the release
	// phase); a no-op if the voice is already idle.
	StopNote()
	// Render accumulates this voice's output into a stereo-interleaved
	// buffer of length frames*channels, adding to whatever is already
	// there (voices never overwrite, only mix in).
	Render(out []float32, frames, channels int)
	// Active reports whether the voice is still producing audible
	// output (combination of envelope state and output magnitude, per
	// voice-specific silence rules).
	Active() bool
	// Note returns the MIDI note number this voice is currently playing.
	Note() uint8
	// EnvelopeLevel returns the current amplitude envelope value, used
	// by the voice pool to pick a steal candidate (lowest envelope
	// first).
	EnvelopeLevel() float64
	// Stop immediately silences the voice without a release tail, used
	// by all_note_off() and by voice stealing.
	Stop()
}

func velocityGain(velocity uint8) float64 {
	return float64(velocity) / 127.0
}
