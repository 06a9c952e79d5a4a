// Package oscillator provides the bandlimited/naive periodic generators
// consumed by the wavetable and FM voices, plus the process-wide noise
// table.
package oscillator

import "math"

// Shape selects which periodic waveform a Phase generates.
type Shape uint8

const (
	Sine Shape = iota
	Square
	Sawtooth
	Triangle
)

// sineTableSize and the table itself provide a small interpolated
// lookup table, traded for cheap linear interpolation instead of
// calling math.Sin per sample on every operator.
const sineTableSize = 2048

var sineTable = func() [sineTableSize]float64 {
	var t [sineTableSize]float64
	for i := range t {
		t[i] = math.Sin(2 * math.Pi * float64(i) / float64(sineTableSize))
	}
	return t
}()

func lookupSine(phase float64) float64 {
	// phase is expected in [0,1); wrap defensively.
	phase -= math.Floor(phase)
	idxF := phase * sineTableSize
	i0 := int(idxF) % sineTableSize
	i1 := (i0 + 1) % sineTableSize
	frac := idxF - math.Floor(idxF)
	return sineTable[i0]*(1-frac) + sineTable[i1]*frac
}

// Phase is a single free-running phase accumulator in [0,1).
type Phase struct {
	value float64
}

// Advance moves the phase forward by increment (= frequency/sampleRate)
// and wraps it back into [0,1).
func (p *Phase) Advance(increment float64) {
	p.value += increment
	if p.value >= 1 {
		p.value -= math.Floor(p.value)
	} else if p.value < 0 {
		p.value -= math.Floor(p.value)
	}
}

// Value returns the current phase in [0,1).
func (p *Phase) Value() float64 { return p.value }

// SetValue forces the phase, used when restarting a note.
func (p *Phase) SetValue(v float64) { p.value = v }

// Sample evaluates the given waveform shape at the phase's current
// position, returning a value in [-1,1].
func (p *Phase) Sample(shape Shape) float64 {
	switch shape {
	case Sine:
		return lookupSine(p.value)
	case Square:
		if p.value < 0.5 {
			return 1.0
		}
		return -1.0
	case Sawtooth:
		return p.value*2.0 - 1.0
	case Triangle:
		if p.value < 0.5 {
			return p.value*4.0 - 1.0
		}
		return 3.0 - p.value*4.0
	default:
		return 0
	}
}

// NoteToFrequency converts a MIDI note number (with A4=69=440Hz) to Hz.
func NoteToFrequency(note float64) float64 {
	return 440.0 * math.Pow(2.0, (note-69.0)/12.0)
}

// NoiseTableSize is the length of the build-time precomputed noise
// table: a process-wide immutable resource built once at package init
// rather than recomputed per voice.
const NoiseTableSize = 1 << 16

// Table is the immutable, process-wide white-noise table shared (never
// mutated) by every noise-bearing voice. A 15-bit LFSR with polynomial
// x^15+x^14+1 generates it once at init.
var Table = buildNoiseTable()

func buildNoiseTable() [NoiseTableSize]float32 {
	var table [NoiseTableSize]float32
	lfsr := uint16(1)
	for i := range table {
		feedback := (lfsr & 1) ^ ((lfsr >> 14) & 1)
		lfsr = (lfsr >> 1) | (feedback << 14)
		if lfsr&1 != 0 {
			table[i] = 1.0
		} else {
			table[i] = -1.0
		}
	}
	return table
}
