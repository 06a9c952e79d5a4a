package host

import (
	"encoding/binary"
	"math"

	"github.com/veandco/go-sdl2/sdl"

	"daz-sequencer/internal/seqstate"
)

// keyboardBaseNote is the MIDI note the A key maps to; keys A..J give
// ten chromatic notes from there, starting at E3. The exact base
// offset is a UI-policy parameter, not a core engine concern.
const keyboardBaseNote = 52

var pianoKeys = []sdl.Keycode{
	sdl.K_a, sdl.K_b, sdl.K_c, sdl.K_d, sdl.K_e,
	sdl.K_f, sdl.K_g, sdl.K_h, sdl.K_i, sdl.K_j,
}

var extraKeys = map[sdl.Keycode]uint8{
	sdl.K_q: keyboardBaseNote + 10,
	sdl.K_s: keyboardBaseNote + 11,
}

// KeyToNote maps an on-device keyboard key to a MIDI note number, if the
// key is bound to one.
func KeyToNote(key sdl.Keycode) (uint8, bool) {
	for i, k := range pianoKeys {
		if k == key {
			return uint8(keyboardBaseNote + i), true
		}
	}
	if note, ok := extraKeys[key]; ok {
		return note, true
	}
	return 0, false
}

// KeyToControlMessage maps a transport key to the control message it
// sends.
func KeyToControlMessage(key sdl.Keycode) (seqstate.Message, bool) {
	switch key {
	case sdl.K_SPACE:
		return seqstate.Message{Kind: seqstate.PlayStop}, true
	case sdl.K_UP:
		return seqstate.Message{Kind: seqstate.NextInstrument}, true
	case sdl.K_DOWN:
		return seqstate.Message{Kind: seqstate.PreviousInstrument}, true
	case sdl.K_LEFT:
		return seqstate.Message{Kind: seqstate.PreviousPreset}, true
	case sdl.K_RIGHT:
		return seqstate.Message{Kind: seqstate.NextPreset}, true
	case sdl.K_w:
		return seqstate.Message{Kind: seqstate.ToggleRecording}, true
	case sdl.K_x:
		return seqstate.Message{Kind: seqstate.ToggleMetronome}, true
	case sdl.K_c:
		return seqstate.Message{Kind: seqstate.PreviousQuantize}, true
	case sdl.K_v:
		return seqstate.Message{Kind: seqstate.NextQuantize}, true
	case sdl.K_BACKSPACE:
		return seqstate.Message{Kind: seqstate.UndoLastSession}, true
	default:
		return seqstate.Message{}, false
	}
}

// floatsToBytes little-endian-encodes an interleaved float32 buffer for
// sdl.QueueAudio.
func floatsToBytes(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], math.Float32bits(s))
	}
	return out
}
