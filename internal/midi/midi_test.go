package midi

import "testing"

func TestDecodeNoteOnNoteOff(t *testing.T) {
	m, ok := Decode(0x90, 60, 100)
	if !ok || m.Kind != KindNoteOn || m.Note != 60 || m.Velocity != 100 {
		t.Fatalf("unexpected decode: %+v ok=%v", m, ok)
	}

	m, ok = Decode(0x80, 60, 0)
	if !ok || m.Kind != KindNoteOff || m.Note != 60 {
		t.Fatalf("unexpected decode: %+v ok=%v", m, ok)
	}
}

func TestDecodeNoteOnVelocityZeroIsNoteOff(t *testing.T) {
	m, ok := Decode(0x91, 64, 0)
	if !ok || m.Kind != KindNoteOff {
		t.Fatalf("note-on with velocity 0 should decode as note-off, got %+v", m)
	}
}

func TestDecodeRejectsOtherStatuses(t *testing.T) {
	for _, status := range []byte{0xA0, 0xB0, 0xC0, 0xD0, 0xE0, 0xF0} {
		if _, ok := Decode(status, 0, 0); ok {
			t.Fatalf("status 0x%X should be rejected at the boundary", status)
		}
	}
}
