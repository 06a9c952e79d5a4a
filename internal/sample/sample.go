// Package sample loads PCM sample data from WAV files and exposes it as
// the immutable, reference-counted handles voices play back.
package sample

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// PCM is the immutable stereo sample data a Sampler voice plays back.
// It is built once at load time and never mutated afterward, so any
// number of voices can safely hold a *PCM concurrently.
type PCM struct {
	Left       []float32
	Right      []float32
	SampleRate int
}

// Frames returns the sample length in frames.
func (p *PCM) Frames() int {
	return len(p.Left)
}

// LoadWAV decodes a WAV file from disk into an immutable PCM buffer.
// Mono files are duplicated to both channels. This is disk I/O and only
// ever runs at processor/preset construction time, off the audio path.
func LoadWAV(path string) (*PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sample: open %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("sample: %s is not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("sample: decode %s: %w", path, err)
	}

	return fromPCMBuffer(buf), nil
}

func fromPCMBuffer(buf *audio.IntBuffer) *PCM {
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	maxVal := float32(int(1) << uint(buf.SourceBitDepth-1))
	if maxVal <= 0 {
		maxVal = 32768
	}

	frames := len(buf.Data) / channels
	pcm := &PCM{
		Left:       make([]float32, frames),
		Right:      make([]float32, frames),
		SampleRate: buf.Format.SampleRate,
	}

	for i := 0; i < frames; i++ {
		left := float32(buf.Data[i*channels]) / maxVal
		right := left
		if channels > 1 {
			right = float32(buf.Data[i*channels+1]) / maxVal
		}
		pcm.Left[i] = left
		pcm.Right[i] = right
	}
	return pcm
}

// At returns the stereo frame at the given integer index, repeating the
// boundary frame when idx is outside the buffer, so the Sampler voice's
// linear interpolation never reads out of range at either end.
func (p *PCM) At(idx int) (l, r float32) {
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.Left) {
		idx = len(p.Left) - 1
	}
	if idx < 0 {
		return 0, 0
	}
	return p.Left[idx], p.Right[idx]
}

// Source is one keyed sample region within a Sampler preset: a PCM
// buffer, its root note, and the MIDI note range it covers.
type Source struct {
	PCM         *PCM
	RootNote    uint8
	NoteMin     uint8
	NoteMax     uint8
	OneShot     bool
}

// Covers reports whether this source is the one that should play for
// the given note, per the invariant note_midi_min <= root <= note_midi_max.
func (s *Source) Covers(note uint8) bool {
	return note >= s.NoteMin && note <= s.NoteMax
}
