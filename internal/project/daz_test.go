package project

import (
	"os"
	"path/filepath"
	"testing"

	"daz-sequencer/internal/seqstate"
)

func TestSaveLoadRoundTripPreservesNotesModuloRecordSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "take.daz")

	original := []seqstate.InstrumentData{
		{
			Name: "lead", Volume: 0.8, CurrentPresetID: 1,
			PresetNames: []string{"a", "b"},
			PairedNotes: []seqstate.NoteEvent{
				{NoteID: 60, TickOn: 10, TickOff: 130, RecordSession: 3, StampRecord: 5},
				{NoteID: 64, TickOn: 200, TickOff: 320, RecordSession: 3, StampRecord: 6},
			},
		},
	}

	if err := Save(path, "my take", "2026-07-31", original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != 1 || len(loaded[0].PairedNotes) != 2 {
		t.Fatalf("unexpected loaded shape: %+v", loaded)
	}
	for i, note := range loaded[0].PairedNotes {
		want := original[0].PairedNotes[i]
		if note.NoteID != want.NoteID || note.TickOn != want.TickOn || note.TickOff != want.TickOff {
			t.Fatalf("note %d mismatch: got %+v want tick_on=%d tick_off=%d", i, note, want.TickOn, want.TickOff)
		}
		if note.RecordSession != -1 {
			t.Fatalf("expected record_session forced to -1, got %d", note.RecordSession)
		}
	}
}

func TestSaveLoadRoundTripPreservesPanAndReverbSend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mix.daz")

	original := []seqstate.InstrumentData{
		{Name: "pad", Volume: 0.6, Pan: -0.4, ReverbSend: 0.25, PresetNames: []string{"a"}},
	}

	if err := Save(path, "mix take", "2026-07-31", original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("unexpected loaded shape: %+v", loaded)
	}
	if loaded[0].Pan != -0.4 || loaded[0].ReverbSend != 0.25 {
		t.Fatalf("pan/reverb send did not round-trip: got pan=%v send=%v", loaded[0].Pan, loaded[0].ReverbSend)
	}
}

func TestLoadAcceptsBareArrayShape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.daz")
	bare := `[{"name":"bass","volume":1,"current_preset_id":0,"presets":["p1"],"paired_notes":[{"note_id":40,"tick_on":0,"tick_off":100,"record_session":7,"stamp_record":0}],"rms_left":0,"rms_right":0}]`
	if err := os.WriteFile(path, []byte(bare), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed on bare array: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "bass" {
		t.Fatalf("unexpected loaded shape: %+v", loaded)
	}
	if loaded[0].PairedNotes[0].RecordSession != -1 {
		t.Fatal("expected record_session forced to -1 on bare-array import too")
	}
}
