// Package project implements the .daz project file format and the
// sampler preset bank format.
package project

import (
	"encoding/json"
	"fmt"
	"os"

	"daz-sequencer/internal/seqstate"
)

// NoteEventRecord is the on-disk shape of a seqstate.NoteEvent.
type NoteEventRecord struct {
	NoteID        uint8 `json:"note_id"`
	TickOn        int   `json:"tick_on"`
	TickOff       int   `json:"tick_off"`
	RecordSession int   `json:"record_session"`
	StampRecord   int   `json:"stamp_record"`
}

// InstrumentRecord is the on-disk shape of one instrument in a .daz
// file.
type InstrumentRecord struct {
	Name            string            `json:"name"`
	Volume          float64           `json:"volume"`
	Pan             float64           `json:"pan"`
	ReverbSend      float64           `json:"reverb_send"`
	CurrentPresetID int               `json:"current_preset_id"`
	Presets         []string          `json:"presets"`
	PairedNotes     []NoteEventRecord `json:"paired_notes"`
	RMSLeft         float64           `json:"rms_left"`
	RMSRight        float64           `json:"rms_right"`
}

// envelope is the on-disk shape Save always writes (name, created_at,
// instruments); Load also accepts a bare top-level instrument array so
// older .daz files with no envelope keep loading unchanged.
type envelope struct {
	Name      string             `json:"name"`
	CreatedAt string             `json:"created_at"`
	Instruments []InstrumentRecord `json:"instruments"`
}

// Save writes instruments to path under the envelope shape.
func Save(path, name, createdAt string, instruments []seqstate.InstrumentData) error {
	env := envelope{Name: name, CreatedAt: createdAt, Instruments: toRecords(instruments)}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("project: marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("project: write %s: %w", path, err)
	}
	return nil
}

// Load reads a .daz file, accepting either the enveloped shape Save
// writes or a bare top-level instrument array, so any pre-existing
// unenveloped .daz file on disk still loads. Every loaded note's
// record_session is forced to -1, since an imported note was never
// part of the current recording session.
func Load(path string) ([]seqstate.InstrumentData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: read %s: %w", path, err)
	}

	var records []InstrumentRecord
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && len(env.Instruments) > 0 {
		records = env.Instruments
	} else if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("project: decode %s: %w", path, err)
	}

	return fromRecords(records), nil
}

func toRecords(instruments []seqstate.InstrumentData) []InstrumentRecord {
	records := make([]InstrumentRecord, len(instruments))
	for i, inst := range instruments {
		notes := make([]NoteEventRecord, len(inst.PairedNotes))
		for j, n := range inst.PairedNotes {
			notes[j] = NoteEventRecord{
				NoteID:        n.NoteID,
				TickOn:        n.TickOn,
				TickOff:       n.TickOff,
				RecordSession: n.RecordSession,
				StampRecord:   n.StampRecord,
			}
		}
		records[i] = InstrumentRecord{
			Name:            inst.Name,
			Volume:          inst.Volume,
			Pan:             inst.Pan,
			ReverbSend:      inst.ReverbSend,
			CurrentPresetID: inst.CurrentPresetID,
			Presets:         inst.PresetNames,
			PairedNotes:     notes,
			RMSLeft:         inst.RMSLeft,
			RMSRight:        inst.RMSRight,
		}
	}
	return records
}

func fromRecords(records []InstrumentRecord) []seqstate.InstrumentData {
	instruments := make([]seqstate.InstrumentData, len(records))
	for i, rec := range records {
		notes := make([]seqstate.NoteEvent, len(rec.PairedNotes))
		for j, n := range rec.PairedNotes {
			notes[j] = seqstate.NoteEvent{
				NoteID:        n.NoteID,
				TickOn:        n.TickOn,
				TickOff:       n.TickOff,
				RecordSession: -1,
				StampRecord:   n.StampRecord,
			}
		}
		instruments[i] = seqstate.InstrumentData{
			Name:            rec.Name,
			Volume:          rec.Volume,
			Pan:             rec.Pan,
			ReverbSend:      rec.ReverbSend,
			CurrentPresetID: rec.CurrentPresetID,
			PresetNames:     rec.Presets,
			PairedNotes:     notes,
			RMSLeft:         rec.RMSLeft,
			RMSRight:        rec.RMSRight,
		}
	}
	return instruments
}
