package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go-flexi/flexi"
	"go-flexi/midi"
)

func sampleSlots() []flexi.Slot {
	slots := make([]flexi.Slot, 16)
	slots[0] = flexi.Slot{
		Signature: midi.Signature{Kind: midi.KindCC, Channel: 0, Number: 7},
		Command:   flexi.Command{Family: flexi.TrackSetVolume, Index: 0},
		SendValue: true,
	}
	slots[3] = flexi.Slot{
		Signature: midi.Signature{Kind: midi.KindNote, Channel: midi.AnyChannel, Number: 60},
		Command:   flexi.Command{Family: flexi.TransportPlay},
	}
	slots[4] = flexi.Slot{
		Signature: midi.Signature{Kind: midi.KindCC, Channel: 15, Number: 16},
		Command:   flexi.Command{Family: flexi.TrackSetSend, Index: flexi.Selected, Send: 2},
		KnobMode:  flexi.KnobRelative2,
		SendValue: true,
	}
	slots[9] = flexi.Slot{
		Signature:             midi.Signature{Kind: midi.KindMMC, Channel: 0, Number: 2},
		Command:               flexi.Command{Family: flexi.TransportPlay},
		SendValueWhenReceived: true,
	}
	return slots
}

func TestStoreRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".yml", ".xlsx", ".xml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "table"+ext)
			st := NewStore()
			want := sampleSlots()
			if err := st.Export(path, want); err != nil {
				t.Fatalf("export: %v", err)
			}
			got, err := st.Import(path)
			if err != nil {
				t.Fatalf("import: %v", err)
			}
			// trailing empty slots are not written
			if len(got) != 10 {
				t.Fatalf("imported %d slots, want 10", len(got))
			}
			if !reflect.DeepEqual(got, want[:10]) {
				t.Errorf("got  %v\nwant %v", got, want[:10])
			}
		})
	}
}

func TestStoreUnknownExtension(t *testing.T) {
	st := NewStore()
	if err := st.Export(filepath.Join(t.TempDir(), "t.csv"), sampleSlots()); err == nil {
		t.Error("export: expected error")
	}
	if _, err := st.Import("t.csv"); err == nil {
		t.Error("import: expected error")
	}
}

func TestImportYAMLHandWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	data := `slots:
  - slot: 2
    type: CC
    channel: any
    number: 21
    command: "track selected: set panorama"
    knobMode: Relative 1
  - slot: 1
    type: PC
    channel: 10
    number: 5
    command: "Transport: Record"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	slots, err := NewStore().Import(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 2 {
		t.Fatalf("len = %d", len(slots))
	}
	if s := slots[1]; s.Channel != midi.AnyChannel || s.Command != (flexi.Command{Family: flexi.TrackSetPanorama, Index: flexi.Selected}) || s.KnobMode != flexi.KnobRelative1 {
		t.Errorf("slot 2 = %+v", s)
	}
	if s := slots[0]; s.Kind != midi.KindProgramChange || s.Channel != 9 || s.Command.Family != flexi.TransportRecord {
		t.Errorf("slot 1 = %+v", s)
	}
}

func TestImportRejectsBadRecords(t *testing.T) {
	cases := map[string]string{
		"channel":   "slots:\n  - {slot: 1, type: CC, channel: 17, number: 1}\n",
		"command":   "slots:\n  - {slot: 1, type: CC, channel: 1, number: 1, command: Launch Rockets}\n",
		"kind":      "slots:\n  - {slot: 1, type: Aftertouch, channel: 1, number: 1}\n",
		"number":    "slots:\n  - {slot: 1, type: CC, channel: 1, number: 128}\n",
		"slot":      "slots:\n  - {slot: 0, type: CC, channel: 1, number: 1}\n",
		"duplicate": "slots:\n  - {slot: 1, type: CC, channel: 1, number: 1}\n  - {slot: 1, type: CC, channel: 1, number: 2}\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "table.yaml")
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := NewStore().Import(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestChannelParse(t *testing.T) {
	for in, want := range map[string]Channel{"1": 0, "16": 15, "any": Channel(midi.AnyChannel), "ANY": Channel(midi.AnyChannel)} {
		got, err := ParseChannel(in)
		if err != nil || got != want {
			t.Errorf("ParseChannel(%q) = %d, %v", in, got, err)
		}
	}
	for _, in := range []string{"0", "17", "x", ""} {
		if _, err := ParseChannel(in); err == nil {
			t.Errorf("ParseChannel(%q): expected error", in)
		}
	}
}
