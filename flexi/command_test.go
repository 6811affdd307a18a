package flexi

import (
	"testing"

	"github.com/pkg/errors"
)

func TestAllCommandsUnique(t *testing.T) {
	all := AllCommands()
	if all[0] != Off {
		t.Fatalf("first command = %v, want Off", all[0])
	}
	// 9 single track commands, Select 1-8, 14 families with Selected,
	// sends 8x8 + 8 selected, 9 transport, 6 master
	want := 1 + 9 + 8 + 14*9 + 72 + 9 + 6
	if len(all) != want {
		t.Errorf("len(AllCommands) = %d, want %d", len(all), want)
	}

	names := make(map[string]bool)
	for _, c := range all {
		name := c.String()
		if names[name] {
			t.Errorf("duplicate command name %q", name)
		}
		names[name] = true
		if !c.Valid() {
			t.Errorf("%v not valid", c)
		}
	}
}

func TestCommandNames(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{Off, "Off"},
		{Command{Family: TrackSetVolume, Index: 0}, "Track 1: Set Volume"},
		{Command{Family: TrackSetVolume, Index: Selected}, "Track Selected: Set Volume"},
		{Command{Family: TrackSetSend, Index: 2, Send: 4}, "Track 3: Set Send 5"},
		{Command{Family: TrackToggleTrackBank}, "Track: Toggle Track Bank"},
		{Command{Family: TransportPlay}, "Transport: Play"},
		{Command{Family: MasterSetPanorama}, "Master: Set Panorama"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		back, err := ParseCommand(tt.want)
		if err != nil || back != tt.cmd {
			t.Errorf("ParseCommand(%q) = %v, %v", tt.want, back, err)
		}
	}
}

func TestParseCommandErrors(t *testing.T) {
	if c, err := ParseCommand(""); err != nil || c != Off {
		t.Errorf("empty name = %v, %v; want Off", c, err)
	}
	if c, err := ParseCommand("  track 8: toggle mute "); err != nil || c != (Command{Family: TrackToggleMute, Index: 7}) {
		t.Errorf("case-insensitive parse = %v, %v", c, err)
	}
	_, err := ParseCommand("Track 9: Set Volume")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("err = %v, want ErrUnknownCommand", err)
	}
	if (Command{Family: TrackSelect, Index: Selected}).Valid() {
		t.Error("Track Selected: Select must not exist")
	}
}

func TestTriggerClassification(t *testing.T) {
	triggers := []Family{TrackSelect, TrackToggleMute, TrackSetArm, TransportPlay, MasterToggleSolo}
	for _, f := range triggers {
		if !f.IsTrigger() {
			t.Errorf("%v should be a trigger", f)
		}
	}
	continuous := []Family{TrackSetVolume, TrackSetPanorama, TrackSetSend, TrackScrollTracks, TransportSetTempo, MasterSetVolume}
	for _, f := range continuous {
		if f.IsTrigger() {
			t.Errorf("%v should be continuous", f)
		}
	}
}

func TestNextCommandWraps(t *testing.T) {
	all := AllCommands()
	if got := NextCommand(Off, -1); got != all[len(all)-1] {
		t.Errorf("NextCommand(Off, -1) = %v", got)
	}
	if got := NextCommand(all[len(all)-1], 1); got != Off {
		t.Errorf("NextCommand(last, 1) = %v", got)
	}
}

func TestNextGroup(t *testing.T) {
	cases := []struct {
		from, want Command
	}{
		{Off, Command{Family: TrackToggleTrackBank}},
		{Command{Family: TrackSetVolume, Index: 3}, Command{Family: TransportPlay}},
		{Command{Family: TransportTapTempo}, Command{Family: MasterSetVolume}},
		{Command{Family: MasterSetSolo}, Off},
	}
	for _, c := range cases {
		if got := NextGroup(c.from); got != c.want {
			t.Errorf("NextGroup(%v) = %v, want %v", c.from, got, c.want)
		}
	}
}

func TestValidRejectsUnusedFields(t *testing.T) {
	for _, c := range AllCommands() {
		if !c.Valid() {
			t.Errorf("%v not valid", c)
		}
	}
	bad := []Command{
		{Family: TrackSetVolume, Index: 0, Send: 5},
		{Family: TransportPlay, Index: 3},
		{Family: TrackSelect, Index: Selected},
		{Family: TrackSetVolume, Index: NumberedCount},
		{Family: familyCount},
	}
	for _, c := range bad {
		if c.Valid() {
			t.Errorf("%+v counted as valid", c)
		}
	}
}
