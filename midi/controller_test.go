package midi

import (
	"bytes"
	"testing"
)

func TestFeedbackMessages(t *testing.T) {
	cc := ControlChangeMessage(0, 7, 100)
	if !bytes.Equal(cc, []byte{0xB0, 7, 100}) {
		t.Errorf("cc = % X", []byte(cc))
	}
	var ch, num, val uint8
	if !cc.GetControlChange(&ch, &num, &val) || ch != 0 || num != 7 || val != 100 {
		t.Errorf("cc does not parse back: ch=%d num=%d val=%d", ch, num, val)
	}

	pb := PitchbendMessage(3, 90)
	if !bytes.Equal(pb, []byte{0xE3, 0, 90}) {
		t.Errorf("pitch bend = % X, want E3 00 5A", []byte(pb))
	}
}

func TestMatchPortName(t *testing.T) {
	tests := []struct {
		name, pattern string
		want          bool
	}{
		{"nanoKONTROL2 MIDI 1", "nanokontrol", true},
		{"X-TOUCH MINI", "x-touch", true},
		{"Midi Through Port-0", "midi", false},
		{"Launchpad X", "", false},
		{"Launchpad X", "apc", false},
	}
	for _, tt := range tests {
		if got := MatchPortName(tt.name, tt.pattern); got != tt.want {
			t.Errorf("MatchPortName(%q, %q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
		}
	}
}
