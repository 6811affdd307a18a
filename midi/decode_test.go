package midi

import "testing"

func TestDecodeChannelVoice(t *testing.T) {
	tests := []struct {
		name string
		msg  []byte
		want Event
	}{
		{"note on", []byte{0x92, 60, 100}, Event{Signature: Signature{KindNote, 2, 60}, Value: 100}},
		{"note off is a release", []byte{0x82, 60, 64}, Event{Signature: Signature{KindNote, 2, 60}, Value: 0}},
		{"cc", []byte{0xB0, 7, 100}, Event{Signature: Signature{KindCC, 0, 7}, Value: 100}},
		{"program change", []byte{0xC5, 12}, Event{Signature: Signature{KindProgramChange, 5, 12}, Value: 12, Pulse: true}},
		{"pitch bend", []byte{0xEF, 0, 90}, Event{Signature: Signature{KindPitchBend, 15, 0}, Value: 90}},
	}
	for _, tt := range tests {
		got, ok := Decode(tt.msg)
		if !ok {
			t.Errorf("%s: not decoded", tt.name)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestDecodeIgnoresOtherTraffic(t *testing.T) {
	for _, msg := range [][]byte{
		nil,
		{0x90},
		{0x90, 60},
		{0xA0, 60, 10}, // poly aftertouch
		{0xD0, 10, 0},  // channel pressure
		{0xF8, 0, 0},   // clock
	} {
		if ev, ok := Decode(msg); ok {
			t.Errorf("Decode(% X) = %+v, want no event", msg, ev)
		}
	}
}

func TestDecodeSysEx(t *testing.T) {
	ev, ok := DecodeSysEx([]byte{0xF0, 0x7F, 0x01, 0x06, 0x05, 0xF7})
	if !ok {
		t.Fatal("MMC message not decoded")
	}
	want := Signature{Kind: KindMMC, Channel: 1, Number: 5}
	if ev.Signature != want || !ev.Pulse {
		t.Errorf("got %+v, want %v pulse", ev, want)
	}

	ev, ok = DecodeSysEx([]byte{0xF0, 0x7F, 0x7F, 0x06, 0x02, 0xF7})
	if !ok || ev.Channel != 15 {
		t.Errorf("broadcast device id: got %+v ok=%v, want channel 15", ev, ok)
	}

	for _, data := range [][]byte{
		{0xF0, 0x7F, 0x01, 0x06, 0x05},
		{0xF0, 0x7F, 0x01, 0x06, 0x05, 0x00, 0xF7},
		{0xF0, 0x7E, 0x01, 0x06, 0x05, 0xF7},
		{0xF0, 0x7F, 0x01, 0x07, 0x05, 0xF7},
		{0xF1, 0x7F, 0x01, 0x06, 0x05, 0xF7},
		{0xF0, 0x7F, 0x01, 0x06, 0x05, 0xF6},
	} {
		if _, ok := DecodeSysEx(data); ok {
			t.Errorf("DecodeSysEx(% X) accepted", data)
		}
	}
}

func TestDecodeHexSysEx(t *testing.T) {
	for _, s := range []string{"F07F010605F7", "F0 7F 01 06 05 F7", "f07f010605f7"} {
		ev, ok := DecodeHexSysEx(s)
		if !ok || ev.Number != 5 || ev.Channel != 1 {
			t.Errorf("DecodeHexSysEx(%q) = %+v, %v", s, ev, ok)
		}
	}
	if _, ok := DecodeHexSysEx("zz"); ok {
		t.Error("invalid hex accepted")
	}
}

func TestSignatureMatches(t *testing.T) {
	wild := Signature{Kind: KindCC, Channel: AnyChannel, Number: 7}
	for ch := 0; ch < 16; ch++ {
		if !wild.Matches(KindCC, 7, ch) {
			t.Errorf("any-channel slot did not match channel %d", ch)
		}
	}
	exact := Signature{Kind: KindCC, Channel: 3, Number: 7}
	if exact.Matches(KindCC, 7, 2) || !exact.Matches(KindCC, 7, 3) {
		t.Error("exact channel matching is wrong")
	}
	if exact.Matches(KindNote, 7, 3) {
		t.Error("kind not compared")
	}
	if (Signature{}).Matches(KindNone, 0, 0) {
		t.Error("disabled signature matched")
	}
}
