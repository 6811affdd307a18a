package midi

import (
	"encoding/hex"
	"strings"
)

// Decode turns a raw channel-voice message into an Event.
// Unknown status codes and truncated messages yield ok == false.
func Decode(msg []byte) (Event, bool) {
	if len(msg) < 2 {
		return Event{}, false
	}
	code := msg[0] & StatusCodeMask
	channel := int(msg[0] & ChannelMask)
	data1 := int(msg[1] & 0x7F)

	// Program change is the only 2-byte message we care about
	if code == ProgramChange {
		return Event{
			Signature: Signature{Kind: KindProgramChange, Channel: channel, Number: data1},
			Value:     uint8(data1),
			Pulse:     true,
		}, true
	}

	if len(msg) < 3 {
		return Event{}, false
	}
	data2 := msg[2] & 0x7F

	switch code {
	case NoteOn:
		return Event{Signature: Signature{Kind: KindNote, Channel: channel, Number: data1}, Value: data2}, true
	case NoteOff:
		// release velocity is not a value
		return Event{Signature: Signature{Kind: KindNote, Channel: channel, Number: data1}, Value: 0}, true
	case CC:
		return Event{Signature: Signature{Kind: KindCC, Channel: channel, Number: data1}, Value: data2}, true
	case PitchBend:
		// data1 (the LSB) doubles as the number, data2 (the MSB) is the value
		return Event{Signature: Signature{Kind: KindPitchBend, Channel: channel, Number: data1}, Value: data2}, true
	}
	return Event{}, false
}

// DecodeSysEx accepts only the 6-byte MMC envelope F0 7F <dev> 06 <cmd> F7.
// The device ID is folded into a channel, so only 16 device IDs are distinguishable.
func DecodeSysEx(data []byte) (Event, bool) {
	if len(data) != 6 || data[0] != 0xF0 || data[1] != 0x7F || data[3] != 0x06 || data[5] != 0xF7 {
		return Event{}, false
	}
	return Event{
		Signature: Signature{Kind: KindMMC, Channel: int(data[2]) % 16, Number: int(data[4])},
		Value:     127,
		Pulse:     true,
	}, true
}

// DecodeHexSysEx decodes a sysex buffer given as a hex string ("F07F010605F7" or "F0 7F 01 ...").
func DecodeHexSysEx(s string) (Event, bool) {
	data, err := hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if err != nil {
		return Event{}, false
	}
	return DecodeSysEx(data)
}

// IsSysEx reports whether msg starts a system exclusive message
func IsSysEx(msg []byte) bool {
	return len(msg) > 0 && msg[0] == 0xF0
}
