package midi

import "fmt"

// MIDI status codes (upper nibble of the status byte)
const (
	NoteOff       uint8 = 0x80
	NoteOn        uint8 = 0x90
	CC            uint8 = 0xB0
	ProgramChange uint8 = 0xC0
	PitchBend     uint8 = 0xE0

	StatusCodeMask uint8 = 0xF0
	ChannelMask    uint8 = 0x0F
)

// AnyChannel matches every incoming channel when used in a Signature
const AnyChannel = -1

// Kind identifies the family of an input signature
type Kind int

const (
	KindNone Kind = iota // disabled slot, never produced by the decoder
	KindNote
	KindCC
	KindProgramChange
	KindPitchBend
	KindMMC
)

var kindNames = [...]string{"Off", "Note", "CC", "PC", "PitchBend", "MMC"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return KindNone, fmt.Errorf("unknown signature kind %q", s)
}

// Kinds lists the kinds a slot can be bound to, in display order.
func Kinds() []Kind {
	return []Kind{KindNone, KindNote, KindCC, KindProgramChange, KindPitchBend, KindMMC}
}

// CanReflect reports whether values can be sent back to the controller for this kind
func (k Kind) CanReflect() bool {
	return k == KindCC || k == KindPitchBend
}

// Signature identifies a physical control on the controller
type Signature struct {
	Kind    Kind
	Channel int // 0-15 or AnyChannel
	Number  int // note, controller, program or MMC command
}

// Matches reports whether an incoming signature (always on a concrete channel) hits s.
func (s Signature) Matches(kind Kind, number, channel int) bool {
	if s.Kind == KindNone || s.Kind != kind || s.Number != number {
		return false
	}
	return s.Channel == AnyChannel || s.Channel == channel
}

func (s Signature) String() string {
	if s.Kind == KindNone {
		return "Off"
	}
	ch := "any"
	if s.Channel != AnyChannel {
		ch = fmt.Sprintf("%d", s.Channel+1)
	}
	return fmt.Sprintf("%s %d ch %s", s.Kind, s.Number, ch)
}

// Event is a decoded input event
type Event struct {
	Signature
	Value uint8
	// Pulse is set for messages without a value byte (Program Change, MMC).
	// Trigger commands receive a synthesized 127/0 pair for them.
	Pulse bool
}
