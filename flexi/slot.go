package flexi

import "go-flexi/midi"

// Slot binds an input signature to a semantic command
type Slot struct {
	midi.Signature
	Command  Command
	KnobMode KnobMode

	// SendValue enables value feedback to the controller for this slot
	SendValue bool
	// SendValueWhenReceived lets trigger slots reflect their value
	// even while feedback is held back after a command
	SendValueWhenReceived bool
}

// Enabled reports whether the slot listens to any input
func (s Slot) Enabled() bool {
	return s.Kind != midi.KindNone
}

// IsEmpty reports whether the slot carries no configuration at all
func (s Slot) IsEmpty() bool {
	return s == Slot{}
}

func (s Slot) String() string {
	return s.Signature.String() + " -> " + s.Command.String()
}
