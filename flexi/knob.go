package flexi

import "fmt"

// KnobMode tells how the value of a continuous control is interpreted
type KnobMode int

const (
	KnobAbsolute  KnobMode = iota
	KnobRelative1          // two's complement: 1..63 up, 127..64 down
	KnobRelative2          // offset binary: 64 is zero, 65.. up, ..63 down
	KnobRelative3          // sign-magnitude: bit 6 set means down
)

var knobModeNames = [...]string{"Absolute", "Relative 1", "Relative 2", "Relative 3"}

func (m KnobMode) String() string {
	if m < 0 || int(m) >= len(knobModeNames) {
		return fmt.Sprintf("KnobMode(%d)", int(m))
	}
	return knobModeNames[m]
}

// ParseKnobMode is the inverse of KnobMode.String
func ParseKnobMode(s string) (KnobMode, error) {
	if s == "" {
		return KnobAbsolute, nil
	}
	for i, name := range knobModeNames {
		if name == s {
			return KnobMode(i), nil
		}
	}
	return KnobAbsolute, fmt.Errorf("unknown knob mode %q", s)
}

// KnobModes lists all modes in display order
func KnobModes() []KnobMode {
	return []KnobMode{KnobAbsolute, KnobRelative1, KnobRelative2, KnobRelative3}
}

// IsAbsolute reports whether the value is a position rather than a delta
func IsAbsolute(mode KnobMode) bool {
	return mode == KnobAbsolute
}

// RelativeSpeed decodes an encoder value into a signed delta.
// Absolute mode has no delta and returns 0.
func RelativeSpeed(mode KnobMode, value int) int {
	value &= 0x7F
	switch mode {
	case KnobRelative1:
		if value < 64 {
			return value
		}
		return value - 128
	case KnobRelative2:
		return value - 64
	case KnobRelative3:
		if value&0x40 != 0 {
			return -(value & 0x3F)
		}
		return value & 0x3F
	}
	return 0
}

// Limit clamps a value to the MIDI data range
func Limit(value int) int {
	return max(0, min(127, value))
}

// IsButtonPressed is the press edge of a control: a positive value in
// absolute mode, a positive delta in the relative modes.
func IsButtonPressed(mode KnobMode, value int) bool {
	if IsAbsolute(mode) {
		return value > 0
	}
	return RelativeSpeed(mode, value) > 0
}

// ScrollRate is the number of encoder ticks per scroll step
const ScrollRate = 6

// Movement slows down encoders used for scrolling
type Movement struct {
	counter int
}

// Increase counts one tick and reports whether a scroll step is due
func (m *Movement) Increase() bool {
	m.counter++
	if m.counter < ScrollRate {
		return false
	}
	m.counter = 0
	return true
}

// Reset drops accumulated ticks
func (m *Movement) Reset() {
	m.counter = 0
}
