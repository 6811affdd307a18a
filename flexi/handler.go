package flexi

import "time"

// Handler executes a fixed set of commands against the hosted application
// and reads their current values back. Handlers keep no slot state.
type Handler interface {
	SupportedCommands() []Command

	// CommandValue returns the current value in [0,127], or -1 when unknown
	CommandValue(c Command) int

	// Handle applies an incoming control value; it must not block
	Handle(c Command, mode KnobMode, value int)
}

// Scheduler runs a task once after a delay. Tasks are fire-and-forget.
type Scheduler interface {
	Schedule(task func(), delay time.Duration)
}

// Notifier shows a short message to the user
type Notifier interface {
	Notify(msg string)
}

// TableStore reads and writes binding tables to files
type TableStore interface {
	Import(path string) ([]Slot, error)
	Export(path string, slots []Slot) error
}

// NotifyFunc adapts a function to Notifier
type NotifyFunc func(msg string)

func (f NotifyFunc) Notify(msg string) { f(msg) }
