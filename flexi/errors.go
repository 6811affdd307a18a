package flexi

import "github.com/pkg/errors"

var (
	// ErrMissingHandler means a bound command has no registered handler.
	// The registry is incomplete; this is a programming error, not user input.
	ErrMissingHandler = errors.New("no handler registered for command")

	// ErrDuplicateSignature means two enabled slots would share a signature
	ErrDuplicateSignature = errors.New("signature already bound to another slot")

	// ErrSlotRange means a slot index outside the table
	ErrSlotRange = errors.New("slot index out of range")

	// ErrUnknownCommand means a command name that is not part of the vocabulary
	ErrUnknownCommand = errors.New("unknown command")
)
