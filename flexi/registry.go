package flexi

import (
	"strings"

	"github.com/pkg/errors"
)

// Registry maps every command to the handler that executes it
type Registry struct {
	handlers map[Command]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Command]Handler)}
}

// Register installs h for all of its supported commands.
// A later registration of the same command wins.
func (r *Registry) Register(h Handler) {
	for _, c := range h.SupportedCommands() {
		r.handlers[c] = h
	}
}

// Handler returns the handler for c
func (r *Registry) Handler(c Command) (Handler, bool) {
	h, ok := r.handlers[c]
	return h, ok
}

// Missing returns the commands without a handler. Off never needs one.
func (r *Registry) Missing(commands []Command) []Command {
	var out []Command
	for _, c := range commands {
		if c.IsOff() {
			continue
		}
		if _, ok := r.handlers[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks that the whole vocabulary is covered
func (r *Registry) Validate() error {
	missing := r.Missing(AllCommands())
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, 3)
	for i, c := range missing {
		if i == 3 {
			names = append(names, "...")
			break
		}
		names = append(names, c.String())
	}
	return errors.Wrapf(ErrMissingHandler, "%d commands (%s)", len(missing), strings.Join(names, ", "))
}
