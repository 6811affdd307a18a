package flexi

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"go-flexi/debug"
	"go-flexi/midi"
)

// DefaultFPS is the feedback refresh rate
const DefaultFPS = 30

// Runner owns a Surface and feeds it from a single goroutine:
// controller input, the feedback ticker, settle tasks and UI calls.
type Runner struct {
	surface *Surface
	tasks   *TaskScheduler
	fps     int

	controller midi.Controller
	connected  atomic.Value // controller ID, read by the UI
	requests   chan func()  // Do calls; these never signal UpdateChan
	done       chan struct{}

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// NewRunner creates a runner. The surface must have been built with
// tasks as its scheduler.
func NewRunner(s *Surface, tasks *TaskScheduler, fps int) *Runner {
	if fps <= 0 {
		fps = DefaultFPS
	}
	r := &Runner{
		surface:    s,
		tasks:      tasks,
		fps:        fps,
		requests:   make(chan func()),
		done:       make(chan struct{}),
		UpdateChan: make(chan struct{}, 1),
	}
	r.connected.Store("")
	return r
}

// Run blocks until ctx is done or a command has no handler
func (r *Runner) Run(ctx context.Context, devices <-chan midi.DeviceEvent) error {
	defer close(r.done)
	defer r.tasks.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(r.fps))
	defer ticker.Stop()

	var input <-chan []byte
	if r.controller != nil {
		input = r.controller.Messages()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-devices:
			if !ok {
				devices = nil
				continue
			}
			input = r.handleDevice(evt, input)
			r.notifyUpdate()

		case msg, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			if err := r.surface.HandleMIDI(msg); err != nil {
				if errors.Is(err, ErrMissingHandler) {
					return err
				}
				debug.Log("surface", "dispatch: %v", err)
			}
			r.notifyUpdate()

		case task := <-r.tasks.Tasks():
			task()
			r.notifyUpdate()

		case req := <-r.requests:
			req()

		case <-ticker.C:
			if err := r.surface.Flush(); err != nil {
				debug.LogEvery(30, "feedback", "flush: %v", err)
			}
		}
	}
}

// SetController attaches a controller before Run starts
func (r *Runner) SetController(c midi.Controller) {
	r.controller = c
	if c != nil {
		r.surface.SetOutput(c)
		r.connected.Store(c.ID())
	}
}

func (r *Runner) handleDevice(evt midi.DeviceEvent, input <-chan []byte) <-chan []byte {
	switch evt.Type {
	case midi.DeviceConnected:
		debug.Log("ports", "controller %s attached", evt.ID)
		r.controller = evt.Controller
		r.connected.Store(evt.ID)
		r.surface.SetOutput(evt.Controller)
		// repaint everything on the new device
		r.surface.ResetCache()
		return evt.Controller.Messages()
	case midi.DeviceDisconnected:
		if r.controller == nil || r.controller.ID() != evt.ID {
			return input
		}
		debug.Log("ports", "controller %s detached", evt.ID)
		r.controller = nil
		r.connected.Store("")
		r.surface.SetOutput(nil)
		return nil
	}
	return input
}

// Connected returns the ID of the attached controller, or ""
func (r *Runner) Connected() string {
	return r.connected.Load().(string)
}

// Do runs fn on the runner goroutine and waits for it.
// It returns false when the runner has stopped. Do does not signal
// UpdateChan, so a UI may refresh through Do on every update.
func (r *Runner) Do(fn func(s *Surface)) bool {
	finished := make(chan struct{})
	task := func() {
		fn(r.surface)
		close(finished)
	}
	select {
	case r.requests <- task:
	case <-r.done:
		return false
	}
	select {
	case <-finished:
		return true
	case <-r.done:
		return false
	}
}

// Done is closed when Run returns
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) notifyUpdate() {
	select {
	case r.UpdateChan <- struct{}{}:
	default:
	}
}
