package flexi

import (
	"context"
	"testing"
	"time"

	"go-flexi/midi"
)

type fakeController struct {
	recordingOutput
	id   string
	msgs chan []byte
}

func (c *fakeController) ID() string { return c.id }
func (c *fakeController) Messages() <-chan []byte { return c.msgs }
func (c *fakeController) Close() error { return nil }

func TestRunnerDispatchesAndSettles(t *testing.T) {
	tb := NewTable(4)
	mustSet(t, tb, 0, Slot{Signature: cc(0, 7), Command: track1Volume, SendValue: true})
	h := newValueHandler()
	reg := NewRegistry()
	reg.Register(h)

	tasks := NewTaskScheduler(16)
	s, err := NewSurface(tb, reg, tasks)
	if err != nil {
		t.Fatal(err)
	}
	s.SetSettleDelay(10 * time.Millisecond)

	r := NewRunner(s, tasks, 100)
	devices := make(chan midi.DeviceEvent, 1)
	ctrl := &fakeController{id: "nanoKONTROL2", msgs: make(chan []byte, 4)}
	devices <- midi.DeviceEvent{Type: midi.DeviceConnected, Controller: ctrl, ID: ctrl.id}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx, devices) }()

	ctrl.msgs <- []byte{0xB0, 7, 100}

	deadline := time.Now().Add(2 * time.Second)
	for {
		var volume int
		var suppressed bool
		r.Do(func(s *Surface) {
			volume = h.values[track1Volume]
			suppressed = s.Suppressed()
		})
		if volume == 100 && !suppressed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("volume=%d suppressed=%v", volume, suppressed)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got := r.Connected(); got != "nanoKONTROL2" {
		t.Errorf("Connected() = %q", got)
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("Run: %v", err)
	}
	if r.Do(func(*Surface) {}) {
		t.Error("Do succeeded after stop")
	}
}

func TestRunnerRepaintsOnReconnect(t *testing.T) {
	tb := NewTable(4)
	mustSet(t, tb, 0, Slot{Signature: cc(0, 7), Command: track1Volume, SendValue: true})
	h := newValueHandler()
	h.values[track1Volume] = 42
	reg := NewRegistry()
	reg.Register(h)

	tasks := NewTaskScheduler(16)
	s, err := NewSurface(tb, reg, tasks)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(s, tasks, 100)

	first := &fakeController{id: "first", msgs: make(chan []byte)}
	second := &fakeController{id: "second", msgs: make(chan []byte)}
	devices := make(chan midi.DeviceEvent, 3)
	devices <- midi.DeviceEvent{Type: midi.DeviceConnected, Controller: first, ID: first.id}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx, devices)

	waitSent := func(c *fakeController) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for {
			var n int
			r.Do(func(*Surface) { n = len(c.sent) })
			if n > 0 {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("%s got no feedback", c.id)
			}
			time.Sleep(5 * time.Millisecond)
		}
		r.Do(func(*Surface) {
			if got := c.sent[0]; got != (sentMsg{"cc", 0, 7, 42}) {
				t.Errorf("%s got %v", c.id, got)
			}
		})
	}

	waitSent(first)

	devices <- midi.DeviceEvent{Type: midi.DeviceDisconnected, ID: first.id}
	devices <- midi.DeviceEvent{Type: midi.DeviceConnected, Controller: second, ID: second.id}
	waitSent(second)

	if got := r.Connected(); got != "second" {
		t.Errorf("Connected() = %q", got)
	}
}

func TestDoDoesNotSignalUpdates(t *testing.T) {
	tb := NewTable(4)
	reg := NewRegistry()
	reg.Register(newValueHandler())
	tasks := NewTaskScheduler(16)
	s, err := NewSurface(tb, reg, tasks)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(s, tasks, 100)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx, nil)

	// a UI refreshing on every update must go quiet when nothing happens
	for i := 0; i < 50; i++ {
		if !r.Do(func(*Surface) {}) {
			t.Fatal("runner stopped")
		}
	}
	select {
	case <-r.UpdateChan:
		t.Error("Do signalled UpdateChan")
	case <-time.After(100 * time.Millisecond):
	}

	// scheduled tasks still do
	tasks.Schedule(func() {}, time.Millisecond)
	select {
	case <-r.UpdateChan:
	case <-time.After(2 * time.Second):
		t.Error("scheduled task did not signal UpdateChan")
	}
}

func TestSchedulerDropsTasksAfterStop(t *testing.T) {
	ts := NewTaskScheduler(1)
	if !ts.Post(func() {}) {
		t.Fatal("Post before Stop dropped the task")
	}
	ts.Stop()
	ts.Stop()

	posted := make(chan bool, 1)
	go func() { posted <- ts.Post(func() {}) }()
	select {
	case ok := <-posted:
		if ok {
			t.Error("Post after Stop queued into a full buffer")
		}
	case <-time.After(time.Second):
		t.Fatal("Post blocked after Stop")
	}
}

func TestRunStopsScheduler(t *testing.T) {
	tb := NewTable(1)
	reg := NewRegistry()
	reg.Register(newValueHandler())
	tasks := NewTaskScheduler(0)
	s, err := NewSurface(tb, reg, tasks)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(s, tasks, 100)
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx, nil)
	cancel()
	<-r.Done()

	posted := make(chan bool, 1)
	go func() { posted <- tasks.Post(func() {}) }()
	select {
	case <-posted:
	case <-time.After(time.Second):
		t.Fatal("settle task would block forever after Run returned")
	}
}
