package flexi

import (
	"sync"
	"time"
)

// TaskScheduler posts delayed tasks back onto a task channel so they run
// on the goroutine that owns the surface, never concurrently with dispatch.
type TaskScheduler struct {
	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

func NewTaskScheduler(buffer int) *TaskScheduler {
	return &TaskScheduler{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Schedule implements Scheduler. Tasks due after Stop are dropped.
func (ts *TaskScheduler) Schedule(task func(), delay time.Duration) {
	time.AfterFunc(delay, func() {
		ts.Post(task)
	})
}

// Post queues a task to run as soon as possible. It reports false when
// the scheduler was stopped and the task was dropped.
func (ts *TaskScheduler) Post(task func()) bool {
	select {
	case ts.tasks <- task:
		return true
	case <-ts.done:
		return false
	}
}

// Stop drops pending and future posts; the owning loop calls it on exit
func (ts *TaskScheduler) Stop() {
	ts.stopOnce.Do(func() { close(ts.done) })
}

// Tasks is drained by the owning loop
func (ts *TaskScheduler) Tasks() <-chan func() {
	return ts.tasks
}
