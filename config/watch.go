package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"

	"go-flexi/debug"
)

// DefaultPollInterval is how often a watched table file is checked
const DefaultPollInterval = 500 * time.Millisecond

// TableWatcher calls back whenever the table file is written or replaced
type TableWatcher struct {
	path     string
	interval time.Duration
}

func NewTableWatcher(path string, interval time.Duration) *TableWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &TableWatcher{path: path, interval: interval}
}

// Run blocks until ctx is done. onChange runs on the watcher goroutine.
func (tw *TableWatcher) Run(ctx context.Context, onChange func()) error {
	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create, watcher.Rename, watcher.Move)

	if err := w.Add(tw.path); err != nil {
		return errors.Wrapf(err, "watch %s", tw.path)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- w.Start(tw.interval)
	}()
	defer w.Close()

	debug.Log("config", "watching %s every %v", tw.path, tw.interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-w.Event:
			debug.Log("config", "table file event: %v", ev.Op)
			onChange()
		case err := <-w.Error:
			debug.Log("config", "watch error: %v", err)
		case err := <-errc:
			return err
		case <-w.Closed:
			return nil
		}
	}
}
