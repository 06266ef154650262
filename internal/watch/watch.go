// Package watch reports changes to a single file.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay coalesces the burst of events an editor produces on save.
const DefaultDelay = 200 * time.Millisecond

// Watcher calls OnChange after the file at Path is written or replaced.
// The parent directory is watched so files replaced by rename are still seen.
type Watcher struct {
	path     string
	delay    time.Duration
	onChange func(ctx context.Context) error
}

func New(path string, delay time.Duration, onChange func(ctx context.Context) error) Watcher {
	return Watcher{
		path:     filepath.Clean(path),
		delay:    delay,
		onChange: onChange,
	}
}

func (w Watcher) String() string {
	return "watch.Watcher"
}

func (w Watcher) Serve(ctx context.Context) error {
	slog := slog.With("package", "watch", "path", w.path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			slog.Debug("File changed", "op", event.Op.String())
			timerC = time.After(w.delay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			slog.Error("Watch error", "error", err)
		case <-timerC:
			timerC = nil
			if err := w.onChange(ctx); err != nil {
				return err
			}
		}
	}
}
