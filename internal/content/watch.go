package content

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/onekit-js/onekit-site/pkg/logging"
)

// DefaultDebounce collapses bursts of file events into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Watch reloads the store whenever a file in dir changes, debounced. It
// blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, dir string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	s.log.Info("watching content directory",
		logging.Event("content.watcher_started"),
		logging.String("dir", dir),
	)

	// The timer is owned by this goroutine; reloads run here too so a
	// cancelled context never races a pending reload.
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("content watcher stopped", logging.Event("content.watcher_stopped"))
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.log.Debug("content file changed",
				logging.Event("content.file_changed"),
				logging.String("file", event.Name),
				logging.String("op", event.Op.String()),
			)
			timer.Reset(debounce)

		case <-timer.C:
			_ = s.Reload(ctx) // logged; the old snapshot stays active

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Error("content watcher error",
				logging.Event("content.watcher_error"),
				logging.Err(err),
			)
		}
	}
}
