// Package refresh triggers snapshot rebuilds from file changes and a cron
// schedule.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// ReloadFunc rebuilds the working set. It must be safe to call concurrently.
type ReloadFunc func(ctx context.Context)

// missingDirPoll is how often a missing data directory is checked for.
const missingDirPoll = 2 * time.Second

// Watcher rebuilds after *.json files in a directory change. Bursts of
// events within the debounce window collapse into one reload. A directory
// that does not exist yet is polled for and watched once it appears.
type Watcher struct {
	dir      string
	debounce time.Duration
	poll     time.Duration
	reload   ReloadFunc
}

func NewWatcher(dir string, debounce time.Duration, reload ReloadFunc) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{dir: dir, debounce: debounce, poll: missingDirPoll, reload: reload}
}

func relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// add starts watching the directory, waiting for it to be created when it
// is missing. It reports false when ctx ends first.
func (w *Watcher) add(ctx context.Context, fw *fsnotify.Watcher) (bool, error) {
	if _, err := os.Stat(w.dir); errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("dir", w.dir).Msg("data directory missing, waiting for it")
		t := time.NewTicker(w.poll)
		defer t.Stop()
		for errors.Is(err, fs.ErrNotExist) {
			select {
			case <-ctx.Done():
				return false, nil
			case <-t.C:
				_, err = os.Stat(w.dir)
			}
		}
		if err := fw.Add(w.dir); err != nil {
			return false, fmt.Errorf("watch %s: %w", w.dir, err)
		}
		// files may already be there
		w.reload(ctx)
		return true, nil
	}
	if err := fw.Add(w.dir); err != nil {
		return false, fmt.Errorf("watch %s: %w", w.dir, err)
	}
	return true, nil
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()
	if ok, err := w.add(ctx, fw); err != nil || !ok {
		return err
	}
	log.Info().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("watching data directory")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("data change")
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			pending = false
			log.Info().Str("dir", w.dir).Msg("data changed, reloading")
			w.reload(ctx)
		}
	}
}
