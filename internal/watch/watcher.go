// Package watch implements the fsnotify-based reload trigger for a
// policy configuration file: it watches the file's parent directory,
// debounces bursts of filesystem events, and single-flights concurrent
// reload requests down to one in-flight call.
package watch

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"
)

// PolicyWatcher watches one configuration file's directory and invokes
// onReload (debounced and single-flighted) whenever the file changes.
type PolicyWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	debounce time.Duration

	onReload func() error

	group  singleflight.Group
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a PolicyWatcher for path, invoking onReload no more than
// once per debounce interval of filesystem quiet.
func New(path string, debounce time.Duration, onReload func() error) (*PolicyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &PolicyWatcher{
		watcher:  w,
		path:     filepath.Clean(path),
		debounce: debounce,
		onReload: onReload,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start begins processing filesystem events in a background goroutine.
func (pw *PolicyWatcher) Start() {
	pw.wg.Add(1)
	go pw.run()
}

// Stop cancels the watcher, closes the underlying fsnotify watcher, and
// waits for the event-processing goroutine to exit.
func (pw *PolicyWatcher) Stop() error {
	pw.cancel()
	err := pw.watcher.Close()

	pw.mu.Lock()
	if pw.timer != nil {
		pw.timer.Stop()
	}
	pw.mu.Unlock()

	pw.wg.Wait()
	return err
}

func (pw *PolicyWatcher) run() {
	defer pw.wg.Done()

	for {
		select {
		case <-pw.ctx.Done():
			return

		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != pw.path {
				continue
			}
			pw.scheduleReload()

		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("policy watcher: error: %v", err)
		}
	}
}

// scheduleReload resets the debounce timer; when it fires it triggers
// a single-flighted call to onReload, so a timer that fires while an
// earlier reload is still running joins that call instead of starting
// a second one.
func (pw *PolicyWatcher) scheduleReload() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.timer != nil {
		pw.timer.Stop()
	}
	pw.timer = time.AfterFunc(pw.debounce, pw.triggerReload)
}

// triggerReload runs onReload through the singleflight group, logging
// the outcome the way the module driver logs a per-module reload.
func (pw *PolicyWatcher) triggerReload() {
	_, err, _ := pw.group.Do("reload", func() (interface{}, error) {
		return nil, pw.onReload()
	})
	if err != nil {
		log.Printf("policy watcher: reload failed: %v", err)
		return
	}
	log.Printf("policy watcher: reload triggered for %s", pw.path)
}
