// Package watch turns filesystem events in the watched directory into early
// collection steps. It only shortens latency; the periodic step still runs
// whether or not any event arrives.
package watch

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/koba789/unrotate/internal/classifier"
	"github.com/koba789/unrotate/internal/source"
)

// Watcher calls nudge once per log file, as soon as the file is large enough
// to hold its date header. A log VRChat is still writing produces a stream of
// Write events; only the first one that finds a full header counts.
type Watcher struct {
	watcher *fsnotify.Watcher
	dir     string
	nudge   func()
	onError func(error)

	// seen is only touched by the event goroutine.
	seen map[string]bool

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New starts watching dir (not recursively). onError may be nil.
func New(dir string, nudge func(), onError func(error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fsw,
		dir:     filepath.Clean(dir),
		nudge:   nudge,
		onError: onError,
		seen:    make(map[string]bool),
		done:    make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processEvents()

	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) && w.ready(event.Name) {
				w.nudge()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	return source.IsLogFileName(filepath.Base(event.Name))
}

// ready reports whether path is a regular file holding at least a full header
// that has not triggered a nudge yet. A freshly created, still empty log would
// only fail classification.
func (w *Watcher) ready(path string) bool {
	if w.seen[path] {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() < classifier.HeaderSize {
		return false
	}

	w.seen[path] = true
	return true
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
