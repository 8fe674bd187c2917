// Package filewatch reports debounced changes to a single file.
package filewatch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before a change is reported.
const DefaultDebounce = 200 * time.Millisecond

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeWritten ChangeKind = iota // File created or written
	ChangeRemoved                   // File deleted or renamed away
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "written"
}

// Change is a settled change to the watched file.
type Change struct {
	Kind ChangeKind
	File string
}

// Watcher monitors one file. It watches the parent directory so that
// editors which save by renaming a temp file over the original are seen.
type Watcher struct {
	File    string
	Changes <-chan Change // Read-only external channel
	Errors  <-chan error

	changes  chan Change
	errors   chan error
	done     chan struct{}
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// New creates a watcher for file. A zero debounce uses DefaultDebounce.
func New(file string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	ch := make(chan Change, 16)
	errs := make(chan error, 4)
	return &Watcher{
		File:     abs,
		Changes:  ch,
		Errors:   errs,
		changes:  ch,
		errors:   errs,
		done:     make(chan struct{}),
		debounce: debounce,
		watcher:  fw,
	}, nil
}

// Start begins watching. On failure the underlying watcher is released and
// Stop returns without blocking.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.File)); err != nil {
		w.watcher.Close()
		close(w.done)
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.File), err)
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and its channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
	close(w.errors)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var (
		pending bool
		kind    ChangeKind
		last    time.Time
	)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending {
					w.changes <- Change{Kind: kind, File: w.File}
				}
				return
			}
			if filepath.Clean(event.Name) != w.File {
				continue
			}

			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				kind = ChangeWritten
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				kind = ChangeRemoved
			default:
				continue
			}
			pending = true
			last = time.Now()

		case <-ticker.C:
			if pending && time.Since(last) >= w.debounce {
				w.changes <- Change{Kind: kind, File: w.File}
				pending = false
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; drop them if nobody is listening.
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}
