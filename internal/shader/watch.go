package shader

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long a source must stay quiet before a change is reported.
// Editors often write a file in several steps.
const debounce = 150 * time.Millisecond

// Watcher reports the names of contracts whose sources changed under a directory.
// Events are delivered on Changes; the render loop drains it without blocking.
type Watcher struct {
	fsw     *fsnotify.Watcher
	changes chan string
	errs    chan error
	done    chan struct{}
	wg      sync.WaitGroup
}

// Watch starts watching dir for edits to built-in contract sources.
func Watch(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader: watch: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("shader: watch %s: %w", dir, err)
	}
	w := &Watcher{
		fsw:     fsw,
		changes: make(chan string, len(interfaces)),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Changes delivers contract names after their sources settle.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Errors delivers watcher failures. Only the most recent undelivered error is kept.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-w.done:
			timer.Stop()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			name, ok := nameFromPath(ev.Name)
			if !ok {
				continue
			}
			pending[name] = true
			timer.Reset(debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-timer.C:
			names := make([]string, 0, len(pending))
			for n := range pending {
				names = append(names, n)
			}
			slices.Sort(names)
			clear(pending)
			for _, n := range names {
				select {
				case w.changes <- n:
				case <-w.done:
					return
				}
			}
		}
	}
}
