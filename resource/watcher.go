package resource

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes resource directories and turns file rewrites into
// replacement Events. The editor tracks which handle is bound per path; when
// a tracked file changes on disk the watcher reloads it and emits an Event
// mapping the old serial address to the fresh handle.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan *Event
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once

	mu     sync.Mutex
	byPath map[string]Handle
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		watcher: fw,
		Events:  make(chan *Event, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		byPath:  map[string]Handle{},
	}
	go w.run()
	return w, nil
}

// Track registers the handle currently bound for path, so a later rewrite of
// that file can be mapped back to the serial address it replaces.
func (w *Watcher) Track(path string, h Handle) {
	w.mu.Lock()
	w.byPath[path] = h
	w.mu.Unlock()
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !IsImageFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < 100*time.Millisecond {
				continue
			}
			last[event.Name] = now

			w.mu.Lock()
			old, tracked := w.byPath[event.Name]
			w.mu.Unlock()
			if !tracked || !old.Valid() {
				continue
			}

			next, err := Load(event.Name)
			if err != nil {
				slog.Warn("resource: reload failed", "path", event.Name, "err", err)
				continue
			}
			next.SetPos(old.Get().Pos())
			handle := NewHandle(next)
			w.Track(event.Name, handle)

			ev := NewEvent()
			ev.Append(old.SerialAddress(), handle)
			w.Events <- ev
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.Errors <- err
		case <-w.closeCh:
			return
		}
	}
}
