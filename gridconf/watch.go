package gridconf

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// EventKind says which part of a grid description a changed file holds.
type EventKind int

const (
	EventConfig EventKind = iota + 1
	EventScript
)

func (k EventKind) String() string {
	switch k {
	case EventConfig:
		return "config"
	case EventScript:
		return "script"
	}
	return "unknown"
}

// Event is one changed grid config or cost script.
type Event struct {
	Path string
	Kind EventKind
}

// Watcher reports changes to grid configs and cost scripts in the watched directories.
// Bursts of writes to one file are collapsed into one event.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Event
	Errors  chan error
	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Event, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.doneCh
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := eventKind(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < watchDebounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- Event{Path: event.Name, Kind: kind}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func eventKind(path string) (EventKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EventConfig, true
	case ".tengo":
		return EventScript, true
	}
	return 0, false
}

// WatchDirs lists the directories holding the config file and its cost script.
func (c Config) WatchDirs() []string {
	dirs := []string{filepath.Dir(c.Path())}
	if script := c.ScriptPath(); script != "" && filepath.Dir(script) != dirs[0] {
		dirs = append(dirs, filepath.Dir(script))
	}
	return dirs
}

// Affected reports whether ev touches this config: its own file for config events, its cost
// script for script events.
func (c Config) Affected(ev Event) bool {
	switch ev.Kind {
	case EventConfig:
		return sameFile(ev.Path, c.Path())
	case EventScript:
		return c.Script != "" && sameFile(ev.Path, c.ScriptPath())
	}
	return false
}

func sameFile(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
