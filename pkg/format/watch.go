package format

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a Watcher waits for a burst of writes to settle
// before reloading.
const DefaultDebounce = 250 * time.Millisecond

// A Watcher reloads the catalog whenever the root configuration or one of the
// rule and word sources it names is written. Every reload builds a fresh
// Catalog; the previous one is never modified.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	log       *zap.Logger

	files map[string]bool // cleaned paths that trigger a reload
	dirs  map[string]bool // directories added to fsWatcher
	done  chan struct{}
}

// NewWatcher creates a watcher for the root configuration at path. A
// non-positive debounce selects DefaultDebounce.
func NewWatcher(path string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsWatcher: fsw,
		path:      filepath.Clean(path),
		debounce:  debounce,
		log:       log,
		files:     make(map[string]bool),
		dirs:      make(map[string]bool),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching. onReload is called from the watcher's goroutine with
// each successfully reloaded catalog; a reload that fails is logged and
// skipped, so the caller keeps its current catalog.
func (w *Watcher) Start(onReload func(*Catalog)) error {
	if err := w.track(w.path); err != nil {
		return err
	}
	if cfg, err := ReadConfig(w.path); err == nil {
		w.trackSources(cfg)
	}
	go w.loop(onReload)
	return nil
}

// Stop terminates the watcher and releases its resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) track(file string) error {
	file = filepath.Clean(file)
	w.files[file] = true
	dir := filepath.Dir(file)
	if w.dirs[dir] {
		return nil
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	w.dirs[dir] = true
	return nil
}

func (w *Watcher) trackSources(cfg Config) {
	for _, src := range cfg.Sources() {
		if err := w.track(src); err != nil {
			w.log.Warn("cannot watch format source", zap.String("source", src), zap.Error(err))
		}
	}
}

func (w *Watcher) loop(onReload func(*Catalog)) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload(onReload)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("format watcher error", zap.Error(err))

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload(onReload func(*Catalog)) {
	cfg, err := ReadConfig(w.path)
	if err != nil {
		w.log.Warn("format catalog reload failed", zap.Error(err))
		return
	}
	w.trackSources(cfg)
	w.log.Info("reloading format catalog", zap.String("config", w.path))
	onReload(Build(cfg, w.log))
}

// isRelevantEvent reports whether event touches a watched file. Editors that
// save by renaming produce Create events rather than Write.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return w.files[filepath.Clean(event.Name)]
}
