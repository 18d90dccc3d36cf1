package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/longmode/internal/log"
)

// Watcher reloads a configuration file into a Config when it changes on
// disk. Reloads happen between mode-selection passes from the watcher's
// goroutine; passes are isolated by their snapshots.
type Watcher struct {
	mu      sync.Mutex
	cfg     *Config
	path    string
	fw      *fsnotify.Watcher
	logger  *log.Logger
	done    chan struct{}
	running bool
}

// NewWatcher creates a watcher that keeps cfg in sync with the file at
// path. A nil logger discards diagnostics.
func NewWatcher(cfg *Config, path string, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Null
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &Watcher{
		cfg:    cfg,
		path:   abs,
		logger: logger.WithComponent("config-watcher"),
	}, nil
}

// Start begins watching. Idempotent.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	// Watch the directory: editors commonly replace files on save, which
	// drops a watch registered on the file itself.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	w.fw = fw
	w.done = make(chan struct{})
	w.running = true

	go w.loop(fw, w.done)
	return nil
}

// Stop stops watching. Idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.fw.Close()
	<-w.done
	w.fw = nil
	w.running = false
}

// loop handles file system events until the watcher closes.
func (w *Watcher) loop(fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

// reload re-reads the file and installs the new settings.
func (w *Watcher) reload() {
	settings, err := LoadFile(w.path)
	if err != nil {
		w.logger.Error("reload of %s failed: %v", w.path, err)
		return
	}

	if err := w.cfg.Update(func(s *Settings) { *s = settings }); err != nil {
		w.logger.Error("reloaded settings rejected: %v", err)
		return
	}
	w.logger.Info("configuration reloaded from %s", w.path)
}
