package config

import (
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/docedit/internal/logging"
)

// DefaultDebounce is how long a file must stay quiet before a reload.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a configuration file when it changes.
//
// The file's directory is watched rather than the file, so editors that
// save by renaming a temporary file are seen too. Handlers run on the
// watcher's goroutine.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *logging.Logger

	fsw *fsnotify.Watcher

	mu       sync.Mutex
	current  *Config
	onChange []func(*Config)
	onError  []func(error)
	timer    *time.Timer
	started  bool
	closed   bool

	done chan struct{}
	wg   sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = l
	}
}

// NewWatcher loads path and prepares to watch it. Call Start to begin.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Load(abs)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		log:      logging.Null,
		fsw:      fsw,
		current:  cfg,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.WithComponent("config").WithField("file", filepath.Base(abs))
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string { return w.path }

// Current returns the last successfully loaded configuration.
func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// OnChange registers fn for every successful reload.
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// OnError registers fn for every failed reload.
func (w *Watcher) OnError(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = append(w.onError, fn)
}

// Start begins watching. Starting twice is a no-op.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if w.started {
		return nil
	}
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.started = true
	w.wg.Add(1)
	go w.loop()
	w.log.Debug("watching %s", w.path)
	return nil
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
			w.notifyError(err)
		}
	}
}

// schedule coalesces bursts of events into one reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if _, err := w.Reload(); err != nil {
			w.log.Warn("reload failed, keeping previous configuration: %v", err)
		}
	})
}

// Reload loads the file now and notifies listeners. On failure the
// previous configuration is kept and error listeners are called.
func (w *Watcher) Reload() (*Config, error) {
	cfg, err := Load(w.path)
	if err != nil {
		w.notifyError(err)
		return nil, err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrWatcherClosed
	}
	w.current = cfg
	handlers := slices.Clone(w.onChange)
	w.mu.Unlock()

	w.log.Info("configuration reloaded")
	for _, fn := range handlers {
		fn(cfg)
	}
	return cfg, nil
}

func (w *Watcher) notifyError(err error) {
	w.mu.Lock()
	handlers := slices.Clone(w.onError)
	w.mu.Unlock()
	for _, fn := range handlers {
		fn(err)
	}
}
