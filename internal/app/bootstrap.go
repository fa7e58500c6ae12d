package app

import (
	"bytes"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/docedit/internal/config"
	"github.com/dshills/docedit/internal/controller"
	"github.com/dshills/docedit/internal/host/terminal"
	"github.com/dshills/docedit/internal/logging"
	"github.com/dshills/docedit/internal/odt"
	"github.com/dshills/docedit/internal/script"
	"github.com/dshills/docedit/internal/session"
	"github.com/dshills/docedit/internal/undo"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 8),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogging,
		b.initDocument,
		b.initSession,
		b.initTerminal,
		b.initController,
		b.initScripts,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initConfig() error {
	cfg, err := config.Load(b.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

func (b *bootstrapper) initLogging() error {
	cfg := b.app.config
	level := cfg.LogLevel()
	if b.opts.LogLevel != "" {
		level = logging.ParseLevel(b.opts.LogLevel)
	}
	lc := logging.Config{Level: level, Output: b.opts.LogOutput}
	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return &InitError{Component: "logging", Err: err}
		}
		b.app.logFile = f
		lc.Output = f
	case lc.Output == nil:
		// The screen owns the terminal until Shutdown.
		b.app.logBuf = &bytes.Buffer{}
		lc.Output = b.app.logBuf
	}
	b.app.log = logging.New(lc)
	b.initOrder = append(b.initOrder, "logging")
	if cfg.Path != "" {
		b.app.log.Info("configuration loaded from %s", cfg.Path)
	}
	return nil
}

func (b *bootstrapper) initDocument() error {
	opts := []odt.Option{odt.WithLogger(b.app.log)}
	if n := b.app.config.Editor.LoopGuard; n > 0 {
		opts = append(opts, odt.WithLoopGuard(n))
	}
	if b.opts.File != "" {
		data, err := os.ReadFile(b.opts.File)
		switch {
		case os.IsNotExist(err):
			b.app.log.Info("%s does not exist, starting empty", b.opts.File)
		case err != nil:
			return &InitError{Component: "document", Err: err}
		default:
			opts = append(opts, odt.WithContent(odt.Lines(string(data))...))
		}
	}
	b.app.doc = odt.New(opts...)
	b.initOrder = append(b.initOrder, "document")
	return nil
}

func (b *bootstrapper) initSession() error {
	opts := []session.Option{session.WithLogger(b.app.log)}
	if path := b.app.config.JournalPath(); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return &InitError{Component: "session", Err: err}
		}
		b.app.journalFile = f
		opts = append(opts, session.WithJournal(f))
	}
	b.app.session = session.NewLocal(b.app.doc, opts...)
	b.initOrder = append(b.initOrder, "session")

	if b.opts.Replay != "" {
		data, err := os.ReadFile(b.opts.Replay)
		if err != nil {
			return &InitError{Component: "session", Err: err}
		}
		if _, err := b.app.session.Replay(data); err != nil {
			return &InitError{Component: "session", Err: fmt.Errorf("replaying %s: %w", b.opts.Replay, err)}
		}
	}
	return nil
}

func (b *bootstrapper) initTerminal() error {
	screen := b.opts.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
	}
	term := terminal.New(screen, b.app.doc, terminal.WithLogger(b.app.log))
	if err := term.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	b.app.term = term
	b.initOrder = append(b.initOrder, "terminal")
	return nil
}

func (b *bootstrapper) initController() error {
	cfg := b.app.config
	platform, err := cfg.Platform()
	if err != nil {
		return &InitError{Component: "controller", Err: err}
	}
	member := cfg.Editor.Member
	if member == "" {
		member = session.NewMemberID()
	}
	c := controller.New(b.app.session, b.app.doc, b.app.term, member,
		controller.WithPlatform(platform),
		controller.WithLogger(b.app.log),
	)
	if err := c.ApplyBindings(cfg.Keymap.KeymapBindings()); err != nil {
		return &InitError{Component: "controller", Err: err}
	}

	var undoOpts []undo.Option
	if n := cfg.Undo.MaxStates; n > 0 {
		undoOpts = append(undoOpts, undo.WithMaxStates(n))
	}
	b.app.undo = undo.NewTrivialManager(append(undoOpts, undo.WithLogger(b.app.log))...)
	c.SetUndoManager(b.app.undo)

	b.app.controller = c
	b.initOrder = append(b.initOrder, "controller")
	return nil
}

func (b *bootstrapper) initScripts() error {
	h := script.NewHost(b.app.controller, script.WithLogger(b.app.log))
	b.app.scripts = h
	b.initOrder = append(b.initOrder, "scripts")
	for _, path := range b.app.config.ScriptPaths() {
		if err := h.LoadFile(path); err != nil {
			return &InitError{Component: "scripts", Err: fmt.Errorf("%s: %w", path, err)}
		}
		b.app.log.Info("loaded script %s", path)
	}
	return nil
}

func (b *bootstrapper) initWatcher() error {
	if !b.opts.Watch || b.opts.ConfigPath == "" {
		return nil
	}
	w, err := config.NewWatcher(b.opts.ConfigPath, config.WithWatcherLogger(b.app.log))
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	term := b.app.term
	w.OnChange(func(cfg *config.Config) {
		if err := term.Post(func() { b.app.applyConfig(cfg) }); err != nil {
			b.app.log.Warn("posting config reload: %v", err)
		}
	})
	w.OnError(func(err error) {
		msg := "config: " + err.Error()
		if perr := term.Post(func() { term.SetStatus(msg) }); perr != nil {
			b.app.log.Warn("posting config error: %v", perr)
		}
	})
	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// cleanup releases the initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
	b.initOrder = b.initOrder[:0]
}

func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "watcher":
		if err := b.app.watcher.Close(); err != nil {
			b.app.log.Warn("closing watcher: %v", err)
		}
	case "scripts":
		b.app.scripts.Close()
	case "controller":
		b.app.controller.Destroy(nil)
	case "terminal":
		b.app.term.Close()
	case "session":
		b.app.session.Close()
		if b.app.journalFile != nil {
			_ = b.app.journalFile.Close()
			b.app.journalFile = nil
		}
	case "logging":
		if b.app.logFile != nil {
			_ = b.app.logFile.Close()
			b.app.logFile = nil
		}
	}
}
