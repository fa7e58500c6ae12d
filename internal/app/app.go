// Package app wires a document, its editing session and controller, the
// user's configuration and scripts to a terminal host.
package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"

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

// Options configures an Application.
type Options struct {
	// ConfigPath is the TOML or YAML configuration file. Empty uses the
	// built-in defaults.
	ConfigPath string

	// Watch reloads the configuration when ConfigPath changes.
	Watch bool

	// LogLevel overrides log.level when set.
	LogLevel string

	// File holds the initial text. A missing file starts empty.
	File string

	// Replay is a file of operations, a JSON array or a journal, applied
	// to the document before editing starts.
	Replay string

	// Screen is the terminal screen. Nil opens the controlling terminal.
	Screen tcell.Screen

	// LogOutput receives log lines when log.file is not set. Nil
	// buffers them until Shutdown and then writes them to stderr.
	LogOutput io.Writer
}

// Application owns every component of one editing session.
type Application struct {
	opts Options

	log         *logging.Logger
	logFile     *os.File
	logBuf      *bytes.Buffer
	journalFile *os.File

	config     *config.Config
	watcher    *config.Watcher
	doc        *odt.Document
	session    *session.LocalSession
	term       *terminal.Terminal
	controller *controller.SessionController
	undo       *undo.TrivialManager
	scripts    *script.Host

	bootstrap *bootstrapper

	mu       sync.Mutex
	running  bool
	shutdown bool
}

// New creates an Application and initializes all components. On failure
// the components already started are closed again.
func New(opts Options) (*Application, error) {
	a := &Application{opts: opts, log: logging.Null}
	a.bootstrap = newBootstrapper(a, opts)
	if err := a.bootstrap.bootstrap(); err != nil {
		a.flushLog()
		return nil, err
	}
	return a, nil
}

// Config returns the configuration in effect.
func (a *Application) Config() *config.Config { return a.config }

// Document returns the edited document.
func (a *Application) Document() *odt.Document { return a.doc }

// Controller returns the session controller.
func (a *Application) Controller() *controller.SessionController { return a.controller }

// Terminal returns the terminal host.
func (a *Application) Terminal() *terminal.Terminal { return a.term }

// Scripts returns the script host.
func (a *Application) Scripts() *script.Host { return a.scripts }

// Run starts editing and handles terminal events until the quit key is
// pressed or ctx is cancelled. Cancellation is a normal exit.
func (a *Application) Run(ctx context.Context) error {
	a.mu.Lock()
	switch {
	case a.shutdown:
		a.mu.Unlock()
		return ErrShutdown
	case a.running:
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	if a.watcher != nil {
		if err := a.watcher.Start(); err != nil {
			a.log.Warn("watching configuration: %v", err)
		}
	}

	a.controller.StartEditing()
	defer a.controller.EndEditing()
	a.term.Focus()
	a.term.SetStatus(a.statusLine())
	a.log.Info("editing as %s", a.controller.MemberID())

	err := a.term.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *Application) statusLine() string {
	name := "untitled"
	if a.opts.File != "" {
		name = a.opts.File
	}
	return name + "  " + a.term.QuitKey() + " quits"
}

// Shutdown releases every component in reverse start order. It is safe
// to call more than once.
func (a *Application) Shutdown() {
	a.mu.Lock()
	if a.shutdown {
		a.mu.Unlock()
		return
	}
	a.shutdown = true
	a.mu.Unlock()

	a.log.Info("shutting down")
	a.bootstrap.cleanup()
	a.flushLog()
}

// applyConfig applies a reloaded configuration. It runs on the terminal
// event loop.
func (a *Application) applyConfig(cfg *config.Config) {
	if a.opts.LogLevel == "" {
		a.log.SetLevel(cfg.LogLevel())
	}
	if err := a.controller.ApplyBindings(cfg.Keymap.KeymapBindings()); err != nil {
		a.log.Warn("applying bindings: %v", err)
		a.term.SetStatus("config: " + err.Error())
		return
	}
	if cfg.Editor.Platform != a.config.Editor.Platform {
		a.log.Info("platform change to %q applies after restart", cfg.Editor.Platform)
	}
	a.config = cfg
	a.term.SetStatus("configuration reloaded")
}

func (a *Application) flushLog() {
	if a.logBuf == nil {
		return
	}
	_, _ = a.logBuf.WriteTo(os.Stderr)
}
