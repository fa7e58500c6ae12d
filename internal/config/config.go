package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/docedit/internal/input/key"
	"github.com/dshills/docedit/internal/input/keymap"
	"github.com/dshills/docedit/internal/logging"
)

// Config is the complete editor configuration.
type Config struct {
	Editor EditorConfig `toml:"editor" yaml:"editor"`
	Keymap KeymapConfig `toml:"keymap" yaml:"keymap"`
	Undo   UndoConfig   `toml:"undo" yaml:"undo"`
	Log    LogConfig    `toml:"log" yaml:"log"`

	// Scripts are Lua files run at startup. Relative paths are resolved
	// against the config file's directory.
	Scripts []string `toml:"scripts" yaml:"scripts"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-" yaml:"-"`
}

// EditorConfig holds the editing session settings.
type EditorConfig struct {
	// Platform selects the default key bindings: "mac", "other" or "auto".
	Platform string `toml:"platform" yaml:"platform"`

	// LoopGuard bounds tree walks; 0 keeps the document default.
	LoopGuard int `toml:"loop_guard" yaml:"loop_guard"`

	// Member is the member id to edit as; empty generates one.
	Member string `toml:"member" yaml:"member"`

	// Journal receives every applied operation as a JSON line. Relative
	// paths are resolved against the config file's directory.
	Journal string `toml:"journal" yaml:"journal"`
}

// BindingConfig binds a key combination to an intent.
type BindingConfig struct {
	Keys        string `toml:"keys" yaml:"keys"`
	Intent      string `toml:"intent" yaml:"intent"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty"`
}

// KeymapConfig holds binding overrides.
type KeymapConfig struct {
	Bindings []BindingConfig `toml:"bindings" yaml:"bindings"`
}

// UndoConfig holds undo history settings.
type UndoConfig struct {
	// MaxStates bounds the undo history; 0 keeps the manager default.
	MaxStates int `toml:"max_states" yaml:"max_states"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`

	// File receives log output; empty means stderr.
	File string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{Platform: "auto"},
		Log:    LogConfig{Level: "info"},
	}
}

// KeymapBindings converts the configured overrides into keymap bindings.
func (k KeymapConfig) KeymapBindings() []keymap.Binding {
	if len(k.Bindings) == 0 {
		return nil
	}
	out := make([]keymap.Binding, len(k.Bindings))
	for i, b := range k.Bindings {
		out[i] = keymap.Binding{Keys: b.Keys, Action: b.Intent, Description: b.Description}
	}
	return out
}

// Platform resolves editor.platform.
func (c *Config) Platform() (keymap.Platform, error) {
	return keymap.ParsePlatform(c.Editor.Platform)
}

// LogLevel resolves log.level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// JournalPath returns editor.journal resolved against the config file's
// directory, or empty when journaling is off.
func (c *Config) JournalPath() string {
	p := c.Editor.Journal
	if p == "" || filepath.IsAbs(p) || c.Path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.Path), p)
}

// ScriptPaths returns the script paths with relative ones resolved
// against the config file's directory.
func (c *Config) ScriptPaths() []string {
	base := ""
	if c.Path != "" {
		base = filepath.Dir(c.Path)
	}
	out := make([]string, len(c.Scripts))
	for i, p := range c.Scripts {
		if base != "" && !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		out[i] = p
	}
	return out
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate checks every setting and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if _, err := c.Platform(); err != nil {
		invalid("editor.platform", "must be mac, other or auto", c.Editor.Platform)
	}
	if c.Editor.LoopGuard < 0 {
		invalid("editor.loop_guard", "must not be negative", c.Editor.LoopGuard)
	}
	if c.Undo.MaxStates < 0 {
		invalid("undo.max_states", "must not be negative", c.Undo.MaxStates)
	}
	if !logLevels[strings.ToLower(c.Log.Level)] {
		invalid("log.level", "must be debug, info, warn or error", c.Log.Level)
	}
	for i, b := range c.Keymap.Bindings {
		path := fmt.Sprintf("keymap.bindings[%d]", i)
		if _, err := key.ParseCombo(b.Keys); err != nil {
			invalid(path+".keys", err.Error(), b.Keys)
		}
		if b.Intent == "" {
			invalid(path+".intent", "must not be empty", b.Intent)
		}
	}
	for i, p := range c.Scripts {
		if strings.TrimSpace(p) == "" {
			invalid(fmt.Sprintf("scripts[%d]", i), "must not be empty", p)
		}
	}
	return errors.Join(errs...)
}

// Format is a configuration file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads the configuration at path over the defaults, applies
// environment overrides and validates the result. A missing file yields
// the defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			format, err := FormatFromPath(path)
			if err != nil {
				return nil, err
			}
			if err := Decode(format, path, data, cfg); err != nil {
				return nil, err
			}
			cfg.Path = path
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses data in format into cfg. Keys absent from data keep
// their current values; unknown keys are an error. source names data in
// errors.
func Decode(format Format, source string, data []byte, cfg *Config) error {
	switch format {
	case FormatTOML:
		return decodeTOML(source, data, cfg)
	case FormatYAML:
		return decodeYAML(source, data, cfg)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

func decodeTOML(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var strict *toml.StrictMissingError
	var decodeErr *toml.DecodeError
	switch {
	case errors.As(err, &strict) && len(strict.Errors) > 0:
		pe.Line, pe.Column = strict.Errors[0].Position()
		pe.Message = "unknown key " + strings.Join(strict.Errors[0].Key(), ".")
	case errors.As(err, &decodeErr):
		pe.Line, pe.Column = decodeErr.Position()
	}
	return pe
}

func decodeYAML(source string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &ParseError{Path: source, Line: yamlLine(err.Error()), Message: err.Error(), Err: err}
}

// yamlLine extracts the first "line N" from a yaml.v3 error message.
func yamlLine(msg string) int {
	i := strings.Index(msg, "line ")
	if i < 0 {
		return 0
	}
	var line int
	if _, err := fmt.Sscanf(msg[i:], "line %d", &line); err != nil {
		return 0
	}
	return line
}

// envOverrides maps environment variables to the settings they set.
var envOverrides = map[string]func(c *Config, value string){
	"DOCEDIT_PLATFORM":  func(c *Config, v string) { c.Editor.Platform = v },
	"DOCEDIT_LOG_LEVEL": func(c *Config, v string) { c.Log.Level = v },
	"DOCEDIT_MEMBER":    func(c *Config, v string) { c.Editor.Member = v },
}

// ApplyEnv applies the DOCEDIT_* overrides found through lookup.
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for name, set := range envOverrides {
		if v, ok := lookup(name); ok && v != "" {
			set(c, v)
		}
	}
}
