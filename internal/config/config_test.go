package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/docedit/internal/input/keymap"
	"github.com/dshills/docedit/internal/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.LogLevel() != logging.LevelInfo {
		t.Errorf("LogLevel() = %v, want INFO", cfg.LogLevel())
	}
	if p, err := cfg.Platform(); err != nil || p != keymap.DetectPlatform() {
		t.Errorf("Platform() = %q, %v", p, err)
	}
}

const tomlConfig = `
scripts = ["wrap.lua"]

[editor]
platform = "mac"
loop_guard = 5000

[undo]
max_states = 50

[log]
level = "debug"

[[keymap.bindings]]
keys = "Ctrl+J"
intent = "edit.splitParagraph"
`

const yamlConfig = `
scripts:
  - wrap.lua
editor:
  platform: mac
  loop_guard: 5000
undo:
  max_states: 50
log:
  level: debug
keymap:
  bindings:
    - keys: Ctrl+J
      intent: edit.splitParagraph
`

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "docedit.toml", tomlConfig},
		{"yaml", "docedit.yaml", yamlConfig},
		{"yml", "docedit.yml", yamlConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() = %v", err)
			}
			if cfg.Editor.Platform != "mac" || cfg.Editor.LoopGuard != 5000 {
				t.Errorf("editor = %+v", cfg.Editor)
			}
			if cfg.Undo.MaxStates != 50 || cfg.LogLevel() != logging.LevelDebug {
				t.Errorf("undo = %+v, log = %+v", cfg.Undo, cfg.Log)
			}
			bindings := cfg.Keymap.KeymapBindings()
			if len(bindings) != 1 || bindings[0].Keys != "Ctrl+J" || bindings[0].Action != keymap.ActionSplitParagraph {
				t.Errorf("bindings = %+v", bindings)
			}
			scripts := cfg.ScriptPaths()
			if len(scripts) != 1 || scripts[0] != filepath.Join(filepath.Dir(path), "wrap.lua") {
				t.Errorf("ScriptPaths() = %v", scripts)
			}
			if cfg.Path != path {
				t.Errorf("Path = %q, want %q", cfg.Path, path)
			}
		})
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeFile(t, "docedit.toml", "[undo]\nmax_states = 3\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.Platform != "auto" || cfg.Log.Level != "info" || cfg.Undo.MaxStates != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Path != "" || cfg.Editor.Platform != "auto" {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantLine int
	}{
		{"toml syntax", "bad.toml", "[editor\nplatform = 1\n", 0},
		{"toml unknown key", "bad.toml", "[editor]\nplatform = \"mac\"\ncolour = \"red\"\n", 3},
		{"yaml unknown key", "bad.yaml", "editor:\n  platform: mac\n  colour: red\n", 3},
		{"yaml type", "bad.yaml", "undo:\n  max_states: lots\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Load() = %v, want *ParseError", err)
			}
			if (tt.wantLine == 0 && pe.Line <= 0) || (tt.wantLine > 0 && pe.Line != tt.wantLine) {
				t.Errorf("Line = %d, want %d (%v)", pe.Line, tt.wantLine, pe)
			}
			if pe.Unwrap() == nil {
				t.Error("ParseError does not wrap the decoder error")
			}
		})
	}

	if _, err := Load(writeFile(t, "docedit.json", "{}")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load(json) = %v, want ErrUnknownFormat", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Editor.Platform = "amiga"
	cfg.Editor.LoopGuard = -1
	cfg.Undo.MaxStates = -2
	cfg.Log.Level = "loud"
	cfg.Keymap.Bindings = []BindingConfig{{Keys: "Hyper+Q", Intent: ""}}
	cfg.Scripts = []string{" "}

	err := cfg.Validate()
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Validate() = %v, want ErrValidationFailed", err)
	}
	want := []string{
		"editor.platform", "editor.loop_guard", "undo.max_states", "log.level",
		"keymap.bindings[0].keys", "keymap.bindings[0].intent", "scripts[0]",
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("Validate() = %T, want a joined error", err)
	}
	errs := joined.Unwrap()
	if len(errs) != len(want) {
		t.Fatalf("got %d problems, want %d: %v", len(errs), len(want), err)
	}
	for i, e := range errs {
		var ve *ValidationError
		if !errors.As(e, &ve) || ve.Path != want[i] {
			t.Errorf("problem %d = %v, want path %s", i, e, want[i])
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DOCEDIT_PLATFORM":  "other",
		"DOCEDIT_LOG_LEVEL": "error",
		"DOCEDIT_MEMBER":    "",
	}
	cfg := Default()
	cfg.Editor.Member = "alice"
	cfg.ApplyEnv(func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	})
	if cfg.Editor.Platform != "other" || cfg.Log.Level != "error" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Editor.Member != "alice" {
		t.Errorf("empty override replaced member: %q", cfg.Editor.Member)
	}
}

func TestLoadAppliesEnv(t *testing.T) {
	t.Setenv("DOCEDIT_LOG_LEVEL", "warn")
	path := writeFile(t, "docedit.toml", "[log]\nlevel = \"debug\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel() != logging.LevelWarn {
		t.Errorf("LogLevel() = %v, want WARN", cfg.LogLevel())
	}

	t.Setenv("DOCEDIT_PLATFORM", "beos")
	if _, err := Load(path); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Load() with a bad override = %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"a.toml", FormatTOML, true},
		{"a.TOML", FormatTOML, true},
		{"dir/a.yaml", FormatYAML, true},
		{"a.yml", FormatYAML, true},
		{"a.ini", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if got != tt.want || (err == nil) != tt.ok {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestJournalPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		journal string
		want    string
	}{
		{"off", "/etc/docedit/docedit.toml", "", ""},
		{"relative", "/etc/docedit/docedit.toml", "ops.jsonl", "/etc/docedit/ops.jsonl"},
		{"absolute", "/etc/docedit/docedit.toml", "/var/log/ops.jsonl", "/var/log/ops.jsonl"},
		{"no config file", "", "ops.jsonl", "ops.jsonl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Path = tt.path
			cfg.Editor.Journal = tt.journal
			if got := cfg.JournalPath(); got != filepath.FromSlash(tt.want) {
				t.Errorf("JournalPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
