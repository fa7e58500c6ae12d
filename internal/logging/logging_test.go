package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf})

	l.Info("hidden")
	l.Warn("shown %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 1") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestLoggerFieldsSortedAndShared(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf, Prefix: "p"})
	child := l.WithComponent("controller").WithField("member", "m1")

	child.Debug("hello")

	out := buf.String()
	if !strings.Contains(out, "p: hello {component=controller, member=m1}") {
		t.Errorf("unexpected line %q", out)
	}

	l.SetLevel(LevelError)
	buf.Reset()
	l.Warn("dropped")
	child.Warn("dropped too")
	if buf.Len() != 0 {
		t.Errorf("expected nothing written, got %q", buf.String())
	}
	if child.Level() != LevelError {
		t.Errorf("child level = %v, want error", child.Level())
	}
}

func TestNullLoggerDiscards(t *testing.T) {
	Null.Error("nothing %s", "here")
	Null.WithField("a", 1).Error("still nothing")
}
