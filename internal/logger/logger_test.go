package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "debug", "prod", "off", ""} {
		t.Run(mode, func(t *testing.T) {
			l, err := New(mode)
			if err != nil {
				t.Fatalf("New(%q): %v", mode, err)
			}
			if l == nil || l.SugaredLogger == nil {
				t.Fatalf("New(%q) returned nil logger", mode)
			}
			l.With("profile", "main").Debug("loaded", "n", 1)
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.log")
	l, err := New("dev", path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("hidden at info level")
	l.Info("habit completed", "habit", 1)
	l.Warn("boss index out of range", "index", 9)
	l.Error("board exited", "err", "boom")
	l.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	for _, want := range []string{"habit completed", "boss index out of range", "board exited"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log file missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden at info level") {
		t.Fatalf("dev mode wrote a debug line:\n%s", out)
	}
}
