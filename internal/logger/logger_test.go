package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"dbg", slog.LevelDebug, true},
		{"DEBUG", slog.LevelDebug, true},
		{"inf", slog.LevelInfo, true},
		{"wrn", slog.LevelWarn, true},
		{"err", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q): Expected (%v, %v), got (%v, %v)", tt.in, tt.want, tt.ok, got, ok)
		}
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "wrn")
	l.Info("hidden")
	l.Warn("shown", "col", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info records to be dropped, got %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "col=1") {
		t.Errorf("Expected the warning with its attributes, got %q", out)
	}
}

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "nested", "wordseg.log")
	f, err := InitLogger(path, "debug")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	slog.Debug("Pain point popped", "row", 2)
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "row=2") {
		t.Errorf("Expected the record in the log file, got %q", data)
	}
}
