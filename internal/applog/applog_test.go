package applog

import (
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
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFileLogger_FatalRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "appshell.log")
	l, err := NewFileLogger(FileConfig{FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	defer l.Close()

	l.Fatal("[err-main]", "boom", `"goroutine 1 [running]:\n"`)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "[err-main] boom stack=\"goroutine 1") {
		t.Fatalf("unexpected record: %q", line)
	}
}

func TestFileLogger_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appshell.log")
	l, err := NewFileLogger(FileConfig{FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	defer l.Close()

	chunk := []byte(strings.Repeat("x", 1024*1024))
	if _, err := l.Write(chunk); err != nil {
		t.Fatalf("write 1: %v", err)
	}
	if _, err := l.Write([]byte("after rotation\n")); err != nil {
		t.Fatalf("write 2: %v", err)
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "after rotation\n" {
		t.Fatalf("current file = %q", data)
	}
}

func TestFileLogger_WriteAfterClose(t *testing.T) {
	l, err := NewFileLogger(FileConfig{FilePath: filepath.Join(t.TempDir(), "a.log")})
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := l.Write([]byte("x")); err == nil {
		t.Fatal("expected error writing to closed logger")
	}
}
