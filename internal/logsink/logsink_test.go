package logsink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)
}

func TestAppendFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.log")
	s := &Sink{path: path, now: fixedClock}

	if err := s.Append("hello"); err != nil {
		t.Fatalf("Append() err=%v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	want := "[2026-03-14 09:26:53] hello\n"
	if string(raw) != want {
		t.Fatalf("got %q, want %q", raw, want)
	}
}

func TestAppendPreservesPriorEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.log")
	s := &Sink{path: path, now: fixedClock}

	messages := []string{"first", "second", "third", "fourth"}
	for _, msg := range messages {
		if err := s.Append(msg); err != nil {
			t.Fatalf("Append(%q) err=%v", msg, err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != len(messages) {
		t.Fatalf("expected %d lines, got %d", len(messages), len(lines))
	}
	for i, msg := range messages {
		if !strings.HasSuffix(lines[i], "] "+msg) {
			t.Errorf("line %d = %q, want suffix %q", i, lines[i], msg)
		}
	}
}

func TestAppendMultilineMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.log")
	s := &Sink{path: path, now: fixedClock}

	if err := s.Append("connected\n  detail line"); err != nil {
		t.Fatalf("Append() err=%v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	want := "[2026-03-14 09:26:53] connected\n  detail line\n"
	if string(raw) != want {
		t.Fatalf("got %q, want %q", raw, want)
	}
}

func TestAppendErrorWhenPathUnwritable(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing", "monitor.log"))
	if err := s.Append("x"); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
