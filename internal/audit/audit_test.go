package audit

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/notifyhub/notifyhub/internal/notification"
)

func tempLog(t *testing.T) *Log {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "warning.log"))
}

func record(name, desc string, at time.Time) notification.Notification {
	return notification.Notification{
		Severity:    notification.SeverityWarning,
		Name:        name,
		Description: desc,
		ReceivedAt:  at,
	}
}

func readLines(t *testing.T, l *Log) []string {
	t.Helper()
	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestRecord_Format(t *testing.T) {
	l := tempLog(t)
	at := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
	l.Record(record("DB Error", "timeout", at))

	lines := readLines(t, l)
	if len(lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(lines))
	}
	want := "2025-06-01 12:30:45 | DB Error | timeout"
	if lines[0] != want {
		t.Errorf("line: got %q, want %q", lines[0], want)
	}
}

func TestRecord_Appends(t *testing.T) {
	l := tempLog(t)
	at := time.Now().UTC()
	l.Record(record("first", "d1", at))
	l.Record(record("second", "d2", at))

	lines := readLines(t, l)
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "first") || !strings.Contains(lines[1], "second") {
		t.Errorf("order: got %v, want first then second", lines)
	}
}

func TestRecord_ConcurrentWriters(t *testing.T) {
	l := tempLog(t)
	at := time.Now().UTC()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Record(record("name", "description", at))
		}()
	}
	wg.Wait()

	lines := readLines(t, l)
	if len(lines) != 50 {
		t.Fatalf("lines: got %d, want 50", len(lines))
	}
	// No interleaved partial lines: each line has exactly three fields.
	for i, line := range lines {
		if got := len(strings.Split(line, " | ")); got != 3 {
			t.Errorf("line %d: got %d fields (%q), want 3", i, got, line)
		}
	}
}

func TestRecord_WriteFailureIsContained(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "missing-dir", "warning.log"))
	// Must not panic or surface the failure.
	l.Record(record("w", "d", time.Now().UTC()))

	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Errorf("audit file: got err %v, want not-exist", err)
	}
}
