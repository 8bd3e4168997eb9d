package audit

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/notifyhub/notifyhub/internal/metrics"
	"github.com/notifyhub/notifyhub/internal/notification"
)

// Log is an append-only file capturing Warning notifications that could not
// be relayed because no webhook is configured. Writes are serialized so
// concurrent entries never interleave within a line. Every failure is
// contained: a lost audit line must not fail the ingestion that produced it.
type Log struct {
	mu   sync.Mutex
	path string
}

// New creates a Log that appends to the file at path. The file is created
// on first write.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the audit log file location.
func (l *Log) Path() string { return l.path }

// Record appends one line for n:
//
//	2006-01-02 15:04:05 | name | description
func (l *Log) Record(n notification.Notification) {
	line := fmt.Sprintf("%s | %s | %s\n",
		n.ReceivedAt.UTC().Format("2006-01-02 15:04:05"),
		n.Name,
		n.Description,
	)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("audit: open log", "path", l.path, "err", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		slog.Error("audit: write entry", "path", l.path, "err", err)
		return
	}
	metrics.AuditWrites.Inc()
}
