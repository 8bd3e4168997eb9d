package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/notifyhub/notifyhub/internal/audit"
	"github.com/notifyhub/notifyhub/internal/forward"
	"github.com/notifyhub/notifyhub/internal/metrics"
	"github.com/notifyhub/notifyhub/internal/notification"
	"github.com/notifyhub/notifyhub/internal/store"
)

// Outcome tags the forwarding result of one ingested notification.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeFailed      Outcome = "failed"
	OutcomeSkippedInfo Outcome = "skipped_info_type"
	OutcomeNoForwarder Outcome = "no_forwarder_configured"
)

// Result is what a successful ingestion returns: the stored notification
// with its resolved forwarding outcome.
type Result struct {
	Notification notification.Notification
	Forwarded    bool
	Status       Outcome
}

// Pipeline runs each incoming notification through
// validate → store → decide → forward-or-fallback → annotate.
type Pipeline struct {
	store     *store.Store
	forwarder *forward.TeamsForwarder // nil when no webhook is configured
	audit     *audit.Log
}

// New creates a Pipeline. fw may be nil; the pipeline then records every
// qualifying Warning in the audit log instead of forwarding.
func New(st *store.Store, fw *forward.TeamsForwarder, al *audit.Log) *Pipeline {
	return &Pipeline{store: st, forwarder: fw, audit: al}
}

// Ingest validates raw and, on success, stores the notification and
// resolves its forwarding outcome. Only validation failures come back as
// errors — nothing is stored in that case. A failed webhook delivery is a
// normal result with Status OutcomeFailed.
func (p *Pipeline) Ingest(ctx context.Context, raw map[string]any) (Result, error) {
	n, err := notification.FromPayload(raw)
	if err != nil {
		metrics.ValidationFailures.Inc()
		return Result{}, err
	}

	stored := p.store.Add(n)
	metrics.NotificationsReceived.WithLabelValues(string(n.Severity)).Inc()

	res := p.resolve(ctx, stored)
	metrics.ForwardOutcomes.WithLabelValues(string(res.Status)).Inc()
	return res, nil
}

// resolve decides and annotates the forwarding outcome for one stored
// notification, exactly once. The webhook call runs without any store lock;
// the annotation afterwards is its own short critical section.
func (p *Pipeline) resolve(ctx context.Context, stored *store.Stored) Result {
	n := stored.Snapshot()

	shouldForward := p.forwarder != nil && p.forwarder.ShouldForward(n)
	if !shouldForward {
		stored.Resolve(notification.StateNotForwarded)

		// The severity rule wins over availability: an Info is skipped by
		// policy whether or not a webhook is configured. Only a Warning
		// with nowhere to go is the degraded case, and it must not vanish
		// silently.
		if n.Severity != notification.SeverityWarning {
			return Result{Notification: stored.Snapshot(), Forwarded: false, Status: OutcomeSkippedInfo}
		}

		p.audit.Record(n)
		slog.Warn("pipeline: warning not forwarded, no webhook configured",
			"name", n.Name,
			"audit_log", p.audit.Path(),
		)
		return Result{Notification: stored.Snapshot(), Forwarded: false, Status: OutcomeNoForwarder}
	}

	start := time.Now()
	ok := p.forwarder.Forward(ctx, n)
	metrics.ForwardDuration.Observe(float64(time.Since(start).Milliseconds()))

	if ok {
		stored.Resolve(notification.StateForwarded)
		return Result{Notification: stored.Snapshot(), Forwarded: true, Status: OutcomeSuccess}
	}
	stored.Resolve(notification.StateNotForwarded)
	return Result{Notification: stored.Snapshot(), Forwarded: false, Status: OutcomeFailed}
}
