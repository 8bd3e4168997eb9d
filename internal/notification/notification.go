package notification

import "time"

// Severity classifies a notification and drives the forwarding decision:
// Warnings are relayed to the webhook, Info stays local.
type Severity string

const (
	SeverityWarning Severity = "Warning"
	SeverityInfo    Severity = "Info"
)

// ForwardState is the forwarding outcome of a stored notification. A record
// is Unresolved from the moment it is stored until the pipeline annotates
// it; once decided it never reverts.
type ForwardState int

const (
	StateUnresolved ForwardState = iota
	StateForwarded
	StateNotForwarded
)

// Notification is one ingested record. Severity, Name and Description are
// immutable after validation. ReceivedAt is set exactly once by the store,
// Forward exactly once by the pipeline.
type Notification struct {
	ID          string
	Severity    Severity
	Name        string
	Description string
	ReceivedAt  time.Time
	Forward     ForwardState
}

// Equal reports whether two notifications carry the same severity, name and
// description. Timestamps and forwarding outcomes do not participate.
func (n Notification) Equal(o Notification) bool {
	return n.Severity == o.Severity &&
		n.Name == o.Name &&
		n.Description == o.Description
}
