package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notifyhub/notifyhub/internal/metrics"
	"github.com/notifyhub/notifyhub/internal/notification"
)

// Store is a thread-safe, insertion-ordered, in-memory notification store.
// It owns its records exclusively: every read returns value copies, and the
// only post-insert mutation is the one-shot forwarding annotation through
// the Stored handle returned by Add.
type Store struct {
	mu            sync.RWMutex
	notifications []*notification.Notification
	now           func() time.Time // injectable for deterministic tests
}

// Stored is a handle to one stored notification. The pipeline uses it to
// annotate the forwarding outcome after delivery completes.
type Stored struct {
	store *Store
	n     *notification.Notification
}

// New creates an empty Store.
func New() *Store {
	return &Store{now: time.Now}
}

// Add copies n into the store, assigning a fresh ID and the UTC arrival
// timestamp. Assignment and append happen under one lock, so concurrent
// adds cannot interleave and no reader observes a half-initialized record.
func (s *Store) Add(n notification.Notification) *Stored {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := n
	rec.ID = uuid.New().String()
	rec.ReceivedAt = s.now().UTC()
	rec.Forward = notification.StateUnresolved
	s.notifications = append(s.notifications, &rec)
	metrics.StoreSize.Set(float64(len(s.notifications)))
	return &Stored{store: s, n: &rec}
}

// Resolve sets the forwarding outcome exactly once. Calls after the first
// are no-ops: a decided notification never changes state again.
func (st *Stored) Resolve(state notification.ForwardState) {
	st.store.mu.Lock()
	defer st.store.mu.Unlock()
	if st.n.Forward != notification.StateUnresolved {
		return
	}
	st.n.Forward = state
}

// Snapshot returns a copy of the stored record as of now.
func (st *Stored) Snapshot() notification.Notification {
	st.store.mu.RLock()
	defer st.store.mu.RUnlock()
	return *st.n
}

// All returns copies of every stored notification in insertion order,
// regardless of forwarding state.
func (s *Store) All() []notification.Notification {
	return s.filter(func(notification.Notification) bool { return true })
}

// Forwarded returns only notifications that were delivered to the webhook.
func (s *Store) Forwarded() []notification.Notification {
	return s.filter(func(n notification.Notification) bool {
		return n.Forward == notification.StateForwarded
	})
}

// Ignored returns only notifications explicitly marked not forwarded.
// Records whose outcome is still unresolved appear in neither Forwarded nor
// Ignored.
func (s *Store) Ignored() []notification.Notification {
	return s.filter(func(n notification.Notification) bool {
		return n.Forward == notification.StateNotForwarded
	})
}

// filter copies matching records under the read lock, preserving order.
func (s *Store) filter(keep func(notification.Notification) bool) []notification.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]notification.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if keep(*n) {
			out = append(out, *n)
		}
	}
	return out
}

// Count returns the total number of stored notifications, including those
// whose forwarding outcome is still unresolved.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notifications)
}

// Clear removes every stored notification. Clearing an empty store is a
// no-op; readers see either the pre-clear or post-clear state, never a mix.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
	metrics.StoreSize.Set(0)
}
