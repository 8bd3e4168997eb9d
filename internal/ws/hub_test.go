package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/notifyhub/notifyhub/internal/notification"
	"github.com/notifyhub/notifyhub/internal/store"
	wsHub "github.com/notifyhub/notifyhub/internal/ws"
)

const testInterval = 20 * time.Millisecond

// --- helpers ----------------------------------------------------------------

func seededStore() *store.Store {
	st := store.New()
	st.Add(notification.Notification{
		Severity:    notification.SeverityWarning,
		Name:        "DB Error",
		Description: "timeout",
	}).Resolve(notification.StateForwarded)
	st.Add(notification.Notification{
		Severity:    notification.SeverityInfo,
		Name:        "Deploy OK",
		Description: "v2 live",
	}).Resolve(notification.StateNotForwarded)
	return st
}

// startHub starts a test HTTP server with the hub as its handler and runs
// the broadcast loop under a cancellable context.
func startHub(t *testing.T, st *store.Store) (wsURL string, hub *wsHub.Hub) {
	t.Helper()

	hub = wsHub.New(st, testInterval)
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	var msg wsHub.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal message: %v (raw: %s)", err, data)
	}
	return msg
}

// --- tests ------------------------------------------------------------------

func TestConnect_ReceivesStats(t *testing.T) {
	wsURL, _ := startHub(t, seededStore())
	conn := dial(t, wsURL)

	msg := readMessage(t, conn)

	if msg.Event != "stats" {
		t.Errorf("event: got %q, want stats", msg.Event)
	}
	if msg.Data.Stats.Total != 2 || msg.Data.Stats.Forwarded != 1 || msg.Data.Stats.Ignored != 1 {
		t.Errorf("stats: got %+v, want total=2 forwarded=1 ignored=1", msg.Data.Stats)
	}
	if len(msg.Data.Recent) != 2 {
		t.Errorf("recent: got %d records, want 2", len(msg.Data.Recent))
	}
}

func TestBroadcast_TracksStoreChanges(t *testing.T) {
	st := seededStore()
	wsURL, _ := startHub(t, st)
	conn := dial(t, wsURL)

	readMessage(t, conn) // initial snapshot

	st.Add(notification.Notification{
		Severity:    notification.SeverityWarning,
		Name:        "Disk Full",
		Description: "no space",
	})

	// A later tick reflects the new record.
	deadline := time.Now().Add(2 * time.Second)
	for {
		msg := readMessage(t, conn)
		if msg.Data.Stats.Total == 3 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("stats never reached total=3, last: %+v", msg.Data.Stats)
		}
	}
}

func TestCount(t *testing.T) {
	wsURL, hub := startHub(t, store.New())

	if got := hub.Count(); got != 0 {
		t.Errorf("Count before connect: got %d, want 0", got)
	}

	dial(t, wsURL)

	// Registration happens in the server goroutine; poll briefly.
	deadline := time.Now().Add(time.Second)
	for hub.Count() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("Count after connect: got %d, want 1", hub.Count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
