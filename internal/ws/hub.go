package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/notifyhub/notifyhub/internal/api"
	"github.com/notifyhub/notifyhub/internal/store"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong before treating the
	// connection as dead. Pings go out at 90% of this.
	pongWait = 60 * time.Second

	// outBufSize is the per-client outgoing message buffer depth. A client
	// that falls this far behind is dropped.
	outBufSize = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 2048,
	// Origin checks belong at the reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients: current counts plus the
// most recent notifications.
type Message struct {
	Event string             `json:"event"`
	Data  api.StreamResponse `json:"data"`
}

// Hub pushes notification stats to all connected WebSocket clients every
// interval.
type Hub struct {
	store    *store.Store
	interval time.Duration

	mu    sync.Mutex
	conns map[*conn]struct{}
}

// conn is one connected client with its buffered outgoing queue.
type conn struct {
	ws  *websocket.Conn
	out chan []byte
}

// New creates a Hub that reads from st and broadcasts every interval.
func New(st *store.Store, interval time.Duration) *Hub {
	return &Hub{
		store:    st,
		interval: interval,
		conns:    make(map[*conn]struct{}),
	}
}

// Run drives the broadcast loop. It blocks until ctx is cancelled, then
// disconnects every remaining client.
func (h *Hub) Run(ctx context.Context) {
	tick := time.NewTicker(h.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.conns {
				close(c.out)
				delete(h.conns, c)
			}
			h.mu.Unlock()
			return

		case <-tick.C:
			data, err := h.payload()
			if err != nil {
				continue
			}
			for _, c := range h.snapshot() {
				if !c.enqueue(data) {
					h.remove(c)
				}
			}
		}
	}
}

// ServeHTTP upgrades the request to a WebSocket session and serves it until
// the peer disconnects. The current stats go out immediately on connect so
// the client does not wait a full interval for its first message.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &conn{ws: ws, out: make(chan []byte, outBufSize)}
	if data, err := h.payload(); err == nil {
		c.enqueue(data)
	}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	defer h.remove(c)

	go c.writeLoop()

	// Read loop: consumes pongs and close frames, detects disconnects.
	defer ws.Close()
	ws.SetReadLimit(512)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// payload renders the current broadcast message.
func (h *Hub) payload() ([]byte, error) {
	return json.Marshal(Message{Event: "stats", Data: api.BuildStream(h.store)})
}

// snapshot copies the connection set so broadcasting never holds the lock
// across channel sends.
func (h *Hub) snapshot() []*conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*conn, 0, len(h.conns))
	for c := range h.conns {
		out = append(out, c)
	}
	return out
}

// remove detaches c from the hub and closes its queue. Safe to call from
// both the broadcast loop and the per-connection handler.
func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.out)
	}
}

// enqueue offers data to the client without blocking. False means the
// client is too far behind to keep.
func (c *conn) enqueue(data []byte) bool {
	select {
	case c.out <- data:
		return true
	default:
		return false
	}
}

// writeLoop drains the outgoing queue onto the socket and keeps the
// connection alive with pings. Exits when the queue closes or a write
// fails.
func (c *conn) writeLoop() {
	ping := time.NewTicker(pongWait * 9 / 10)
	defer func() {
		ping.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case data, ok := <-c.out:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Queue closed: hub shutdown or client dropped.
				c.ws.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ping.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
