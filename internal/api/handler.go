package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/notifyhub/notifyhub/internal/notification"
	"github.com/notifyhub/notifyhub/internal/pipeline"
	"github.com/notifyhub/notifyhub/internal/store"
)

const (
	serviceName    = "notifyhub"
	serviceVersion = "1.0.0"
)

// recentStreamLen caps how many notifications the WebSocket stream carries.
const recentStreamLen = 10

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	store *store.Store
	pipe  *pipeline.Pipeline
	mux   *http.ServeMux
}

// New creates a Handler wired to the given store and pipeline and registers
// all routes.
func New(st *store.Store, pipe *pipeline.Pipeline) http.Handler {
	h := &Handler{store: st, pipe: pipe, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/notifications", h.notifications)
	h.mux.HandleFunc("/api/v1/stats", h.stats)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// notifications dispatches /api/v1/notifications by method:
// POST ingests, GET lists, DELETE clears.
func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// create handles POST /api/v1/notifications — runs the ingestion pipeline.
// Validation failures are the only client faults; a failed webhook delivery
// still returns 201 with forwarding.status "failed".
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.pipe.Ingest(r.Context(), raw)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	jsonResp(w, http.StatusCreated, CreateResponse{
		Status:       "created",
		Notification: toNotificationResponse(res.Notification),
		Forwarding: ForwardingResponse{
			Forwarded: res.Forwarded,
			Status:    string(res.Status),
		},
	})
}

// list handles GET /api/v1/notifications with an optional
// ?filter=forwarded|ignored query parameter.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")

	var records []notification.Notification
	switch filter {
	case "":
		records = h.store.All()
		filter = "all"
	case "forwarded":
		records = h.store.Forwarded()
	case "ignored":
		records = h.store.Ignored()
	default:
		jsonErr(w, http.StatusBadRequest,
			fmt.Sprintf("invalid filter %q: use forwarded, ignored, or omit", filter))
		return
	}

	out := make([]NotificationResponse, 0, len(records))
	for _, n := range records {
		out = append(out, toNotificationResponse(n))
	}
	jsonResp(w, http.StatusOK, ListResponse{
		Total:         len(out),
		Filter:        filter,
		Notifications: out,
	})
}

// clear handles DELETE /api/v1/notifications — empties the store.
func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// stats handles GET /api/v1/stats.
func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, BuildStats(h.store))
}

// health handles GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:  "running",
		Service: serviceName,
		Version: serviceVersion,
	})
}

// --- shared builders --------------------------------------------------------

// BuildStats computes the current counts. Unresolved records count toward
// Total only. Shared with the WebSocket hub.
func BuildStats(st *store.Store) StatsResponse {
	return StatsResponse{
		Total:     st.Count(),
		Forwarded: len(st.Forwarded()),
		Ignored:   len(st.Ignored()),
	}
}

// BuildStream renders the WebSocket broadcast payload: counts plus the most
// recent notifications, oldest first.
func BuildStream(st *store.Store) StreamResponse {
	all := st.All()
	start := 0
	if len(all) > recentStreamLen {
		start = len(all) - recentStreamLen
	}

	recent := make([]NotificationResponse, 0, len(all)-start)
	for _, n := range all[start:] {
		recent = append(recent, toNotificationResponse(n))
	}
	return StreamResponse{
		Stats:       BuildStats(st),
		Recent:      recent,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// toNotificationResponse maps a stored notification to its JSON shape.
func toNotificationResponse(n notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Type:        string(n.Severity),
		Name:        n.Name,
		Description: n.Description,
		ReceivedAt:  n.ReceivedAt.UTC().Format(time.RFC3339),
		Forwarded:   n.Forward == notification.StateForwarded,
	}
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
