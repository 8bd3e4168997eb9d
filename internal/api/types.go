package api

// NotificationResponse is one notification in API responses.
type NotificationResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ReceivedAt  string `json:"received_at"` // RFC3339 UTC
	Forwarded   bool   `json:"forwarded"`
}

// ForwardingResponse reports the relay outcome for one ingestion.
type ForwardingResponse struct {
	Forwarded bool   `json:"forwarded"`
	Status    string `json:"status"`
}

// CreateResponse is the payload for POST /api/v1/notifications.
type CreateResponse struct {
	Status       string               `json:"status"`
	Notification NotificationResponse `json:"notification"`
	Forwarding   ForwardingResponse   `json:"forwarding"`
}

// ListResponse is the payload for GET /api/v1/notifications.
type ListResponse struct {
	Total         int                    `json:"total"`
	Filter        string                 `json:"filter"`
	Notifications []NotificationResponse `json:"notifications"`
}

// StatsResponse is the payload for GET /api/v1/stats. Notifications whose
// outcome is still unresolved count toward Total only, so Total may exceed
// Forwarded+Ignored.
type StatsResponse struct {
	Total     int `json:"total"`
	Forwarded int `json:"forwarded"`
	Ignored   int `json:"ignored"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// StreamResponse is the payload broadcast on the WebSocket stats stream.
type StreamResponse struct {
	Stats       StatsResponse          `json:"stats"`
	Recent      []NotificationResponse `json:"recent"`
	GeneratedAt string                 `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
