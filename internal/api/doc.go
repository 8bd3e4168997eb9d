// Package api implements the HTTP REST API for notifyhub.
//
// New(store, pipeline) returns an http.Handler that serves:
//
//	POST   /api/v1/notifications  — ingest one notification (201, or 400 on bad input)
//	GET    /api/v1/notifications  — list all; ?filter=forwarded|ignored narrows
//	DELETE /api/v1/notifications  — clear the store (204, no body)
//	GET    /api/v1/stats          — total / forwarded / ignored counts
//	GET    /api/v1/health         — service liveness info
//
// All endpoints:
//   - Respond with Content-Type: application/json (except the 204)
//   - Return 405 for unsupported methods
//   - Format timestamps as RFC3339 UTC
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api
