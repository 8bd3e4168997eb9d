// Package ws implements the WebSocket hub that streams notification stats
// and recent records to connected clients on a fixed interval.
package ws
