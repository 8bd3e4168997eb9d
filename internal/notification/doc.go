// Package notification defines the notification model — severity, the
// tri-state forwarding outcome — and validation of incoming payloads.
package notification
