// Package config loads the notifyhub server configuration from YAML,
// overlays NOTIFYHUB_* environment variables, and resolves the webhook URL
// from the environment. Watch hot-reloads the file; only the log level is
// applied at runtime.
package config
