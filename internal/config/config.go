package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort       = 8080
	DefaultLogLevel       = "info"
	DefaultAuditLogPath   = "warning.log"
	DefaultStreamInterval = 5 * time.Second
	DefaultWebhookURLEnv  = "TEAMS_WEBHOOK_URL"
)

// Config holds the configuration parsed from the `server:` section of
// config.yaml, overlaid with NOTIFYHUB_* environment variables.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, metrics endpoint and WebSocket
	// stream listen on (default 8080).
	HTTPPort int `yaml:"http_port" env:"NOTIFYHUB_HTTP_PORT"`

	// LogLevel is one of: debug | info | warn | error. The only setting
	// Watch applies at runtime.
	LogLevel string `yaml:"log_level" env:"NOTIFYHUB_LOG_LEVEL"`

	// AuditLog is the path of the fallback log that captures Warning
	// notifications when no webhook is configured (default warning.log).
	AuditLog string `yaml:"audit_log" env:"NOTIFYHUB_AUDIT_LOG"`

	// Stream controls the WebSocket stats broadcast.
	Stream StreamConfig `yaml:"stream"`

	// Webhook configures the Teams delivery target.
	Webhook WebhookConfig `yaml:"webhook"`
}

// StreamConfig controls the WebSocket stats broadcast.
type StreamConfig struct {
	// Interval between broadcasts to connected clients (default 5s).
	Interval time.Duration `yaml:"interval"`
}

// WebhookConfig defines the Teams delivery target. The URL itself always
// comes from the process environment; the file only names the variable.
type WebhookConfig struct {
	// URLEnv is the environment variable holding the webhook URL
	// (default TEAMS_WEBHOOK_URL).
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment. Empty means
// the forwarder stays unconfigured for the process lifetime.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads path, fills defaults, applies environment overrides, and
// validates. A missing file is not an error — the service runs on defaults
// plus environment. A present but unreadable or invalid file is.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus environment only.
	case err != nil:
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			LogLevel: DefaultLogLevel,
			AuditLog: DefaultAuditLogPath,
			Stream:   StreamConfig{Interval: DefaultStreamInterval},
			Webhook:  WebhookConfig{URLEnv: DefaultWebhookURLEnv},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", cfg.Server.LogLevel)
	}
	if cfg.Server.AuditLog == "" {
		return fmt.Errorf("server.audit_log must not be empty")
	}
	if cfg.Server.Stream.Interval <= 0 {
		return fmt.Errorf("server.stream.interval must be positive")
	}
	return nil
}

// Level converts the configured log level to its slog equivalent.
func (s ServerConfig) Level() slog.Level {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
