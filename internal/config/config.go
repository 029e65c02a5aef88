package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPollInterval      = 5 * time.Minute
	DefaultBroadcastInterval = 5 * time.Second
	DefaultHTTPPort          = 8080
	DefaultTarget            = 85
	DefaultHorizon           = 3
	DefaultConfidence        = 80
)

// Config is the top-level configuration. Fields map 1:1 to
// config.example.yaml.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Server    ServerConfig    `yaml:"server"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Alerts    AlertsConfig    `yaml:"alerts"`
}

// SourceConfig describes where the raw CSV export comes from.
type SourceConfig struct {
	// SheetID is the public spreadsheet document ID. When set and URLs is
	// empty, the standard export URL plus the gviz fallback are derived.
	SheetID string `yaml:"sheet_id"`

	// URLs overrides the derived candidates with an explicit ordered list.
	URLs []string `yaml:"urls"`

	// PollInterval controls how often the CSV is re-fetched.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// CandidateURLs returns the ordered fetch candidates: the explicit list
// when given, otherwise the two derived spreadsheet export URLs.
func (s SourceConfig) CandidateURLs() []string {
	if len(s.URLs) > 0 {
		return s.URLs
	}
	if s.SheetID == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", s.SheetID),
		fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv", s.SheetID),
	}
}

// ServerConfig holds the HTTP/WebSocket serving settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, /metrics and WebSocket hub
	// listen on.
	HTTPPort int `yaml:"http_port"`

	// BroadcastInterval controls how often the WebSocket hub pushes the
	// current dashboard view to connected clients.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

// DashboardConfig holds the default derivation parameters. Each can be
// overridden per request through query parameters.
type DashboardConfig struct {
	// Target is the performance target percentage, 0–100.
	Target int `yaml:"target"`

	// ForecastHorizon is how many hours ahead to predict, 1–6.
	ForecastHorizon int `yaml:"forecast_horizon"`

	// ForecastConfidence controls the uncertainty band width, 70–95.
	ForecastConfidence int `yaml:"forecast_confidence"`
}

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines a threshold-based alert condition over per-center
// metrics.
type AlertRule struct {
	// Name is the human-readable alert identifier.
	Name string `yaml:"name"`

	// Condition is an expression like "completion < 70" or "gap < -10".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable holding the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the YAML config file at path. Missing optional
// fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Source: SourceConfig{
			PollInterval: DefaultPollInterval,
		},
		Server: ServerConfig{
			HTTPPort:          DefaultHTTPPort,
			BroadcastInterval: DefaultBroadcastInterval,
		},
		Dashboard: DashboardConfig{
			Target:             DefaultTarget,
			ForecastHorizon:    DefaultHorizon,
			ForecastConfidence: DefaultConfidence,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Source.PollInterval <= 0 {
		return fmt.Errorf("source.poll_interval must be positive")
	}
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d out of range", cfg.Server.HTTPPort)
	}
	if cfg.Dashboard.Target < 0 || cfg.Dashboard.Target > 100 {
		return fmt.Errorf("dashboard.target %d out of range 0–100", cfg.Dashboard.Target)
	}
	if cfg.Dashboard.ForecastHorizon < 1 || cfg.Dashboard.ForecastHorizon > 6 {
		return fmt.Errorf("dashboard.forecast_horizon %d out of range 1–6", cfg.Dashboard.ForecastHorizon)
	}
	if cfg.Dashboard.ForecastConfidence < 70 || cfg.Dashboard.ForecastConfidence > 95 {
		return fmt.Errorf("dashboard.forecast_confidence %d out of range 70–95", cfg.Dashboard.ForecastConfidence)
	}
	for _, r := range cfg.Alerts.Rules {
		if r.Name == "" {
			return fmt.Errorf("alert rule with empty name")
		}
		if r.Condition == "" {
			return fmt.Errorf("alert rule %q has no condition", r.Name)
		}
	}
	return nil
}
