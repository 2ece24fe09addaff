package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultRefreshInterval = 30 * time.Second
	DefaultFetchTimeout    = 30 * time.Second
	DefaultHTTPPort        = 8080
	DefaultLocale          = "en"
	DefaultAuthHeader      = "X-Api-Key"
)

// Config is the top-level deptpulse configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Sheet      SheetConfig  `yaml:"sheet"`
	Categories []Category   `yaml:"categories"`
	Server     ServerConfig `yaml:"server"`
	Alerts     AlertsConfig `yaml:"alerts"`
}

// SheetConfig describes the spreadsheet source and how often it is polled.
type SheetConfig struct {
	// ShareURL is the human-shareable spreadsheet link. A "/d/<id>" path
	// segment is rewritten to the CSV export endpoint at fetch time.
	ShareURL string `yaml:"share_url"`

	// RefreshInterval controls how often the sheet is re-ingested.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// FetchTimeout bounds one export download end to end.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// Locale is the BCP 47 tag selecting the collation used when sorting
	// departments by name.
	Locale string `yaml:"locale"`
}

// Category binds one source column to a scored dimension. Columns 0 and 1
// are reserved for the id and name fields, so category columns start at 2.
type Category struct {
	// Column is the zero-based index of the source column feeding this
	// category.
	Column int `yaml:"column"`

	// Label is the stable identifier carried onto every record.
	Label string `yaml:"label"`

	// Weight is the category's relative importance, retained on records
	// for consumers even though the aggregate score is an unweighted mean.
	Weight float64 `yaml:"weight"`
}

// ServerConfig holds the HTTP serving settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket stream, and metrics
	// endpoint listen on.
	HTTPPort int `yaml:"http_port"`

	// Auth configures optional API-key authentication for the REST API.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig configures REST API authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// Header is the HTTP header the key is expected in.
	// Defaults to X-Api-Key.
	Header string `yaml:"header"`

	// KeyEnv is the name of the environment variable holding the expected
	// API key.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the API key resolved from the environment.
// Empty when KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name or the default.
func (a AuthConfig) EffectiveHeader() string {
	if a.Header == "" {
		return DefaultAuthHeader
	}
	return a.Header
}

// AlertsConfig holds all alerting rules and webhook targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines a threshold-based alert condition evaluated against
// every successful snapshot.
type AlertRule struct {
	// Name is the human-readable alert identifier.
	Name string `yaml:"name"`

	// Condition is an expression like "total_score < 0.5",
	// "overall < 0.6", or "category:Policies < 0.3".
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

// DefaultCategories is the six-column dashboard layout the service ships
// with, used whenever the config file does not define its own list.
func DefaultCategories() []Category {
	return []Category{
		{Column: 2, Label: "JDs", Weight: 0.20},
		{Column: 3, Label: "Org Chart", Weight: 0.05},
		{Column: 4, Label: "Evaluation", Weight: 0.20},
		{Column: 5, Label: "Cross Function", Weight: 0.20},
		{Column: 6, Label: "Policies", Weight: 0.15},
		{Column: 7, Label: "ERP", Weight: 0.20},
	}
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultCategories()
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Sheet: SheetConfig{
			RefreshInterval: DefaultRefreshInterval,
			FetchTimeout:    DefaultFetchTimeout,
			Locale:          DefaultLocale,
		},
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Sheet.ShareURL == "" {
		return fmt.Errorf("sheet.share_url is required")
	}
	if cfg.Sheet.RefreshInterval <= 0 {
		return fmt.Errorf("sheet.refresh_interval must be positive")
	}
	if cfg.Sheet.FetchTimeout < 0 {
		return fmt.Errorf("sheet.fetch_timeout must not be negative")
	}
	if cfg.Server.HTTPPort <= 0 {
		return fmt.Errorf("server.http_port must be positive")
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth: unknown mode %q", cfg.Server.Auth.Mode)
	}
	for i, cat := range cfg.Categories {
		if cat.Label == "" {
			return fmt.Errorf("categories[%d]: label is required", i)
		}
		if cat.Column < 2 {
			return fmt.Errorf("categories[%d] %q: column must be 2 or greater (0 and 1 are id and name)", i, cat.Label)
		}
	}
	for i, rule := range cfg.Alerts.Rules {
		if rule.Name == "" {
			return fmt.Errorf("alerts.rules[%d]: name is required", i)
		}
		if rule.Condition == "" {
			return fmt.Errorf("alerts.rules[%d] %q: condition is required", i, rule.Name)
		}
	}
	for i, wh := range cfg.Alerts.Webhooks {
		switch wh.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("alerts.webhooks[%d]: unknown type %q", i, wh.Type)
		}
	}
	return nil
}
