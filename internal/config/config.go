package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the configuration.
const (
	DefaultHTTPPort        = 8080
	DefaultRefreshInterval = 5 * time.Minute
	DefaultRequestTimeout  = 30 * time.Second
	DefaultMaxAge          = 30 * time.Minute
	DefaultStreamInterval  = 5 * time.Second
	DefaultTopJobs         = 10
	DefaultCooldown        = 15 * time.Minute

	DefaultBottleneckPct   = 40.0
	DefaultVolumeDropRatio = 0.5
	DefaultStaleDays       = 300.0
)

// Config is the top-level configuration parsed from config.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Alerts    AlertsConfig    `yaml:"alerts"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket stream and /metrics listen on.
	HTTPPort int `yaml:"http_port"`

	// Auth configures how the server authenticates REST and stream clients.
	Auth AuthConfig `yaml:"auth"`

	// StreamInterval is how often the WebSocket hub pushes the report.
	StreamInterval time.Duration `yaml:"stream_interval"`
}

// AuthConfig controls client authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header to read the key from. Defaults to "X-API-Key".
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "X-API-Key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "X-API-Key"
}

// DatasetConfig says where the snapshot comes from and how often to reload it.
type DatasetConfig struct {
	// Source is a local file path or an http(s) URL serving the JSON snapshot.
	Source string `yaml:"source"`

	// RefreshInterval is how often the snapshot is reloaded.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// Watch reloads a local file source as soon as it is written.
	Watch bool `yaml:"watch"`

	// RequestTimeout bounds a single remote fetch.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// HeaderEnv optionally names headers whose values come from the environment,
	// e.g. {"Authorization": "DATASET_TOKEN"}.
	HeaderEnv map[string]string `yaml:"header_env"`

	// MaxAge is how old the latest report may get before health reports "stale".
	MaxAge time.Duration `yaml:"max_age"`
}

// IsRemote reports whether Source is an HTTP URL.
func (d DatasetConfig) IsRemote() bool {
	return strings.HasPrefix(d.Source, "http://") || strings.HasPrefix(d.Source, "https://")
}

// Headers resolves HeaderEnv against the environment, skipping unset variables.
func (d DatasetConfig) Headers() map[string]string {
	out := make(map[string]string, len(d.HeaderEnv))
	for h, env := range d.HeaderEnv {
		if v := os.Getenv(env); v != "" {
			out[h] = v
		}
	}
	return out
}

// DashboardConfig controls report presentation limits.
type DashboardConfig struct {
	// TopJobs caps the job performance table. 0 shows every job.
	TopJobs int `yaml:"top_jobs"`
}

// AlertsConfig holds rule thresholds and webhook delivery targets.
type AlertsConfig struct {
	BottleneckPct   float64 `yaml:"bottleneck_pct"`
	VolumeDropRatio float64 `yaml:"volume_drop_ratio"`
	StaleDays       float64 `yaml:"stale_days"`

	// Cooldown suppresses re-notifying a rule for this long after it fired.
	Cooldown time.Duration `yaml:"cooldown"`

	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: teams | slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the config file at path.
// Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
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
		Server: ServerConfig{
			HTTPPort:       DefaultHTTPPort,
			StreamInterval: DefaultStreamInterval,
		},
		Dataset: DatasetConfig{
			RefreshInterval: DefaultRefreshInterval,
			RequestTimeout:  DefaultRequestTimeout,
			MaxAge:          DefaultMaxAge,
		},
		Dashboard: DashboardConfig{
			TopJobs: DefaultTopJobs,
		},
		Alerts: AlertsConfig{
			BottleneckPct:   DefaultBottleneckPct,
			VolumeDropRatio: DefaultVolumeDropRatio,
			StaleDays:       DefaultStaleDays,
			Cooldown:        DefaultCooldown,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.StreamInterval <= 0 {
		return fmt.Errorf("server.stream_interval must be positive")
	}

	if cfg.Dataset.Source == "" {
		return fmt.Errorf("dataset.source is required")
	}
	if cfg.Dataset.RefreshInterval <= 0 {
		return fmt.Errorf("dataset.refresh_interval must be positive")
	}
	if cfg.Dataset.RequestTimeout <= 0 {
		return fmt.Errorf("dataset.request_timeout must be positive")
	}
	if cfg.Dataset.MaxAge < 0 {
		return fmt.Errorf("dataset.max_age must not be negative")
	}
	if cfg.Dataset.Watch && cfg.Dataset.IsRemote() {
		return fmt.Errorf("dataset.watch only applies to local file sources")
	}

	if cfg.Dashboard.TopJobs < 0 {
		return fmt.Errorf("dashboard.top_jobs must not be negative")
	}

	if cfg.Alerts.BottleneckPct < 0 || cfg.Alerts.BottleneckPct > 100 {
		return fmt.Errorf("alerts.bottleneck_pct %.1f is out of range [0, 100]", cfg.Alerts.BottleneckPct)
	}
	if cfg.Alerts.VolumeDropRatio <= 0 || cfg.Alerts.VolumeDropRatio > 1 {
		return fmt.Errorf("alerts.volume_drop_ratio %.2f is out of range (0, 1]", cfg.Alerts.VolumeDropRatio)
	}
	if cfg.Alerts.StaleDays < 0 {
		return fmt.Errorf("alerts.stale_days must not be negative")
	}
	if cfg.Alerts.Cooldown < 0 {
		return fmt.Errorf("alerts.cooldown must not be negative")
	}
	for i, wh := range cfg.Alerts.Webhooks {
		switch wh.Type {
		case "teams", "slack", "http":
		default:
			return fmt.Errorf("alerts.webhooks[%d]: unknown type %q", i, wh.Type)
		}
		if wh.URLEnv == "" {
			return fmt.Errorf("alerts.webhooks[%d]: url_env is required", i)
		}
	}
	return nil
}
