// Package config loads the site configuration from defaults, an optional
// YAML file and ONEKIT_* environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

// AppName names the XDG config directory.
const AppName = "onekit-site"

// Config is the complete site configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Live      LiveConfig      `yaml:"live"`
	Site      SiteConfig      `yaml:"site"`
	Content   ContentConfig   `yaml:"content"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	BaseURL         string        `yaml:"base_url"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`

	// DevMode disables websocket origin checks and page caching.
	DevMode bool `yaml:"dev_mode"`
}

// LiveConfig configures live sessions.
type LiveConfig struct {
	HeartbeatTimeout time.Duration `yaml:"heartbeat_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	EventsPerSecond  float64       `yaml:"events_per_second"`
	EventBurst       int           `yaml:"event_burst"`
	MaxConnsPerIP    int           `yaml:"max_conns_per_ip"`
	MaxSessions      int           `yaml:"max_sessions"`
}

// SiteConfig holds page behaviour timings.
type SiteConfig struct {
	CopyResetDelay time.Duration `yaml:"copy_reset_delay"`
	RunDelay       time.Duration `yaml:"run_delay"`
	RunsPerMinute  int           `yaml:"runs_per_minute"`
}

// ContentConfig points at an on-disk content directory. An empty Dir uses
// the content embedded in the binary.
type ContentConfig struct {
	Dir      string        `yaml:"dir"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// CacheConfig configures the rendered page cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	MaxCost int64         `yaml:"max_cost"`
	TTL     time.Duration `yaml:"ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TelemetryConfig configures tracing export.
type TelemetryConfig struct {
	Exporter    string  `yaml:"exporter"`
	Endpoint    string  `yaml:"endpoint"`
	SampleRatio float64 `yaml:"sample_ratio"`
	Environment string  `yaml:"environment"`
}

// RateLimitConfig limits HTTP requests per client IP.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			BaseURL:         "http://localhost:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Live: LiveConfig{
			HeartbeatTimeout: 60 * time.Second,
			IdleTimeout:      5 * time.Minute,
			EventsPerSecond:  20,
			EventBurst:       40,
			MaxConnsPerIP:    20,
			MaxSessions:      10000,
		},
		Site: SiteConfig{
			CopyResetDelay: 2 * time.Second,
			RunDelay:       1500 * time.Millisecond,
			RunsPerMinute:  20,
		},
		Content: ContentConfig{
			Debounce: 500 * time.Millisecond,
		},
		Cache: CacheConfig{
			Enabled: true,
			MaxCost: 64 << 20,
			TTL:     10 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Exporter:    "none",
			SampleRatio: 1,
			Environment: "production",
		},
		RateLimit: RateLimitConfig{
			Requests: 300,
			Window:   time.Minute,
		},
	}
}

// XDGConfigDir returns the per-user config directory.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}

// Validate reports every invalid setting, joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(sentinel error, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
	}

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		add(ErrInvalidAddr, "server.addr %q", c.Server.Addr)
	}
	if u, err := url.Parse(c.Server.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		add(ErrInvalidBaseURL, "server.base_url %q", c.Server.BaseURL)
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"server.idle_timeout", c.Server.IdleTimeout},
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
		{"live.heartbeat_timeout", c.Live.HeartbeatTimeout},
		{"live.idle_timeout", c.Live.IdleTimeout},
		{"site.copy_reset_delay", c.Site.CopyResetDelay},
		{"site.run_delay", c.Site.RunDelay},
		{"content.debounce", c.Content.Debounce},
		{"rate_limit.window", c.RateLimit.Window},
	}
	for _, d := range durations {
		if d.d <= 0 {
			add(ErrInvalidDuration, "%s %s", d.name, d.d)
		}
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		add(ErrInvalidDuration, "cache.ttl %s", c.Cache.TTL)
	}

	if c.Live.EventsPerSecond <= 0 || c.Live.EventBurst <= 0 {
		add(ErrInvalidRate, "live.events_per_second=%v live.event_burst=%d", c.Live.EventsPerSecond, c.Live.EventBurst)
	}
	if c.Site.RunsPerMinute <= 0 {
		add(ErrInvalidRate, "site.runs_per_minute=%d", c.Site.RunsPerMinute)
	}
	if c.RateLimit.Requests <= 0 {
		add(ErrInvalidRate, "rate_limit.requests=%d", c.RateLimit.Requests)
	}

	if c.Cache.Enabled && c.Cache.MaxCost <= 0 {
		add(ErrInvalidCache, "cache.max_cost=%d", c.Cache.MaxCost)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil || c.Log.Level == "" {
		add(ErrInvalidLogLevel, "log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		add(ErrInvalidLogFormat, "log.format %q", c.Log.Format)
	}

	switch c.Telemetry.Exporter {
	case "none":
	case "grpc", "http":
		if c.Telemetry.Endpoint == "" {
			add(ErrMissingEndpoint, "telemetry.exporter %q", c.Telemetry.Exporter)
		}
	default:
		add(ErrInvalidExporter, "telemetry.exporter %q", c.Telemetry.Exporter)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		add(ErrInvalidSampleRatio, "telemetry.sample_ratio=%v", c.Telemetry.SampleRatio)
	}

	return errors.Join(errs...)
}
