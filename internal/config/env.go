package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ONEKIT_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv applies ONEKIT_* overrides. Empty values are ignored; malformed
// values are reported together.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	e := envReader{lookup: lookup}

	e.str("ADDR", &c.Server.Addr)
	e.str("BASE_URL", &c.Server.BaseURL)
	e.list("ALLOWED_ORIGINS", &c.Server.AllowedOrigins)
	e.boolean("DEV_MODE", &c.Server.DevMode)
	e.duration("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)

	e.float("LIVE_EVENTS_PER_SECOND", &c.Live.EventsPerSecond)
	e.integer("LIVE_EVENT_BURST", &c.Live.EventBurst)
	e.integer("LIVE_MAX_CONNS_PER_IP", &c.Live.MaxConnsPerIP)

	e.duration("COPY_RESET_DELAY", &c.Site.CopyResetDelay)
	e.duration("RUN_DELAY", &c.Site.RunDelay)

	e.str("CONTENT_DIR", &c.Content.Dir)
	e.boolean("CONTENT_WATCH", &c.Content.Watch)

	e.boolean("CACHE_ENABLED", &c.Cache.Enabled)
	e.duration("CACHE_TTL", &c.Cache.TTL)

	e.str("LOG_LEVEL", &c.Log.Level)
	e.str("LOG_FORMAT", &c.Log.Format)

	e.str("TELEMETRY_EXPORTER", &c.Telemetry.Exporter)
	e.str("TELEMETRY_ENDPOINT", &c.Telemetry.Endpoint)
	e.float("TELEMETRY_SAMPLE_RATIO", &c.Telemetry.SampleRatio)

	e.integer("RATE_LIMIT_REQUESTS", &c.RateLimit.Requests)

	return errors.Join(e.errs...)
}

type envReader struct {
	lookup LookupFunc
	errs   []error
}

func (e *envReader) get(name string) (string, bool) {
	v, ok := e.lookup(EnvPrefix + name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) fail(name, value string, err error) {
	e.errs = append(e.errs, fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidEnv, EnvPrefix, name, value, err))
}

func (e *envReader) str(name string, dst *string) {
	if v, ok := e.get(name); ok {
		*dst = v
	}
}

func (e *envReader) list(name string, dst *[]string) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func (e *envReader) boolean(name string, dst *bool) {
	if v, ok := e.get(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) integer(name string, dst *int) {
	if v, ok := e.get(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) float(name string, dst *float64) {
	if v, ok := e.get(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) duration(name string, dst *time.Duration) {
	if v, ok := e.get(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = d
	}
}
