// Package audit records security-relevant events: rejected websocket
// origins, exhausted connection slots and rate limited clients.
package audit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/onekit-js/onekit-site/pkg/logging"
)

// Event types.
const (
	EventRateLimitExceeded = "rate_limit_exceeded"
	EventOriginBlocked     = "origin_blocked"
	EventConnectionLimit   = "connection_limit"
)

// Severity levels.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Event is a single security event.
type Event struct {
	Time      time.Time
	Type      string
	Severity  string
	SourceIP  string
	UserAgent string
	RequestID string
	Method    string
	Path      string
	Details   map[string]string
}

// Logger records security events.
type Logger interface {
	Record(ctx context.Context, e Event)
}

// StructuredLogger writes events to a logging.Logger.
type StructuredLogger struct {
	log logging.Logger
}

// New returns an audit logger that writes through log.
func New(log logging.Logger) *StructuredLogger {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &StructuredLogger{log: log}
}

// Record logs e. Critical events log at error level, the rest at warn.
func (l *StructuredLogger) Record(ctx context.Context, e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	if e.RequestID == "" {
		e.RequestID = middleware.GetReqID(ctx)
	}

	fields := []logging.Field{
		logging.Event("audit." + e.Type),
		logging.String("severity", e.Severity),
		logging.Time("at", e.Time),
	}
	for _, f := range []struct{ k, v string }{
		{"source_ip", e.SourceIP},
		{"user_agent", e.UserAgent},
		{"request_id", e.RequestID},
		{"method", e.Method},
		{"path", e.Path},
	} {
		if f.v != "" {
			fields = append(fields, logging.String(f.k, f.v))
		}
	}
	for k, v := range e.Details {
		fields = append(fields, logging.String(k, v))
	}

	if e.Severity == SeverityCritical {
		l.log.Error("security event", fields...)
		return
	}
	l.log.Warn("security event", fields...)
}

// Nop discards events.
type Nop struct{}

// Record does nothing.
func (Nop) Record(context.Context, Event) {}

// Memory keeps events in memory. Tests use it to assert what was recorded.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

// Record appends e.
func (m *Memory) Record(_ context.Context, e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

// Events returns a copy of the recorded events.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// FromRequest fills the request fields of an event of type typ.
func FromRequest(r *http.Request, typ, severity, ip string) Event {
	return Event{
		Type:      typ,
		Severity:  severity,
		SourceIP:  ip,
		UserAgent: r.UserAgent(),
		RequestID: middleware.GetReqID(r.Context()),
		Method:    r.Method,
		Path:      r.URL.Path,
	}
}

// RateLimited records a request rejected by the rate limiter.
func RateLimited(l Logger, r *http.Request, ip string) {
	l.Record(r.Context(), FromRequest(r, EventRateLimitExceeded, SeverityWarning, ip))
}

// OriginBlocked records a websocket upgrade refused for its origin.
func OriginBlocked(l Logger, r *http.Request, ip string) {
	e := FromRequest(r, EventOriginBlocked, SeverityWarning, ip)
	e.Details = map[string]string{"origin": r.Header.Get("Origin"), "host": r.Host}
	l.Record(r.Context(), e)
}

// ConnectionLimited records a websocket upgrade refused because the client
// holds too many live sessions.
func ConnectionLimited(l Logger, r *http.Request, ip string) {
	l.Record(r.Context(), FromRequest(r, EventConnectionLimit, SeverityInfo, ip))
}
