package audit

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onekit-js/onekit-site/pkg/logging"
)

func TestStructuredLogger_Record(t *testing.T) {
	var buf bytes.Buffer
	l := New(logging.New(zerolog.New(&buf)))

	req := httptest.NewRequest(http.MethodGet, "/live?x=1", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("User-Agent", "crawler/1.0")
	OriginBlocked(l, req, "10.0.0.1")

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"event":"audit.origin_blocked"`)
	assert.Contains(t, out, `"source_ip":"10.0.0.1"`)
	assert.Contains(t, out, `"origin":"https://evil.example"`)
	assert.Contains(t, out, `"user_agent":"crawler/1.0"`)
	assert.Contains(t, out, `"path":"/live"`)
}

func TestStructuredLogger_CriticalIsError(t *testing.T) {
	var buf bytes.Buffer
	New(logging.New(zerolog.New(&buf))).Record(t.Context(), Event{Type: "x", Severity: SeverityCritical})
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestFromRequest_RequestID(t *testing.T) {
	var got Event
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromRequest(r, EventRateLimitExceeded, SeverityWarning, "1.2.3.4")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/search", nil))

	assert.NotEmpty(t, got.RequestID)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/search", got.Path)
}

func TestMemory(t *testing.T) {
	var m Memory
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	RateLimited(&m, req, "a")
	ConnectionLimited(&m, req, "b")
	Nop{}.Record(t.Context(), Event{})

	events := m.Events()
	require.Len(t, events, 2)
	assert.Equal(t, EventRateLimitExceeded, events[0].Type)
	assert.Equal(t, EventConnectionLimit, events[1].Type)
	assert.Equal(t, SeverityInfo, events[1].Severity)
}
