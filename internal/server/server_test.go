package server

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/onekit-js/onekit-site/internal/config"
	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/pkg/audit"
	"github.com/onekit-js/onekit-site/pkg/logging"
	"github.com/onekit-js/onekit-site/pkg/protocol"
	"github.com/onekit-js/onekit-site/pkg/transport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// chroma's regexp2 runs a package-level timeout clock.
		goleak.IgnoreAnyFunction("github.com/dlclark/regexp2.runClock"),
	)
}

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.BaseURL = "https://onekit.test"
	cfg.Server.ShutdownTimeout = 2 * time.Second
	cfg.Site.RunDelay = 10 * time.Millisecond
	cfg.Cache.MaxCost = 1 << 20
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, opts Options) *Server {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger{}
	}
	opts.Version = "test"
	s, err := New(cfg, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t, testConfig(), Options{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html", `id="lv-root"`},
		{"/installation", "text/html", "Get Started with OneKit JS"},
		{"/usage?category=getting-started", "text/html", "Getting Started"},
		{"/live/client.js", "text/javascript", "phx_join"},
		{"/assets/site.css", "text/css", "--color-"},
		{"/robots.txt", "text/plain", "Sitemap: https://onekit.test/sitemap.xml"},
		{"/sitemap.xml", "application/xml", "<loc>https://onekit.test/docs</loc>"},
		{"/llms.txt", "text/plain", "# OneKit JS"},
		{"/healthz", "application/json", `"alive"`},
		{"/readyz", "application/json", `"status"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, srv, tt.path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), tt.contentType), resp.Header.Get("Content-Type"))
			assert.Contains(t, body, tt.contains)
			assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
		})
	}

	resp, body := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "onekit_http_requests_total")

	resp, _ = get(t, srv, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPagesCarryCSP(t *testing.T) {
	s := newTestServer(t, testConfig(), Options{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, body := get(t, srv, "/playground")
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<style")
}

func TestSearch(t *testing.T) {
	s := newTestServer(t, testConfig(), Options{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	var all searchResponse
	_, body := get(t, srv, "/api/search")
	require.NoError(t, json.Unmarshal([]byte(body), &all))
	assert.Equal(t, len(s.Store().Current().Entries()), all.Count)

	var todo searchResponse
	_, body = get(t, srv, "/api/search?q=%20%20todo%20")
	require.NoError(t, json.Unmarshal([]byte(body), &todo))
	assert.Equal(t, "todo", todo.Query)
	require.NotZero(t, todo.Count)
	assert.Len(t, todo.Results, todo.Count)
	for _, e := range todo.Results {
		assert.NotEmpty(t, e.URL)
	}

	var none searchResponse
	_, body = get(t, srv, "/api/search?q=zzzz-no-match")
	require.NoError(t, json.Unmarshal([]byte(body), &none))
	assert.Zero(t, none.Count)
	assert.NotNil(t, none.Results)
	assert.Contains(t, body, `"results":[]`)

	assert.Equal(t, 3.0, testutil.ToFloat64(s.Metrics().SearchQueries))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Requests = 2
	cfg.RateLimit.Window = time.Minute
	var events audit.Memory
	s := newTestServer(t, cfg, Options{Auditor: &events})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	for range 2 {
		resp, _ := get(t, srv, "/robots.txt")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, body := get(t, srv, "/robots.txt")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate_limit_exceeded","detail":"Too many requests. Please try again later."}`, body)

	recorded := events.Events()
	require.Len(t, recorded, 1)
	assert.Equal(t, audit.EventRateLimitExceeded, recorded[0].Type)
	assert.Equal(t, "/robots.txt", recorded[0].Path)
	assert.NotEmpty(t, recorded[0].RequestID)

	// Probes are outside the limit.
	resp, _ = get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPageCache(t *testing.T) {
	s := newTestServer(t, testConfig(), Options{})
	require.NotNil(t, s.cache)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	_, first := get(t, srv, "/installation")
	s.cache.Wait()
	_, second := get(t, srv, "/installation")

	assert.Equal(t, first, second)
	lookups := s.Metrics().CacheLookups
	assert.Equal(t, 1.0, testutil.ToFloat64(lookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(lookups.WithLabelValues("hit")))
}

func TestPageCacheDisabledInDevMode(t *testing.T) {
	cfg := testConfig()
	cfg.Server.DevMode = true
	s := newTestServer(t, cfg, Options{})
	assert.Nil(t, s.cache)
}

func TestPageCacheClear(t *testing.T) {
	c, err := NewPageCache(1<<20, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	c.Set("k", []byte("page"))
	c.Wait()
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "page", string(got))

	c.Clear()
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestReadinessFailsWhileDraining(t *testing.T) {
	s := newTestServer(t, testConfig(), Options{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	s.draining.Store(true)
	resp, body := get(t, srv, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "draining")
}

func TestNewRejectsMissingContentDir(t *testing.T) {
	cfg := testConfig()
	cfg.Content.Dir = t.TempDir() + "/missing"
	_, err := New(cfg, Options{Logger: logging.NopLogger{}})
	assert.Error(t, err)
}

func embeddedMap(t *testing.T) fstest.MapFS {
	t.Helper()
	m := fstest.MapFS{}
	err := fs.WalkDir(content.Embedded(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(content.Embedded(), path)
		if err != nil {
			return err
		}
		m[path] = &fstest.MapFile{Data: data}
		return nil
	})
	require.NoError(t, err)
	return m
}

func TestServeBroadcastsReload(t *testing.T) {
	m := embeddedMap(t)
	store, err := content.NewStore(m, logging.NopLogger{})
	require.NoError(t, err)

	s := newTestServer(t, testConfig(), Options{Store: store})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	served := make(chan error, 1)
	go func() { served <- s.Serve(ctx, ln) }()

	dctx, dcancel := context.WithTimeout(ctx, 2*time.Second)
	defer dcancel()
	tr, err := transport.Dial(dctx, "ws://"+ln.Addr().String()+"/", transport.DefaultTransportConfig(), nil)
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Send(protocol.JoinMessage("lv:/", nil).WithRef("1")))
	next := func() *protocol.Message {
		select {
		case msg := <-tr.Receive():
			return msg
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for server message")
			return nil
		}
	}
	joined := next()
	require.Equal(t, protocol.EventReply, joined.Event)

	data := strings.Replace(string(m["site.yaml"].Data), "version: 3.0.0", "version: 3.1.0", 1)
	m["site.yaml"] = &fstest.MapFile{Data: []byte(data)}
	require.NoError(t, store.Reload(ctx))

	var reload *protocol.Message
	for reload == nil {
		if msg := next(); msg.Event == "reload" {
			reload = msg
		}
	}
	assert.Equal(t, "3.1.0", reload.Payload["version"])
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics().ContentReloads.WithLabelValues("ok")))

	require.NoError(t, s.Shutdown(context.Background()))
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after shutdown")
	}
}
