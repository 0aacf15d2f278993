package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onekit-js/onekit-site/pkg/audit"
	"github.com/onekit-js/onekit-site/pkg/core"
	"github.com/onekit-js/onekit-site/pkg/protocol"
	"github.com/onekit-js/onekit-site/pkg/transport"
)

// counter is a small live component used across the router tests.
type counter struct {
	core.BaseComponent

	count      int
	mounts     atomic.Int32
	terminated chan core.TerminateReason
}

func newCounter() *counter {
	return &counter{terminated: make(chan core.TerminateReason, 1)}
}

func (c *counter) Name() string { return "counter" }

func (c *counter) Mount(ctx context.Context, params core.Params, session core.Session) error {
	c.mounts.Add(1)
	c.count = params.Int("start", 0)
	return nil
}

func (c *counter) Render(ctx context.Context) core.Renderer {
	return core.RendererFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1>Counter</h1><p>Count: <span data-slot="count">%d</span></p>`, c.count)
		return err
	})
}

func (c *counter) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	switch event {
	case "increment":
		c.count++
	case "later":
		c.Socket().SendAfter(10*time.Millisecond, "tick")
	case "boom":
		panic("kaboom")
	default:
		return fmt.Errorf("unknown event %q", event)
	}
	return nil
}

func (c *counter) HandleInfo(ctx context.Context, msg any) error {
	if msg == "tick" {
		c.count += 10
	}
	return nil
}

func (c *counter) Terminate(ctx context.Context, reason core.TerminateReason) error {
	select {
	case c.terminated <- reason:
	default:
	}
	return nil
}

type panicky struct{ core.BaseComponent }

func (panicky) Render(ctx context.Context) core.Renderer {
	panic("render exploded")
}

type mapCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (c *mapCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *mapCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

type countingObserver struct {
	nopObserver
	hits, misses, panics atomic.Int32
	opened, closed       atomic.Int32
}

func (o *countingObserver) CacheLookup(hit bool) {
	if hit {
		o.hits.Add(1)
	} else {
		o.misses.Add(1)
	}
}
func (o *countingObserver) Panicked()                             { o.panics.Add(1) }
func (o *countingObserver) ConnectionOpened()                     { o.opened.Add(1) }
func (o *countingObserver) ConnectionClosed(core.TerminateReason) { o.closed.Add(1) }

func TestRouter_PlainRender(t *testing.T) {
	layout := func(ctx context.Context, route *LiveRoute, session core.Session, root []byte, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<html><title>%s</title>%s</html>", route.Meta["title"], root)
		return err
	}
	r := New(WithLayout(layout))
	r.Live("/counter", func() core.Component { return newCounter() }, WithMeta("title", "Counter"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/counter?start=4", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Counter</title>")
	assert.Contains(t, body, `<div id="lv-root" data-lv-path="/counter">`)
	assert.Contains(t, body, `<span data-slot="count">4</span>`)
}

func TestRouter_Render_NotFound(t *testing.T) {
	r := New()
	_, err := r.Render(context.Background(), "/missing", nil, nil)
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestRouter_Render_RecoversPanic(t *testing.T) {
	obs := &countingObserver{}
	r := New(WithObserver(obs))
	r.Live("/bad", func() core.Component { return &panicky{} })

	_, err := r.Render(context.Background(), "/bad", nil, nil)
	require.ErrorIs(t, err, ErrComponentPanic)
	assert.Equal(t, int32(1), obs.panics.Load())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_RenderCache(t *testing.T) {
	cache := &mapCache{m: make(map[string][]byte)}
	obs := &countingObserver{}
	var built atomic.Int32

	r := New(WithRenderCache(cache), WithObserver(obs))
	r.Live("/counter", func() core.Component {
		built.Add(1)
		return newCounter()
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/counter?start=1", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/counter?start=2", nil))

	assert.Equal(t, int32(2), built.Load(), "distinct queries render separately")
	assert.Equal(t, int32(2), obs.hits.Load())
	assert.Equal(t, int32(2), obs.misses.Load())
}

func TestRouter_Paths(t *testing.T) {
	r := New()
	r.Live("/", func() core.Component { return newCounter() })
	r.Live("/docs", func() core.Component { return newCounter() })

	assert.Equal(t, []string{"/", "/docs"}, r.Paths())
	route, ok := r.Route("/docs")
	require.True(t, ok)
	assert.Equal(t, "/docs", route.Path)
	_, ok = r.Route("/missing")
	assert.False(t, ok)
}

func TestCacheKey(t *testing.T) {
	a := cacheKey("/docs", core.Params{"q": "x", "category": "dom"}, core.Session{"cookie:theme": "dark"})
	b := cacheKey("/docs", core.Params{"category": "dom", "q": "x"}, core.Session{"cookie:theme": "dark"})
	c := cacheKey("/docs", core.Params{"category": "dom", "q": "x"}, core.Session{})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "/docs?category=dom&q=x|theme=dark", a)
}

func TestExtractSlots(t *testing.T) {
	html := `<div data-slot="outer"><div data-slot="inner">x</div></div>` +
		`<span data-slot="count">3</span>` +
		`<ul data-slot="list"><li>a</li><li>b</li></ul>` +
		`<p data-slot="empty"></p>`

	text, markup := extractSlots(html)

	assert.Equal(t, map[string]string{"count": "3", "empty": ""}, text)
	assert.Equal(t, map[string]string{
		"outer": `<div data-slot="inner">x</div>`,
		"list":  "<li>a</li><li>b</li>",
	}, markup)
}

func TestBuildDiffPayload(t *testing.T) {
	s := NewLiveSession("sock", &LiveRoute{Path: "/"}, nil, nil, nil)
	text, markup := extractSlots(`<span data-slot="a">1</span><span data-slot="b">2</span>`)
	s.SetSlotHashes(hashSlots(text, markup))

	d := buildDiffPayload(s, `<span data-slot="a">1</span><span data-slot="b">3</span>`)
	assert.Equal(t, map[string]string{"b": "3"}, d.Slots)
	assert.Empty(t, d.HTMLSlots)
	assert.Empty(t, d.Full)
	assert.Equal(t, uint64(1), d.Version)

	d = buildDiffPayload(s, `<span data-slot="a">1</span><span data-slot="b">3</span>`)
	assert.True(t, d.IsEmpty())
	assert.Equal(t, uint64(2), d.Version)

	d = buildDiffPayload(s, `<p>no slots</p>`)
	assert.Equal(t, `<p>no slots</p>`, d.Full)
}

func TestIsWebSocketRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, isWebSocketRequest(req))
	req.Header.Set("Upgrade", "WebSocket")
	assert.True(t, isWebSocketRequest(req))
}

// liveClient drives a live session over a real websocket.
type liveClient struct {
	t  *testing.T
	tr *transport.WebSocketTransport
	n  int

	lastTopic string
}

func dialLive(t *testing.T, srv *httptest.Server, path string) *liveClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tr, err := transport.Dial(ctx, url, transport.DefaultTransportConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return &liveClient{t: t, tr: tr}
}

func (c *liveClient) push(event string, payload map[string]any) string {
	c.t.Helper()
	c.n++
	ref := fmt.Sprint(c.n)
	require.NoError(c.t, c.tr.Send(protocol.EventMessage("lv:test", event, payload).WithRef(ref)))
	return ref
}

func (c *liveClient) next() *protocol.Message {
	c.t.Helper()
	select {
	case msg := <-c.tr.Receive():
		return msg
	case <-time.After(2 * time.Second):
		c.t.Fatal("timed out waiting for server message")
		return nil
	}
}

func (c *liveClient) reply(ref string) map[string]any {
	c.t.Helper()
	msg := c.next()
	require.Equal(c.t, protocol.EventReply, msg.Event)
	require.Equal(c.t, ref, msg.Ref)
	return msg.Payload
}

func (c *liveClient) diff() map[string]any {
	c.t.Helper()
	msg := c.next()
	require.Equal(c.t, protocol.EventDiff, msg.Event)
	c.lastTopic = msg.Topic
	return msg.Payload
}

func TestRouter_LiveSession(t *testing.T) {
	comp := newCounter()
	obs := &countingObserver{}
	r := New(WithObserver(obs))
	r.Live("/counter", func() core.Component { return comp })

	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dialLive(t, srv, "/counter?start=5")

	ref := c.push(protocol.EventJoin, nil)
	joined := c.reply(ref)
	assert.Equal(t, "ok", joined["status"])
	resp := joined["response"].(map[string]any)
	assert.Contains(t, resp["rendered"], `<span data-slot="count">5</span>`)
	assert.NotEmpty(t, resp["socket_id"])

	ref = c.push("increment", nil)
	assert.Equal(t, "ok", c.reply(ref)["status"])
	d := c.diff()
	assert.Equal(t, map[string]any{"count": "6"}, d["s"])
	assert.Equal(t, "lv:/counter", c.lastTopic, "pushes travel on the joined topic")

	// Mailbox messages scheduled by the component produce their own diff.
	ref = c.push("later", nil)
	assert.Equal(t, "ok", c.reply(ref)["status"])
	d = c.diff()
	assert.Equal(t, map[string]any{"count": "16"}, d["s"])

	ref = c.push("nope", nil)
	failed := c.reply(ref)
	assert.Equal(t, "error", failed["status"])

	ref = c.push(protocol.EventHeartbeat, nil)
	assert.Equal(t, "ok", c.reply(ref)["status"])

	assert.Equal(t, int32(1), comp.mounts.Load())
	assert.Equal(t, 1, r.SessionManager().Count())

	c.push(protocol.EventLeave, nil)
	select {
	case reason := <-comp.terminated:
		assert.Equal(t, core.TerminateNormal, reason)
	case <-time.After(2 * time.Second):
		t.Fatal("component not terminated")
	}
	require.Eventually(t, func() bool { return r.SessionManager().Count() == 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), obs.opened.Load())
	require.Eventually(t, func() bool { return obs.closed.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestRouter_LiveSession_PanicKeepsSocketOpen(t *testing.T) {
	r := New()
	r.Live("/counter", func() core.Component { return newCounter() })
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dialLive(t, srv, "/counter")
	c.reply(c.push(protocol.EventJoin, nil))

	failed := c.reply(c.push("boom", nil))
	assert.Equal(t, "error", failed["status"])
	reason := failed["response"].(map[string]any)["reason"].(string)
	assert.True(t, strings.Contains(reason, ErrComponentPanic.Error()))

	ok := c.reply(c.push("increment", nil))
	assert.Equal(t, "ok", ok["status"])
}

func TestRouter_LiveSession_RateLimited(t *testing.T) {
	r := New(WithEventLimit(0.001, 1))
	r.Live("/counter", func() core.Component { return newCounter() })
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dialLive(t, srv, "/counter")
	c.reply(c.push(protocol.EventJoin, nil))

	assert.Equal(t, "ok", c.reply(c.push("increment", nil))["status"])
	c.diff()

	limited := c.reply(c.push("increment", nil))
	assert.Equal(t, "error", limited["status"])
	assert.Equal(t, ErrRateLimited.Error(), limited["response"].(map[string]any)["reason"])

	// The socket stays usable for heartbeats.
	assert.Equal(t, "ok", c.reply(c.push(protocol.EventHeartbeat, nil))["status"])
}

func TestRouter_LiveSession_EventBeforeJoin(t *testing.T) {
	r := New()
	r.Live("/counter", func() core.Component { return newCounter() })
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dialLive(t, srv, "/counter")
	assert.Equal(t, "error", c.reply(c.push("increment", nil))["status"])
}

func TestRouter_Shutdown(t *testing.T) {
	comp := newCounter()
	r := New()
	r.Live("/counter", func() core.Component { return comp })
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dialLive(t, srv, "/counter")
	c.reply(c.push(protocol.EventJoin, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Shutdown(ctx))

	select {
	case reason := <-comp.terminated:
		assert.Equal(t, core.TerminateShutdown, reason)
	case <-time.After(2 * time.Second):
		t.Fatal("component not terminated on shutdown")
	}

	// New live sessions are refused once shutting down.
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/counter"
	dctx, dcancel := context.WithTimeout(context.Background(), time.Second)
	defer dcancel()
	_, err := transport.Dial(dctx, url, transport.DefaultTransportConfig(), nil)
	assert.Error(t, err)
}

func TestRouter_ConnectionLimit(t *testing.T) {
	var events audit.Memory
	r := New(WithConnectionLimit(1), WithAuditor(&events))
	r.Live("/counter", func() core.Component { return newCounter() })
	srv := httptest.NewServer(r)
	defer srv.Close()

	first := dialLive(t, srv, "/counter")
	first.reply(first.push(protocol.EventJoin, nil))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/counter"
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := transport.Dial(ctx, url, transport.DefaultTransportConfig(), nil)
	assert.Error(t, err)

	recorded := events.Events()
	require.Len(t, recorded, 1)
	assert.Equal(t, audit.EventConnectionLimit, recorded[0].Type)
	assert.Equal(t, "/counter", recorded[0].Path)
}

func TestRouter_OriginBlocked(t *testing.T) {
	var events audit.Memory
	r := New(WithAuditor(&events))
	r.Live("/counter", func() core.Component { return newCounter() })

	req := httptest.NewRequest(http.MethodGet, "http://onekit.test/counter", nil)
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	recorded := events.Events()
	require.Len(t, recorded, 1)
	assert.Equal(t, audit.EventOriginBlocked, recorded[0].Type)
	assert.Equal(t, "https://evil.example", recorded[0].Details["origin"])
	assert.Equal(t, 0, r.SessionManager().Count())
}

func TestRouter_UnknownCodec(t *testing.T) {
	r := New()
	r.Live("/counter", func() core.Component { return newCounter() })

	req := httptest.NewRequest(http.MethodGet, "/counter?vsn=xml", nil)
	req.Header.Set("Upgrade", "websocket")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSafeCall(t *testing.T) {
	r := New()
	err := r.safeCall(func() error { return errors.New("plain") })
	assert.EqualError(t, err, "plain")

	err = r.safeCall(func() error { panic("x") })
	assert.ErrorIs(t, err, ErrComponentPanic)
}
