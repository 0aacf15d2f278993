// Package router serves live components over HTTP: a plain GET renders the
// page on the server, a websocket GET on the same path attaches a live
// session that receives events and pushes slot diffs.
package router

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/onekit-js/onekit-site/pkg/audit"
	"github.com/onekit-js/onekit-site/pkg/core"
	"github.com/onekit-js/onekit-site/pkg/limits"
	"github.com/onekit-js/onekit-site/pkg/logging"
	"github.com/onekit-js/onekit-site/pkg/pool"
	"github.com/onekit-js/onekit-site/pkg/protocol"
	"github.com/onekit-js/onekit-site/pkg/transport"
)

// Common router errors.
var (
	ErrRouteNotFound  = errors.New("route not found")
	ErrNilRenderer    = errors.New("component returned nil renderer")
	ErrComponentPanic = errors.New("component panicked")
	ErrRateLimited    = errors.New("too many events")
	ErrShuttingDown   = errors.New("server shutting down")
)

const tracerName = "github.com/onekit-js/onekit-site/pkg/router"

// Router handles HTTP routing for live components.
type Router struct {
	mux          chi.Router
	liveRoutes   map[string]*LiveRoute
	paths        []string
	layout       Layout
	cache        RenderCache
	errorHandler ErrorHandler

	sessionManager *SessionManager
	socketManager  *core.SocketManager
	codecs         *protocol.CodecRegistry

	timeouts  core.TimeoutConfig
	tconfig   *transport.TransportConfig
	wsConfig  *transport.WebSocketConfig
	limiter   *limits.KeyedLimiter
	conns     *limits.ConnectionLimiter
	observer  Observer
	auditor   audit.Logger
	log       logging.Logger
	tracer    trace.Tracer
	baseCtx   context.Context
	cancelAll context.CancelFunc
	closing   atomic.Bool

	mu sync.RWMutex
}

// LiveRoute defines a route that renders a live component.
type LiveRoute struct {
	// Path is the URL path.
	Path string

	// Component is the factory function for creating the component.
	Component func() core.Component

	// Middleware are route-specific middleware.
	Middleware []Middleware

	// Meta contains route metadata such as title and description.
	Meta map[string]string
}

// Middleware is a function that wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// ErrorHandler handles errors during request processing.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Layout wraps a rendered live root into a full HTML document.
type Layout func(ctx context.Context, route *LiveRoute, session core.Session, root []byte, w io.Writer) error

// RenderCache stores complete server-side renders.
type RenderCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// Observer receives live runtime measurements.
type Observer interface {
	ConnectionOpened()
	ConnectionClosed(reason core.TerminateReason)
	EventHandled(event string, d time.Duration, err error)
	Rendered(d time.Duration, diffBytes int)
	Panicked()
	CacheLookup(hit bool)
}

type nopObserver struct{}

func (nopObserver) ConnectionOpened()                         {}
func (nopObserver) ConnectionClosed(core.TerminateReason)     {}
func (nopObserver) EventHandled(string, time.Duration, error) {}
func (nopObserver) Rendered(time.Duration, int)               {}
func (nopObserver) Panicked()                                 {}
func (nopObserver) CacheLookup(bool)                          {}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Router) { r.log = l }
}

// WithLayout sets the document layout used for plain HTTP renders.
func WithLayout(l Layout) Option {
	return func(r *Router) { r.layout = l }
}

// WithRenderCache enables caching of plain HTTP renders.
func WithRenderCache(c RenderCache) Option {
	return func(r *Router) { r.cache = c }
}

// WithTimeouts sets live session timeouts.
func WithTimeouts(t core.TimeoutConfig) Option {
	return func(r *Router) { r.timeouts = t.Validate() }
}

// WithWebSocketConfig sets websocket origin policy.
func WithWebSocketConfig(c *transport.WebSocketConfig) Option {
	return func(r *Router) { r.wsConfig = c }
}

// WithTransportConfig sets websocket buffer and timeout settings.
func WithTransportConfig(c *transport.TransportConfig) Option {
	return func(r *Router) { r.tconfig = c }
}

// WithEventLimit limits user events per socket.
func WithEventLimit(perSecond float64, burst int) Option {
	return func(r *Router) { r.limiter = limits.NewKeyedLimiter(perSecond, burst) }
}

// WithConnectionLimit caps concurrent live sessions per client IP.
func WithConnectionLimit(maxPerIP int) Option {
	return func(r *Router) { r.conns = limits.NewConnectionLimiter(maxPerIP) }
}

// WithObserver registers a measurement sink.
func WithObserver(o Observer) Option {
	return func(r *Router) { r.observer = o }
}

// WithAuditor sets where refused websocket upgrades are recorded.
func WithAuditor(a audit.Logger) Option {
	return func(r *Router) { r.auditor = a }
}

// WithErrorHandler sets the handler for plain HTTP render errors.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Router) { r.errorHandler = h }
}

// New creates a new router.
func New(opts ...Option) *Router {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Router{
		mux:            chi.NewRouter(),
		liveRoutes:     make(map[string]*LiveRoute),
		sessionManager: NewSessionManager(),
		socketManager:  core.NewSocketManager(),
		codecs:         protocol.NewCodecRegistry(),
		timeouts:       core.DefaultTimeoutConfig(),
		tconfig:        transport.DefaultTransportConfig(),
		wsConfig:       transport.DefaultWebSocketConfig(),
		limiter:        limits.NewKeyedLimiter(20, 40),
		observer:       nopObserver{},
		auditor:        audit.Nop{},
		log:            logging.NopLogger{},
		tracer:         otel.Tracer(tracerName),
		baseCtx:        ctx,
		cancelAll:      cancel,
		errorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		},
	}
	r.layout = bareLayout

	for _, opt := range opts {
		opt(r)
	}
	if r.tconfig.Logger == nil {
		tc := *r.tconfig
		tc.Logger = r.log.With(logging.String("component", "transport"))
		r.tconfig = &tc
	}
	return r
}

func bareLayout(_ context.Context, _ *LiveRoute, _ core.Session, root []byte, w io.Writer) error {
	_, err := w.Write(root)
	return err
}

// Mux returns the underlying chi router for non-live handlers.
func (r *Router) Mux() chi.Router {
	return r.mux
}

// SessionManager returns the session manager.
func (r *Router) SessionManager() *SessionManager {
	return r.sessionManager
}

// SocketManager returns the socket manager.
func (r *Router) SocketManager() *core.SocketManager {
	return r.socketManager
}

// Live registers a live route.
func (r *Router) Live(path string, component func() core.Component, opts ...RouteOption) {
	route := &LiveRoute{
		Path:       path,
		Component:  component,
		Middleware: make([]Middleware, 0),
		Meta:       make(map[string]string),
	}

	for _, opt := range opts {
		opt(route)
	}

	r.mu.Lock()
	r.liveRoutes[path] = route
	r.paths = append(r.paths, path)
	r.mu.Unlock()

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.renderLive(w, req, route)
	})
	for i := len(route.Middleware) - 1; i >= 0; i-- {
		h = route.Middleware[i](h)
	}
	r.mux.Method(http.MethodGet, path, h)
}

// Route returns a registered live route.
func (r *Router) Route(path string) (*LiveRoute, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, ok := r.liveRoutes[path]
	return route, ok
}

// Paths returns the registered live paths in registration order.
func (r *Router) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// renderLive renders a live route or attaches a live session.
func (r *Router) renderLive(w http.ResponseWriter, req *http.Request, route *LiveRoute) {
	if isWebSocketRequest(req) {
		r.handleWebSocket(w, req, route)
		return
	}

	params := extractParams(req.URL.Query())
	session := extractSession(req)

	key := cacheKey(route.Path, params, session)
	if r.cache != nil {
		if page, ok := r.cache.Get(key); ok {
			r.observer.CacheLookup(true)
			writeHTML(w, page)
			return
		}
		r.observer.CacheLookup(false)
	}

	page, err := r.Render(req.Context(), route.Path, params, session)
	if err != nil {
		logging.L(req.Context()).Error("live render failed",
			logging.String("path", route.Path),
			logging.Err(err),
		)
		r.errorHandler(w, req, err)
		return
	}

	if r.cache != nil {
		r.cache.Set(key, page)
	}
	writeHTML(w, page)
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// Render mounts a fresh component for path and renders the full document.
// It is used by plain HTTP requests and by static export.
func (r *Router) Render(ctx context.Context, path string, params core.Params, session core.Session) ([]byte, error) {
	route, ok := r.Route(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
	}
	if params == nil {
		params = core.Params{}
	}
	if session == nil {
		session = core.Session{}
	}

	component := route.Component()

	mountCtx, cancel := context.WithTimeout(ctx, r.timeouts.ComponentMount)
	err := r.safeCall(func() error {
		return component.Mount(mountCtx, params, session)
	})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("mount %s: %w", path, err)
	}
	defer component.Terminate(ctx, core.TerminateNormal)

	body := pool.GetBuffer()
	defer pool.PutBuffer(body)
	if err := r.renderComponent(ctx, component, body); err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}

	root := pool.GetBuffer()
	defer pool.PutBuffer(root)
	writeLiveRoot(root, route.Path, body.Bytes())

	var page bytes.Buffer
	if err := r.layout(ctx, route, session, root.Bytes(), &page); err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return page.Bytes(), nil
}

// Topic is the channel topic a client joins for the page at path.
func Topic(path string) string {
	return "lv:" + path
}

// writeLiveRoot wraps component output in the element the client attaches to.
func writeLiveRoot(w *bytes.Buffer, path string, body []byte) {
	w.WriteString(`<div id="lv-root" data-lv-path="`)
	w.WriteString(escapeAttr(path))
	w.WriteString(`">`)
	w.Write(body)
	w.WriteString(`</div>`)
}

func escapeAttr(s string) string {
	return strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;").Replace(s)
}

func (r *Router) renderComponent(ctx context.Context, component core.Component, w io.Writer) error {
	return r.safeCall(func() error {
		renderer := component.Render(ctx)
		if renderer == nil {
			return ErrNilRenderer
		}
		return renderer.Render(ctx, w)
	})
}

// safeCall runs fn and converts a panic into ErrComponentPanic.
func (r *Router) safeCall(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.observer.Panicked()
			r.log.Error("component panic recovered",
				logging.Event("live.panic"),
				logging.Any("panic", p),
				logging.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("%w: %v", ErrComponentPanic, p)
		}
	}()
	return fn()
}

// handleWebSocket attaches a live session to the route's component.
func (r *Router) handleWebSocket(w http.ResponseWriter, req *http.Request, route *LiveRoute) {
	if r.closing.Load() {
		http.Error(w, ErrShuttingDown.Error(), http.StatusServiceUnavailable)
		return
	}

	query := req.URL.Query()
	codec, err := r.codecs.Negotiate(query.Get("vsn"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	query.Del("vsn")

	ip := limits.ClientIP(req)
	if r.conns != nil && !r.conns.Acquire(ip) {
		audit.ConnectionLimited(r.auditor, req, ip)
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}

	ws := transport.NewWebSocketTransport(r.tconfig, r.wsConfig, codec)
	if err := ws.Upgrade(w, req); err != nil {
		r.releaseConn(ip)
		if errors.Is(err, transport.ErrOriginNotAllowed) {
			audit.OriginBlocked(r.auditor, req, ip)
		}
		r.log.Warn("websocket upgrade failed",
			logging.String("path", route.Path),
			logging.Err(err),
		)
		return
	}

	socketID := uuid.NewString()
	socket := core.NewSocket(socketID, NewTransportAdapter(ws))
	socket.SetTopic(Topic(route.Path))
	if err := r.socketManager.Add(socket); err != nil {
		r.releaseConn(ip)
		_ = socket.Close()
		return
	}

	component := route.Component()
	if bc, ok := component.(interface{ SetSocket(*core.Socket) }); ok {
		bc.SetSocket(socket)
	}

	params := extractParams(query)
	session := extractSession(req)

	ctx, cancel := context.WithCancel(r.baseCtx)
	lv := r.sessionManager.Create(socketID, route, component, params, session)
	lv.Transport = ws
	lv.Socket = socket
	lv.cancel = cancel
	lv.clientIP = ip

	r.observer.ConnectionOpened()
	r.log.Debug("live session opened",
		logging.Event("live.connect"),
		logging.String("socket_id", socketID),
		logging.String("path", route.Path),
		logging.String("codec", codec.Name()),
	)

	go r.messageLoop(ctx, lv)
}

// messageLoop serialises everything that touches the component: inbound
// client messages, mailbox messages, and termination.
func (r *Router) messageLoop(ctx context.Context, s *LiveSession) {
	defer r.handleDisconnect(s)

	recvCh := s.Transport.Receive()
	infoCh := s.Socket.Info()

	for {
		select {
		case msg := <-recvCh:
			s.Socket.UpdateActivity()

			switch msg.Type {
			case protocol.MsgHeartbeat:
				r.sendReply(s, msg.Ref, msg.Topic, nil)

			case protocol.MsgJoin:
				r.handleJoin(ctx, s, msg)

			case protocol.MsgLeave:
				s.setReason(core.TerminateNormal)
				return

			default:
				r.handleEvent(ctx, s, msg)
			}

		case info := <-infoCh:
			r.handleInfo(ctx, s, info)

		case <-s.Transport.Done():
			return

		case <-ctx.Done():
			return
		}
	}
}

// handleJoin mounts the component and replies with the current render.
func (r *Router) handleJoin(ctx context.Context, s *LiveSession, msg *protocol.Message) {
	s.SetJoinRef(msg.Ref)

	if !s.IsMounted() {
		mountCtx, cancel := context.WithTimeout(ctx, r.timeouts.ComponentMount)
		err := r.safeCall(func() error {
			return s.Component.Mount(mountCtx, s.Params, s.Session)
		})
		cancel()
		if err != nil {
			r.sendError(s, msg.Ref, msg.Topic, err)
			return
		}
		s.SetMounted(true)
	}

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	if err := r.renderComponent(ctx, s.Component, buf); err != nil {
		r.sendError(s, msg.Ref, msg.Topic, err)
		return
	}

	html := buf.String()
	textSlots, htmlSlots := extractSlots(html)
	s.SetSlotHashes(hashSlots(textSlots, htmlSlots))

	r.sendReply(s, msg.Ref, msg.Topic, map[string]any{
		"rendered":  html,
		"socket_id": s.SocketID,
	})
}

// handleEvent dispatches a user event, replies, and pushes the resulting diff.
func (r *Router) handleEvent(ctx context.Context, s *LiveSession, msg *protocol.Message) {
	if !s.IsMounted() {
		r.sendError(s, msg.Ref, msg.Topic, errors.New("event before join"))
		return
	}
	if !r.limiter.Allow(s.SocketID) {
		r.observer.EventHandled(msg.Event, 0, ErrRateLimited)
		r.sendError(s, msg.Ref, msg.Topic, ErrRateLimited)
		return
	}

	payload := msg.Payload
	if payload == nil {
		payload = make(map[string]any)
	}

	ctx, span := r.tracer.Start(ctx, "live.event",
		trace.WithAttributes(
			attribute.String("live.path", s.Route.Path),
			attribute.String("live.event", msg.Event),
		),
	)
	defer span.End()

	start := time.Now()
	evCtx, cancel := context.WithTimeout(ctx, r.timeouts.ComponentEvent)
	err := r.safeCall(func() error {
		return s.Component.HandleEvent(evCtx, msg.Event, payload)
	})
	cancel()
	r.observer.EventHandled(msg.Event, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.log.Debug("live event failed",
			logging.String("socket_id", s.SocketID),
			logging.String("event", msg.Event),
			logging.Err(err),
		)
		r.sendError(s, msg.Ref, msg.Topic, err)
		return
	}

	r.sendReply(s, msg.Ref, msg.Topic, nil)
	r.renderAndSendDiff(ctx, s)
}

// handleInfo dispatches a mailbox message and pushes the resulting diff.
func (r *Router) handleInfo(ctx context.Context, s *LiveSession, info any) {
	if !s.IsMounted() {
		return
	}

	evCtx, cancel := context.WithTimeout(ctx, r.timeouts.ComponentEvent)
	err := r.safeCall(func() error {
		return s.Component.HandleInfo(evCtx, info)
	})
	cancel()
	if err != nil {
		r.log.Warn("live info handler failed",
			logging.String("socket_id", s.SocketID),
			logging.String("info", fmt.Sprintf("%T", info)),
			logging.Err(err),
		)
		return
	}
	r.renderAndSendDiff(ctx, s)
}

// renderAndSendDiff renders the component and sends only the changed slots.
func (r *Router) renderAndSendDiff(ctx context.Context, s *LiveSession) {
	start := time.Now()

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	if err := r.renderComponent(ctx, s.Component, buf); err != nil {
		r.log.Error("live render failed",
			logging.String("socket_id", s.SocketID),
			logging.Err(err),
		)
		return
	}

	payload := buildDiffPayload(s, buf.String())
	r.observer.Rendered(time.Since(start), payload.Size())

	if payload.IsEmpty() {
		return
	}
	if err := s.Socket.SendDiff(payload); err != nil && !errors.Is(err, core.ErrSocketClosed) {
		r.log.Warn("diff send failed",
			logging.String("socket_id", s.SocketID),
			logging.Err(err),
		)
	}
}

// handleDisconnect tears the session down exactly once.
func (r *Router) handleDisconnect(s *LiveSession) {
	reason := s.reason()
	if r.closing.Load() {
		reason = core.TerminateShutdown
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeouts.ComponentEvent)
	_ = r.safeCall(func() error {
		return s.Component.Terminate(ctx, reason)
	})
	cancel()

	if s.cancel != nil {
		s.cancel()
	}

	r.sessionManager.Remove(s.ID)
	r.socketManager.Remove(s.SocketID)
	r.limiter.Forget(s.SocketID)
	r.releaseConn(s.clientIP)
	_ = s.Socket.Close()

	r.observer.ConnectionClosed(reason)
	r.log.Debug("live session closed",
		logging.Event("live.disconnect"),
		logging.String("socket_id", s.SocketID),
		logging.String("reason", reason.String()),
	)
}

func (r *Router) releaseConn(ip string) {
	if r.conns != nil {
		r.conns.Release(ip)
	}
}

// Sweep closes sockets idle for longer than the session cleanup timeout
// and drops stale rate limiter buckets.
func (r *Router) Sweep() int {
	n := r.socketManager.CleanupInactive(r.timeouts.SessionCleanup)
	r.limiter.Prune(r.timeouts.SessionCleanup)
	return n
}

// Broadcast pushes a client event to every live socket.
func (r *Router) Broadcast(event string, payload map[string]any) int {
	return r.socketManager.Broadcast(event, payload)
}

// Shutdown refuses new sessions and closes the open ones. Components see
// TerminateShutdown.
func (r *Router) Shutdown(ctx context.Context) error {
	r.closing.Store(true)
	err := r.socketManager.Shutdown(ctx)
	r.cancelAll()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for r.sessionManager.Count() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return err
}

// sendReply sends an ok reply to the client.
func (r *Router) sendReply(s *LiveSession, ref, topic string, response map[string]any) {
	if response == nil {
		response = map[string]any{}
	}
	if err := s.Transport.Send(protocol.OkReply(ref, topic, response)); err != nil {
		r.log.Debug("reply send failed", logging.Err(err))
	}
}

// sendError sends an error reply to the client.
func (r *Router) sendError(s *LiveSession, ref, topic string, err error) {
	if sendErr := s.Transport.Send(protocol.ErrorReply(ref, topic, err.Error())); sendErr != nil {
		r.log.Debug("error reply send failed", logging.Err(sendErr))
	}
}

// extractSession extracts session data from the request cookies.
func extractSession(req *http.Request) core.Session {
	session := make(core.Session)
	for _, cookie := range req.Cookies() {
		session["cookie:"+cookie.Name] = cookie.Value
	}
	return session
}

// extractParams extracts the first value of each query parameter.
func extractParams(query url.Values) core.Params {
	params := make(core.Params, len(query))
	for key, values := range query {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

// cacheKey identifies a plain render: path, sorted params, and the cookies
// that influence output.
func cacheKey(path string, params core.Params, session core.Session) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(path)
	for i, k := range keys {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	b.WriteString("|theme=")
	b.WriteString(session.GetString("cookie:theme"))
	return b.String()
}

// isWebSocketRequest checks if this is a WebSocket upgrade request.
func isWebSocketRequest(req *http.Request) bool {
	return strings.Contains(strings.ToLower(req.Header.Get("Upgrade")), "websocket")
}

// RouteOption configures a LiveRoute.
type RouteOption func(*LiveRoute)

// WithRouteMiddleware adds middleware to the route.
func WithRouteMiddleware(mw ...Middleware) RouteOption {
	return func(r *LiveRoute) {
		r.Middleware = append(r.Middleware, mw...)
	}
}

// WithMeta adds metadata to the route.
func WithMeta(key, value string) RouteOption {
	return func(r *LiveRoute) {
		r.Meta[key] = value
	}
}
