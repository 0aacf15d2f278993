// Package server assembles the site: live pages, static assets, crawler
// indexes, search, health and metrics behind one chi router.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/onekit-js/onekit-site/internal/config"
	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/playground"
	"github.com/onekit-js/onekit-site/internal/website/pages"
	"github.com/onekit-js/onekit-site/pkg/audit"
	"github.com/onekit-js/onekit-site/pkg/core"
	"github.com/onekit-js/onekit-site/pkg/health"
	"github.com/onekit-js/onekit-site/pkg/logging"
	"github.com/onekit-js/onekit-site/pkg/metrics"
	"github.com/onekit-js/onekit-site/pkg/router"
	"github.com/onekit-js/onekit-site/pkg/security"
	"github.com/onekit-js/onekit-site/pkg/shutdown"
	"github.com/onekit-js/onekit-site/pkg/tracing"
	"github.com/onekit-js/onekit-site/pkg/transport"
)

// ServiceName labels metrics, traces and logs.
const ServiceName = "onekit-site"

// Options supplies the collaborators New does not build from config.
type Options struct {
	Version string
	Logger  logging.Logger

	// Registry receives the Prometheus collectors. Nil uses a fresh one.
	Registry *prometheus.Registry

	// Store overrides the content source chosen by config.
	Store *content.Store

	// Auditor records refused requests. Nil logs them through Logger.
	Auditor audit.Logger
}

// Server is the assembled site.
type Server struct {
	cfg     *config.Config
	version string
	log     logging.Logger

	store   *content.Store
	metrics *metrics.Metrics
	runner  *playground.Runner
	cache   *PageCache
	live    *router.Router
	health  *health.Checker
	audit   audit.Logger

	handler  http.Handler
	http     *http.Server
	reloads  chan *content.Content
	draining atomic.Bool
}

// New builds the server from cfg. Nothing runs until Serve.
func New(cfg *config.Config, opts Options) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = logging.WithComponent("server")
	}

	store := opts.Store
	if store == nil {
		var err error
		store, err = content.Open(cfg.Content.Dir, log.With(logging.String("component", "content")))
		if err != nil {
			return nil, err
		}
	}

	s := &Server{
		cfg:     cfg,
		version: opts.Version,
		log:     log,
		store:   store,
		metrics: metrics.New("onekit", opts.Registry),
		reloads: make(chan *content.Content, 1),
		audit:   opts.Auditor,
	}
	if s.audit == nil {
		s.audit = audit.New(log.With(logging.String("component", "audit")))
	}

	s.runner = playground.NewRunner(
		func(id string) (string, bool) {
			ex, ok := s.store.Current().Playground.Example(id)
			return ex.Expected, ok
		},
		playground.WithDelay(cfg.Site.RunDelay),
		playground.WithRunsPerMinute(cfg.Site.RunsPerMinute),
		playground.WithObserver(s.metrics),
		playground.WithLogger(log.With(logging.String("component", "playground"))),
	)

	if cfg.Cache.Enabled && !cfg.Server.DevMode {
		cache, err := NewPageCache(cfg.Cache.MaxCost, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}

	deps := &pages.Deps{
		Store:     store,
		Runner:    s.runner,
		CopyReset: cfg.Site.CopyResetDelay,
		BaseURL:   cfg.Server.BaseURL,
		Observer:  s.metrics,
		Log:       log.With(logging.String("component", "pages")),
	}
	s.live = router.New(s.routerOptions(deps)...)
	pages.Register(s.live, deps)

	store.Observe(s.metrics)
	store.Subscribe(s.reloads)

	s.health = health.NewChecker(opts.Version)
	s.health.AddCriticalCheck("draining", health.DrainCheck(s.draining.Load), time.Second)
	s.health.AddCriticalCheck("content", health.ContentCheck(func() error {
		if s.store.Current() == nil {
			return errors.New("no content loaded")
		}
		return nil
	}), time.Second)
	s.health.AddCheck("live_capacity", health.CapacityCheck(s.live.SessionManager().Count, cfg.Live.MaxSessions), time.Second)

	s.handler = s.routes()
	s.http = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	return s, nil
}

func (s *Server) routerOptions(deps *pages.Deps) []router.Option {
	live := s.cfg.Live

	timeouts := core.DefaultTimeoutConfig()
	timeouts.WebSocketRead = live.HeartbeatTimeout
	timeouts.SessionCleanup = live.IdleTimeout

	tc := transport.DefaultTransportConfig()
	tc.ReadTimeout = live.HeartbeatTimeout
	tc.Logger = s.log.With(logging.String("component", "transport"))

	opts := []router.Option{
		router.WithLogger(s.log.With(logging.String("component", "router"))),
		router.WithLayout(pages.Layout(deps)),
		router.WithTimeouts(timeouts.Validate()),
		router.WithTransportConfig(tc),
		router.WithWebSocketConfig(&transport.WebSocketConfig{
			AllowedOrigins:  s.cfg.Server.AllowedOrigins,
			InsecureDevMode: s.cfg.Server.DevMode,
		}),
		router.WithEventLimit(live.EventsPerSecond, live.EventBurst),
		router.WithConnectionLimit(live.MaxConnsPerIP),
		router.WithObserver(s.metrics),
		router.WithAuditor(s.audit),
	}
	if s.cache != nil {
		opts = append(opts, router.WithRenderCache(s.cache))
	}
	return opts
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.log))
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.metrics.Middleware)
	r.Use(tracing.Middleware(ServiceName))

	r.Get("/healthz", s.health.LivenessHandler().ServeHTTP)
	r.Get("/readyz", s.health.ReadinessHandler().ServeHTTP)
	r.Handle("/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(rateLimit(s.cfg.RateLimit.Requests, s.cfg.RateLimit.Window, s.audit))

		r.Get("/live/client.js", s.handleScript)
		r.Get("/assets/site.css", s.handleStylesheet)
		r.Get("/robots.txt", s.handleRobots)
		r.Get("/sitemap.xml", s.handleSitemap)
		r.Get("/llms.txt", s.handleLLMs)
		r.Get("/api/search", s.handleSearch)
		r.Mount("/", s.live)
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Router returns the live page router.
func (s *Server) Router() *router.Router { return s.live }

// Store returns the content store.
func (s *Server) Store() *content.Store { return s.store }

// Metrics returns the server's collectors.
func (s *Server) Metrics() *metrics.Metrics { return s.metrics }

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until the HTTP server is shut down or ctx
// is cancelled. Background work (content watching, reload broadcasts, idle
// socket sweeps) runs for as long as Serve does.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.reloadLoop(gctx)
		return nil
	})
	g.Go(func() error {
		s.sweepLoop(gctx)
		return nil
	})
	if s.cfg.Content.Watch && s.cfg.Content.Dir != "" {
		g.Go(func() error {
			return s.store.Watch(gctx, s.cfg.Content.Dir, s.cfg.Content.Debounce)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer scancel()
		return s.http.Shutdown(sctx)
	})

	s.log.Info("server listening",
		logging.Event("server.start"),
		logging.String("addr", ln.Addr().String()),
		logging.String("version", s.version),
	)

	err := s.http.Serve(ln)
	cancel()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return errors.Join(err, g.Wait())
}

func (s *Server) reloadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-s.reloads:
			if s.cache != nil {
				s.cache.Clear()
			}
			n := s.live.Broadcast("reload", map[string]any{"version": c.Site.Version})
			s.log.Info("content reload broadcast",
				logging.Event("content.broadcast"),
				logging.Int("sockets", n),
			)
		}
	}
}

func (s *Server) sweepLoop(ctx context.Context) {
	interval := s.cfg.Live.IdleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.live.Sweep(); n > 0 {
				s.log.Debug("idle sockets closed", logging.Event("live.sweep"), logging.Int("closed", n))
			}
		}
	}
}

// RegisterShutdown adds the server's hooks to h: stop accepting requests,
// close live sessions and wait for playground runs, then release the cache.
func (s *Server) RegisterShutdown(h *shutdown.Handler) {
	h.Register("http", shutdown.PriorityHTTP, func(ctx context.Context) error {
		s.draining.Store(true)
		return s.http.Shutdown(ctx)
	})
	h.Register("live", shutdown.PriorityLive, func(ctx context.Context) error {
		err := s.live.Shutdown(ctx)
		s.runner.Wait()
		return err
	})
	h.Register("cache", shutdown.PriorityCache, func(context.Context) error {
		if s.cache != nil {
			s.cache.Close()
		}
		return nil
	})
}

// Shutdown runs the server's hooks directly, for callers without a
// shutdown.Handler of their own.
func (s *Server) Shutdown(ctx context.Context) error {
	h := shutdown.NewHandler(shutdown.Config{Timeout: s.cfg.Server.ShutdownTimeout, Logger: s.log})
	s.RegisterShutdown(h)
	return h.Shutdown(ctx)
}
