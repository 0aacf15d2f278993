package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/onekit-js/onekit-site/internal/config"
	"github.com/onekit-js/onekit-site/internal/server"
	"github.com/onekit-js/onekit-site/pkg/logging"
	"github.com/onekit-js/onekit-site/pkg/shutdown"
	"github.com/onekit-js/onekit-site/pkg/tracing"
)

type serveOptions struct {
	addr       string
	baseURL    string
	contentDir string
	watch      bool
	dev        bool
}

// NewServeCmd creates the serve command.
func NewServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the site server",
		Long: `Run the HTTP server. Pages render on the server and stay live over a
websocket. SIGINT or SIGTERM drains requests, closes live sessions, and
flushes traces before exiting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}
			configureLogging(cmd, cfg)
			return runServe(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", "", "listen address (overrides server.addr)")
	f.StringVar(&opts.baseURL, "base-url", "", "public base URL (overrides server.base_url)")
	f.StringVar(&opts.contentDir, "content-dir", "", "serve content from this directory instead of the embedded copy")
	f.BoolVar(&opts.watch, "watch", false, "reload content when files in --content-dir change")
	f.BoolVar(&opts.dev, "dev", false, "development mode: no page cache, any websocket origin")

	return cmd
}

// apply overrides cfg with the flags that were set and revalidates it.
func (o *serveOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.Server.Addr = o.addr
	}
	if f.Changed("base-url") {
		cfg.Server.BaseURL = o.baseURL
	}
	if f.Changed("content-dir") {
		cfg.Content.Dir = o.contentDir
	}
	if f.Changed("watch") {
		cfg.Content.Watch = o.watch
	}
	if f.Changed("dev") {
		cfg.Server.DevMode = o.dev
	}
	return cfg.Validate()
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := logging.WithComponent("serve")

	tp, err := tracing.NewProvider(ctx, tracing.Config{
		Exporter:       cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SampleRatio:    cfg.Telemetry.SampleRatio,
		ServiceName:    server.ServiceName,
		ServiceVersion: getVersion(),
		Environment:    cfg.Telemetry.Environment,
	})
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, server.Options{
		Version: getVersion(),
		Logger:  logging.WithComponent("server"),
	})
	if err != nil {
		_ = tp.Shutdown(context.Background())
		return err
	}

	h := shutdown.NewHandler(shutdown.Config{Timeout: cfg.Server.ShutdownTimeout, Logger: log})
	srv.RegisterShutdown(h)
	h.Register("tracing", shutdown.PriorityTracing, tp.Shutdown)

	served := make(chan error, 1)
	go func() { served <- srv.ListenAndServe(ctx) }()
	waited := make(chan error, 1)
	go func() { waited <- h.Wait(ctx) }()

	select {
	case err := <-served:
		// The listener failed or ctx ended; run the hooks ourselves.
		serr := h.Shutdown(context.Background())
		if errors.Is(serr, shutdown.ErrAlreadyClosed) {
			serr = nil
		}
		<-waited
		return errors.Join(err, serr)
	case err := <-waited:
		return errors.Join(err, <-served)
	}
}
