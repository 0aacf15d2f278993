package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/onekit-js/onekit-site/internal/config"
	"github.com/onekit-js/onekit-site/internal/export"
	"github.com/onekit-js/onekit-site/internal/server"
	"github.com/onekit-js/onekit-site/pkg/logging"
)

type exportOptions struct {
	out         string
	baseURL     string
	markdown    bool
	concurrency int
}

// NewExportCmd creates the export command.
func NewExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the site as static files",
		Long: `Render every page, plus one page per usage category and per tutorial,
to static HTML under --out. sitemap.xml, robots.txt, llms.txt and the
assets the pages reference are written alongside. With --markdown each
page is also written as Markdown.

Files are replaced atomically, so an interrupted export never leaves a
half-written page behind.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("base-url") {
				cfg.Server.BaseURL = opts.baseURL
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			configureLogging(cmd, cfg)

			res, err := runExport(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files to %s in %s\n", len(res.Files), opts.out, res.Duration.Round(time.Millisecond))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", "", "output directory (required)")
	f.StringVar(&opts.baseURL, "base-url", "", "public base URL for canonical links and the sitemap")
	f.BoolVar(&opts.markdown, "markdown", false, "also write one Markdown file per page")
	f.IntVarP(&opts.concurrency, "concurrency", "j", 0, "pages rendered at once (default GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(ctx context.Context, cfg *config.Config, opts *exportOptions) (*export.Result, error) {
	// Exports render directly; the page cache would only hold copies.
	cfg.Cache.Enabled = false

	srv, err := server.New(cfg, server.Options{
		Version: getVersion(),
		Logger:  logging.WithComponent("server"),
	})
	if err != nil {
		return nil, err
	}

	res, err := export.New(srv.Router(), srv.Store().Current(), export.Options{
		Dir:         opts.out,
		BaseURL:     cfg.Server.BaseURL,
		Markdown:    opts.markdown,
		Concurrency: opts.concurrency,
		Logger:      logging.WithComponent("export"),
		Observer:    srv.Metrics(),
	}).Export(ctx)

	return res, errors.Join(err, srv.Shutdown(context.Background()))
}
