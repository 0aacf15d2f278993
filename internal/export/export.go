// Package export renders the site to static files: one HTML document per page
// and variant, optional Markdown copies, the assets they reference, and the
// crawler indexes (sitemap.xml, robots.txt, llms.txt).
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"

	"github.com/onekit-js/onekit-site/client"
	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/website"
	"github.com/onekit-js/onekit-site/internal/website/pages"
	"github.com/onekit-js/onekit-site/pkg/core"
	"github.com/onekit-js/onekit-site/pkg/logging"
)

// ErrNoOutputDir is returned when Options.Dir is empty.
var ErrNoOutputDir = errors.New("export: output directory required")

// Renderer renders the full HTML document of a page. *router.Router
// implements it.
type Renderer interface {
	Render(ctx context.Context, path string, params core.Params, session core.Session) ([]byte, error)
}

// Observer is notified for every file written.
type Observer interface {
	PageExported()
}

type nopObserver struct{}

func (nopObserver) PageExported() {}

// Options configures an export run.
type Options struct {
	Dir         string
	BaseURL     string
	Markdown    bool
	Concurrency int
	Logger      logging.Logger
	Observer    Observer
}

// Result lists the written files relative to the output directory, sorted.
type Result struct {
	Files    []string
	Duration time.Duration
}

// Exporter writes a static copy of the site.
type Exporter struct {
	render   Renderer
	content  *content.Content
	opts     Options
	log      logging.Logger
	observer Observer

	mu    sync.Mutex
	files []string
}

// New returns an exporter rendering c through r.
func New(r Renderer, c *content.Content, opts Options) *Exporter {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	log := opts.Logger
	if log == nil {
		log = logging.NopLogger{}
	}
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	return &Exporter{
		render:   r,
		content:  c,
		opts:     opts,
		log:      log.With(logging.String("component", "export")),
		observer: obs,
	}
}

// Export renders every page and variant and writes the supporting files.
// The first failure cancels the remaining work; files already written stay.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	if e.opts.Dir == "" {
		return nil, ErrNoOutputDir
	}
	start := time.Now()
	e.files = e.files[:0]

	if err := os.MkdirAll(e.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	for _, t := range Targets(e.content) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			page, err := e.render.Render(ctx, t.Path, t.Params, nil)
			if err != nil {
				return err
			}
			return e.writeBytes(t.File(), page)
		})
	}

	if e.opts.Markdown {
		for _, p := range pages.All() {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return e.writeWith(MarkdownFile(p.Path), func(w io.Writer) error {
					return PageMarkdown(w, e.content, p.Path)
				})
			})
		}
	}

	g.Go(func() error {
		css, err := website.Stylesheet()
		if err != nil {
			return err
		}
		return e.writeBytes(strings.TrimPrefix(website.StylesheetPath, "/"), []byte(css))
	})
	g.Go(func() error {
		return e.writeBytes(strings.TrimPrefix(website.ScriptPath, "/"), client.MustGetFile(client.ScriptName))
	})
	g.Go(func() error {
		return e.writeWith("sitemap.xml", func(w io.Writer) error {
			return Sitemap(w, e.content, e.opts.BaseURL, start)
		})
	})
	g.Go(func() error {
		return e.writeWith("robots.txt", func(w io.Writer) error {
			return Robots(w, e.opts.BaseURL)
		})
	})
	g.Go(func() error {
		return e.writeWith("llms.txt", func(w io.Writer) error {
			return LLMs(w, e.content, e.opts.BaseURL)
		})
	})

	if err := g.Wait(); err != nil {
		e.log.Error("export failed", logging.Err(err))
		return nil, fmt.Errorf("export: %w", err)
	}

	e.mu.Lock()
	files := append([]string(nil), e.files...)
	e.mu.Unlock()
	sort.Strings(files)

	res := &Result{Files: files, Duration: time.Since(start)}
	e.log.Info("export complete",
		logging.String("dir", e.opts.Dir),
		logging.Int("files", len(files)),
		logging.Duration("duration", res.Duration),
	)
	return res, nil
}

// MarkdownFile returns the Markdown file name for a page path.
func MarkdownFile(path string) string {
	name := strings.Trim(path, "/")
	if name == "" {
		name = "index"
	}
	return name + ".md"
}

func (e *Exporter) target(rel string) (string, error) {
	full := filepath.Join(e.opts.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", rel, err)
	}
	return full, nil
}

func (e *Exporter) writeBytes(rel string, data []byte) error {
	full, err := e.target(rel)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	e.written(rel)
	return nil
}

// writeWith streams fn's output into rel, replacing it atomically once fn
// succeeds.
func (e *Exporter) writeWith(rel string, fn func(io.Writer) error) error {
	full, err := e.target(rel)
	if err != nil {
		return err
	}

	pending, err := renameio.NewPendingFile(full, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending %s: %w", rel, err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			e.log.Debug("cleanup pending file", logging.String("file", rel), logging.Err(err))
		}
	}()

	if err := fn(pending); err != nil {
		return fmt.Errorf("render %s: %w", rel, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", rel, err)
	}
	e.written(rel)
	return nil
}

func (e *Exporter) written(rel string) {
	e.mu.Lock()
	e.files = append(e.files, rel)
	e.mu.Unlock()
	e.observer.PageExported()
	e.log.Debug("wrote file", logging.String("file", rel))
}

// Page renders a single page's Markdown to a string.
func Page(c *content.Content, path string) (string, error) {
	var buf bytes.Buffer
	if err := PageMarkdown(&buf, c, path); err != nil {
		return "", err
	}
	return buf.String(), nil
}
