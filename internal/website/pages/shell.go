// Package pages implements the site's pages as live components. Each page
// embeds a Shell that owns the header, footer, theme and copy feedback.
package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/onekit-js/onekit-site/internal/clipboard"
	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/playground"
	"github.com/onekit-js/onekit-site/internal/website"
	"github.com/onekit-js/onekit-site/internal/website/components"
	"github.com/onekit-js/onekit-site/pkg/a11y"
	"github.com/onekit-js/onekit-site/pkg/core"
	"github.com/onekit-js/onekit-site/pkg/logging"
)

// Page errors.
var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrUnknownPage  = errors.New("unknown page")
)

// ThemeCookie stores the visitor's theme.
const ThemeCookie = "theme"

var announcer = a11y.NewLiveRegion("announcer")

// CopyObserver counts clipboard outcomes reported by browsers.
type CopyObserver interface {
	CopyReported(ok bool)
}

// Deps are the services shared by every page.
type Deps struct {
	Store     *content.Store
	Runner    *playground.Runner
	CopyReset time.Duration
	BaseURL   string
	Observer  CopyObserver
	Log       logging.Logger
}

func (d *Deps) log() logging.Logger {
	if d.Log == nil {
		return logging.NopLogger{}
	}
	return d.Log
}

// Shell is the layout state every page shares.
type Shell struct {
	core.BaseComponent

	deps     *Deps
	path     string
	content  *content.Content
	theme    string
	menuOpen bool
	copy     *clipboard.Feedback
}

func newShell(deps *Deps, path string) Shell {
	return Shell{
		deps:    deps,
		path:    path,
		content: deps.Store.Current(),
		theme:   website.ThemeDark,
		copy:    clipboard.New(deps.CopyReset),
	}
}

// mountShell takes the content snapshot and theme for this visit.
func (s *Shell) mountShell(session core.Session) {
	s.content = s.deps.Store.Current()
	s.theme = website.NormalizeTheme(session.GetString("cookie:" + ThemeCookie))
	s.menuOpen = false
}

// Theme returns the current theme.
func (s *Shell) Theme() string { return s.theme }

// MenuOpen reports whether the mobile menu is expanded.
func (s *Shell) MenuOpen() bool { return s.menuOpen }

// Feedback returns the copy feedback state.
func (s *Shell) Feedback() *clipboard.Feedback { return s.copy }

// scheduler returns the socket as a clipboard scheduler, or nil during a
// plain render.
func (s *Shell) scheduler() clipboard.Scheduler {
	if sock := s.Socket(); sock != nil {
		return sock
	}
	return nil
}

// handleShellEvent handles the events shared by every page. It reports
// whether event was one of them.
func (s *Shell) handleShellEvent(_ context.Context, event string, payload map[string]any) (bool, error) {
	switch event {
	case "toggle_theme":
		if s.theme == website.ThemeDark {
			s.theme = website.ThemeLight
		} else {
			s.theme = website.ThemeDark
		}
		if sock := s.Socket(); sock != nil {
			if err := sock.Push("set_theme", map[string]any{"theme": s.theme}); err != nil && !errors.Is(err, core.ErrSocketClosed) {
				return true, fmt.Errorf("push theme: %w", err)
			}
		}
		return true, nil

	case "toggle_menu":
		s.menuOpen = !s.menuOpen
		return true, nil

	case "copy":
		id := core.PayloadString(payload, "id")
		ok := core.PayloadBool(payload, "ok")
		if ok && id == "" {
			return true, errors.New("copy: missing id")
		}
		s.copy.Report(s.scheduler(), id, ok)
		if ok {
			s.announce("Copied to clipboard")
		}
		if s.deps.Observer != nil {
			s.deps.Observer.CopyReported(ok)
		}
		if !ok {
			s.deps.log().Debug("browser copy failed",
				logging.Event("clipboard.failed"),
				logging.String("path", s.path),
				logging.String("id", id),
			)
		}
		return true, nil

	case "dismiss_toast":
		s.copy.DismissToast()
		return true, nil
	}
	return false, nil
}

// announce reads message to screen reader users on the live page.
func (s *Shell) announce(message string) {
	if err := announcer.Announce(s.Socket(), message); err != nil {
		s.deps.log().Debug("announce failed", logging.String("path", s.path), logging.Err(err))
	}
}

// handleShellInfo handles mailbox messages owned by the shell.
func (s *Shell) handleShellInfo(msg any) bool {
	if m, ok := msg.(clipboard.Expired); ok {
		s.copy.Expire(m)
		return true
	}
	return false
}

func (s *Shell) terminateShell() {
	s.copy.Stop()
}

// code renders a copyable snippet with the current feedback state.
func (s *Shell) code(id, title, language, code string) string {
	return components.RenderCode(components.CodeOptions{
		ID:       id,
		Title:    title,
		Language: language,
		Code:     code,
		Copied:   s.copy.Copied(id),
	})
}

// renderShell writes the header, main body, toast region and footer.
func (s *Shell) renderShell(w io.Writer, main string) error {
	site := s.content.Site

	var sb strings.Builder
	sb.WriteString(components.RenderHeader(components.HeaderOptions{
		SiteName:   site.Name,
		Version:    site.Version,
		Links:      site.Nav,
		Active:     s.path,
		Theme:      s.theme,
		MenuOpen:   s.menuOpen,
		Repository: site.Repository,
	}))
	sb.WriteString(`<main id="main-content">`)
	sb.WriteString("\n")
	sb.WriteString(main)
	sb.WriteString(`</main>`)
	sb.WriteString("\n")
	sb.WriteString(`<div class="toast-region" aria-live="polite" data-slot="toast">`)
	sb.WriteString(components.RenderToast(s.copy.Toast()))
	sb.WriteString(`</div>`)
	sb.WriteString(announcer.RenderHTML())
	sb.WriteString("\n")
	sb.WriteString(components.RenderFooter(components.FooterOptions{
		SiteName: site.Name,
		Footer:   site.Footer,
	}))

	_, err := io.WriteString(w, sb.String())
	return err
}

// renderer adapts a body builder to core.Renderer.
func (s *Shell) renderer(body func() string) core.Renderer {
	return core.RendererFunc(func(_ context.Context, w io.Writer) error {
		return s.renderShell(w, body())
	})
}

// section wraps inner in a container section marked as slot id.
func section(id, inner string) string {
	return `<section class="section"><div class="container" data-slot="` + id + `">` + inner + `</div></section>` + "\n"
}

func unknownEvent(event string) error {
	return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
}

// pick returns want if it is one of ids, else the first id.
func pick(want string, ids []string) string {
	for _, id := range ids {
		if id == want {
			return want
		}
	}
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// selectID returns the id from payload key when it is one of ids, and
// ok=false otherwise.
func selectID(payload map[string]any, key string, ids []string) (string, bool) {
	want := core.PayloadString(payload, key)
	for _, id := range ids {
		if id == want {
			return want, true
		}
	}
	return "", false
}

func idsOf[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}
