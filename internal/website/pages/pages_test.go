package pages

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/onekit-js/onekit-site/internal/clipboard"
	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/playground"
	"github.com/onekit-js/onekit-site/internal/search"
	"github.com/onekit-js/onekit-site/pkg/a11y"
	"github.com/onekit-js/onekit-site/pkg/core"
	"github.com/onekit-js/onekit-site/pkg/livetest"
	"github.com/onekit-js/onekit-site/pkg/logging"
	"github.com/onekit-js/onekit-site/pkg/router"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// chroma's regexp2 runs a package-level timeout clock.
		goleak.IgnoreAnyFunction("github.com/dlclark/regexp2.runClock"),
	)
}

type copyCounter struct {
	mu       sync.Mutex
	ok, fail int
}

func (c *copyCounter) CopyReported(ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ok {
		c.ok++
	} else {
		c.fail++
	}
}

func testDeps(t *testing.T) *Deps {
	t.Helper()
	store := content.MustEmbedded()
	runner := playground.NewRunner(func(id string) (string, bool) {
		ex, ok := store.Current().Playground.Example(id)
		return ex.Expected, ok
	}, playground.WithDelay(10*time.Millisecond), playground.WithLogger(logging.NopLogger{}))
	t.Cleanup(runner.Wait)

	return &Deps{
		Store:     store,
		Runner:    runner,
		CopyReset: 20 * time.Millisecond,
		BaseURL:   "https://onekit.test",
		Observer:  &copyCounter{},
		Log:       logging.NopLogger{},
	}
}

// live mounts c and attaches a socket backed by a mock transport.
func live(t *testing.T, c core.Component, params core.Params, session core.Session) (*core.Socket, *livetest.Transport) {
	t.Helper()
	lt := livetest.Mount(t, c, livetest.WithParams(params), livetest.WithSession(session))
	return lt.Socket(), lt.Transport()
}

func render(t *testing.T, c core.Component) string {
	t.Helper()
	return livetest.Render(t, c)
}

func nextInfo(t *testing.T, sock *core.Socket) any {
	t.Helper()
	return livetest.NextInfo(t, sock)
}

func TestRegister_RendersEveryPage(t *testing.T) {
	deps := testDeps(t)
	r := router.New(router.WithLayout(Layout(deps)))
	Register(r, deps)

	for _, p := range All() {
		t.Run(p.Path, func(t *testing.T) {
			page, err := r.Render(t.Context(), p.Path, nil, nil)
			require.NoError(t, err)

			html := string(page)
			assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
			assert.Contains(t, html, `id="lv-root"`)
			assert.Contains(t, html, `class="site-header"`)
			assert.Contains(t, html, `class="site-footer"`)
			assert.Contains(t, html, `<link rel="canonical" href="https://onekit.test`+p.Path+`"`)
			if p.Title != "" {
				assert.Contains(t, html, "<title>"+p.Title+" | OneKit JS</title>")
			}
			assert.NotContains(t, html, "<style")
		})
	}
}

func TestRegister_Variants(t *testing.T) {
	deps := testDeps(t)
	r := router.New(router.WithLayout(Layout(deps)))
	Register(r, deps)

	c := deps.Store.Current()
	for _, p := range All() {
		for _, params := range p.VariantsOf(c) {
			_, err := r.Render(t.Context(), p.Path, params, nil)
			assert.NoError(t, err, "%s %v", p.Path, params)
		}
	}
}

func TestLayout_ThemeCookie(t *testing.T) {
	deps := testDeps(t)
	r := router.New(router.WithLayout(Layout(deps)))
	Register(r, deps)

	page, err := r.Render(t.Context(), "/", nil, core.Session{"cookie:theme": "light"})
	require.NoError(t, err)
	assert.Contains(t, string(page), `data-theme="light"`)
	assert.Contains(t, string(page), "Switch to dark theme")
}

func TestFind(t *testing.T) {
	p, err := Find("/docs")
	require.NoError(t, err)
	assert.Equal(t, "API Reference", p.Title)

	_, err = Find("/nope")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestShell_ToggleTheme(t *testing.T) {
	p := NewHomePage(testDeps(t))().(*HomePage)
	_, tr := live(t, p, nil, nil)

	require.NoError(t, p.HandleEvent(t.Context(), "toggle_theme", nil))
	assert.Equal(t, "light", p.Theme())
	assert.Equal(t, []string{"set_theme"}, tr.Events())

	require.NoError(t, p.HandleEvent(t.Context(), "toggle_theme", nil))
	assert.Equal(t, "dark", p.Theme())
}

func TestShell_Structure(t *testing.T) {
	lt := livetest.Mount(t, NewHomePage(testDeps(t))())
	lt.HTML().
		HasID("main-content").
		HasClass("site-header").
		HasClass("toast-region").
		HasElement("button", `lv-click="toggle_menu"`, `aria-expanded="false"`).
		HasElement("button", `lv-click="toggle_theme"`)

	require.NoError(t, lt.Event("toggle_menu", nil))
	lt.HTML().HasElement("button", `lv-click="toggle_menu"`, `aria-expanded="true"`)
}

func TestShell_ToggleMenu(t *testing.T) {
	p := NewHomePage(testDeps(t))().(*HomePage)
	live(t, p, nil, nil)

	require.NoError(t, p.HandleEvent(t.Context(), "toggle_menu", nil))
	assert.True(t, p.MenuOpen())
	assert.Contains(t, render(t, p), `aria-expanded="true"`)
}

func TestShell_CopyFeedbackExpires(t *testing.T) {
	deps := testDeps(t)
	p := NewHomePage(deps)().(*HomePage)
	sock, _ := live(t, p, nil, nil)

	require.NoError(t, p.HandleEvent(t.Context(), "copy", map[string]any{"id": "home-install", "ok": true}))
	assert.True(t, p.Feedback().Copied("home-install"))
	assert.Contains(t, render(t, p), "Copied!")

	msg := nextInfo(t, sock)
	require.IsType(t, clipboard.Expired{}, msg)
	require.NoError(t, p.HandleInfo(t.Context(), msg))
	assert.False(t, p.Feedback().Copied("home-install"))
	assert.NotContains(t, render(t, p), "Copied!")
	assert.Equal(t, 1, deps.Observer.(*copyCounter).ok)
}

func TestShell_CopyAnnounces(t *testing.T) {
	p := NewHomePage(testDeps(t))().(*HomePage)
	lt := livetest.Mount(t, p)
	lt.HTML().HasElement("div", `id="announcer"`, `aria-live="polite"`)

	require.NoError(t, lt.Event("copy", map[string]any{"id": "home-install", "ok": true}))
	msg, ok := lt.Transport().Last()
	require.True(t, ok)
	assert.Equal(t, a11y.AnnounceEvent, msg.Event)
	assert.Equal(t, "Copied to clipboard", msg.Payload["message"])

	require.NoError(t, lt.Event("copy", map[string]any{"id": "home-install", "ok": false}))
	assert.Equal(t, []string{a11y.AnnounceEvent}, lt.Transport().Events())
}

func TestShell_CopyFailureShowsToast(t *testing.T) {
	deps := testDeps(t)
	p := NewHomePage(deps)().(*HomePage)
	live(t, p, nil, nil)

	require.NoError(t, p.HandleEvent(t.Context(), "copy", map[string]any{"id": "home-install", "ok": false}))
	assert.Contains(t, render(t, p), clipboard.FailedMessage)

	require.NoError(t, p.HandleEvent(t.Context(), "dismiss_toast", nil))
	assert.NotContains(t, render(t, p), clipboard.FailedMessage)
	assert.Equal(t, 1, deps.Observer.(*copyCounter).fail)
}

func TestShell_CopyMissingID(t *testing.T) {
	p := NewHomePage(testDeps(t))().(*HomePage)
	live(t, p, nil, nil)
	assert.Error(t, p.HandleEvent(t.Context(), "copy", map[string]any{"ok": true}))
}

func TestUnknownEvent(t *testing.T) {
	deps := testDeps(t)
	for _, p := range All() {
		c := p.New(deps)()
		live(t, c, nil, nil)
		err := c.HandleEvent(t.Context(), "no_such_event", nil)
		assert.ErrorIs(t, err, ErrUnknownEvent, p.Path)
	}
}

func TestHome_SelectTab(t *testing.T) {
	p := NewHomePage(testDeps(t))().(*HomePage)
	live(t, p, nil, nil)

	first := p.tab
	require.NoError(t, p.HandleEvent(t.Context(), "select_tab", map[string]any{"tab": "missing"}))
	assert.Equal(t, first, p.tab)
}

func TestInstallation_SelectMethod(t *testing.T) {
	p := NewInstallationPage(testDeps(t))().(*InstallationPage)
	live(t, p, core.Params{"tab": "bogus"}, nil)
	assert.Equal(t, "npm", p.Method())

	require.NoError(t, p.HandleEvent(t.Context(), "select_method", map[string]any{"method": "cdn"}))
	assert.Equal(t, "cdn", p.Method())

	require.NoError(t, p.HandleEvent(t.Context(), "select_method", map[string]any{"method": "bower"}))
	assert.Equal(t, "cdn", p.Method())
}

func TestUsage_SearchWithinCategory(t *testing.T) {
	p := NewUsagePage(testDeps(t))().(*UsagePage)
	live(t, p, core.Params{"category": "state-management"}, nil)

	require.NoError(t, p.HandleEvent(t.Context(), "search", map[string]any{"value": "TODO"}))
	visible := p.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "todo-application", visible[0].ID)

	html := render(t, p)
	assert.Contains(t, html, "<mark>Todo</mark>")

	require.NoError(t, p.HandleEvent(t.Context(), "select_category", map[string]any{"category": "animations"}))
	assert.Empty(t, p.Visible())
	html = render(t, p)
	assert.Contains(t, html, NoExamplesTitle)
	assert.Contains(t, html, NoExamplesText)
}

func TestUsage_EmptyQueryShowsCategory(t *testing.T) {
	p := NewUsagePage(testDeps(t))().(*UsagePage)
	live(t, p, core.Params{"category": "nope", "q": "   "}, nil)

	c := p.content
	assert.Equal(t, c.Usage.Categories[0].ID, p.Category())
	assert.Len(t, p.Visible(), len(c.Usage.Categories[0].Examples))
	assert.Equal(t, search.Filter(c.Usage.Categories[0].Examples, ""), p.Visible())
}

func TestAPI_SelectSection(t *testing.T) {
	p := NewAPIPage(testDeps(t))().(*APIPage)
	live(t, p, core.Params{"section": "storage"}, nil)
	assert.Equal(t, "storage", p.Section())

	require.NoError(t, p.HandleEvent(t.Context(), "select_section", map[string]any{"section": "dom"}))
	assert.Equal(t, "dom", p.Section())
	assert.Contains(t, render(t, p), `class="api-method"`)
}

func TestComponents_StatusBadges(t *testing.T) {
	p := NewComponentsPage(testDeps(t))().(*ComponentsPage)
	live(t, p, nil, nil)
	assert.Equal(t, "ui-elements", p.Category())

	html := render(t, p)
	assert.Contains(t, html, "badge-stable")
	assert.Contains(t, html, `data-copy-id="component-button"`)
}

func TestFrameworksAndAdvanced_Select(t *testing.T) {
	deps := testDeps(t)

	fw := NewFrameworksPage(deps)().(*FrameworksPage)
	live(t, fw, core.Params{"tab": "vue"}, nil)
	assert.Equal(t, "vue", fw.Framework())
	require.NoError(t, fw.HandleEvent(t.Context(), "select_framework", map[string]any{"framework": "svelte"}))
	assert.Equal(t, "svelte", fw.Framework())
	assert.Contains(t, render(t, fw), `data-copy-id="fw-svelte-setup"`)

	adv := NewAdvancedPage(deps)().(*AdvancedPage)
	live(t, adv, nil, nil)
	require.NoError(t, adv.HandleEvent(t.Context(), "select_topic", map[string]any{"topic": "security"}))
	assert.Equal(t, "security", adv.Topic())
}

func TestShowcase_Select(t *testing.T) {
	p := NewShowcasePage(testDeps(t))().(*ShowcasePage)
	live(t, p, nil, nil)

	ids := idsOf(p.content.Showcase.Categories, func(c content.ShowcaseCategory) string { return c.ID })
	require.GreaterOrEqual(t, len(ids), 2)
	require.NoError(t, p.HandleEvent(t.Context(), "select_category", map[string]any{"category": ids[1]}))
	assert.Equal(t, ids[1], p.Category())
}

func TestPlayground_Run(t *testing.T) {
	p := NewPlaygroundPage(testDeps(t))().(*PlaygroundPage)
	sock, _ := live(t, p, core.Params{"example": "dom"}, nil)
	assert.Equal(t, "dom", p.Example())

	require.NoError(t, p.HandleEvent(t.Context(), "edit", map[string]any{"value": "console.log(1)"}))
	assert.Equal(t, "console.log(1)", p.Code())

	require.NoError(t, p.HandleEvent(t.Context(), "run", nil))
	assert.True(t, p.Running())
	assert.Equal(t, playground.RunningOutput, p.Output())
	assert.Contains(t, render(t, p), "loading-sm")
	assert.Contains(t, render(t, p), `lv-input="edit" lv-debounce="120"`)

	require.NoError(t, p.HandleInfo(t.Context(), nextInfo(t, sock)))
	assert.False(t, p.Running())
	assert.True(t, strings.HasPrefix(p.Output(), playground.SuccessPrefix))
}

func TestPlayground_StaleRunDropped(t *testing.T) {
	p := NewPlaygroundPage(testDeps(t))().(*PlaygroundPage)
	sock, _ := live(t, p, nil, nil)

	require.NoError(t, p.HandleEvent(t.Context(), "run", nil))
	require.NoError(t, p.HandleEvent(t.Context(), "reset", nil))
	assert.Empty(t, p.Output())

	require.NoError(t, p.HandleInfo(t.Context(), nextInfo(t, sock)))
	assert.Empty(t, p.Output(), "completion of an invalidated run is ignored")
	assert.False(t, p.Running())
}

func TestPlayground_CancelAnnounces(t *testing.T) {
	tests := []struct {
		name    string
		event   string
		payload map[string]any
	}{
		{"reset", "reset", nil},
		{"select example", "select_example", map[string]any{"example": "storage"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlaygroundPage(testDeps(t))().(*PlaygroundPage)
			lt := livetest.Mount(t, p)

			require.NoError(t, lt.Event("run", nil))
			require.True(t, p.Running())
			require.NoError(t, lt.Event(tt.event, tt.payload))

			msg, ok := lt.Transport().Last()
			require.True(t, ok)
			assert.Equal(t, a11y.AnnounceEvent, msg.Event)
			assert.Equal(t, "Run cancelled", msg.Payload["message"])

			// The cancelled run's completion changes nothing.
			require.NoError(t, p.HandleInfo(t.Context(), lt.NextInfo()))
			assert.Equal(t, []string{a11y.AnnounceEvent}, lt.Transport().Events())
			assert.False(t, p.Running())
		})
	}
}

func TestPlayground_ResetIdleIsSilent(t *testing.T) {
	p := NewPlaygroundPage(testDeps(t))().(*PlaygroundPage)
	lt := livetest.Mount(t, p)

	require.NoError(t, lt.Event("reset", nil))
	assert.Empty(t, lt.Transport().Events())
}

func TestPlayground_SelectResetsEditor(t *testing.T) {
	p := NewPlaygroundPage(testDeps(t))().(*PlaygroundPage)
	live(t, p, nil, nil)

	require.NoError(t, p.HandleEvent(t.Context(), "edit", map[string]any{"value": "x"}))
	require.NoError(t, p.HandleEvent(t.Context(), "select_example", map[string]any{"example": "storage"}))

	ex, _ := p.content.Playground.Example("storage")
	assert.Equal(t, ex.Template, p.Code())
	assert.Empty(t, p.Output())
}

func TestPlayground_RunNeedsSocket(t *testing.T) {
	p := NewPlaygroundPage(testDeps(t))().(*PlaygroundPage)
	require.NoError(t, p.Mount(t.Context(), nil, nil))
	defer p.Terminate(context.Background(), core.TerminateNormal)

	assert.ErrorIs(t, p.HandleEvent(t.Context(), "run", nil), ErrNotConnected)
}

func TestTutorials_Stepper(t *testing.T) {
	p := NewTutorialsPage(testDeps(t))().(*TutorialsPage)
	live(t, p, nil, nil)
	assert.Equal(t, "beginner", p.Level())

	require.NoError(t, p.HandleEvent(t.Context(), "open_tutorial", map[string]any{"tutorial": "getting-started"}))
	assert.Equal(t, "getting-started", p.Tutorial())
	assert.Equal(t, 0, p.Step())
	assert.Equal(t, 33, p.Progress())

	require.NoError(t, p.HandleEvent(t.Context(), "prev_step", nil))
	assert.Equal(t, 0, p.Step(), "clamped at first step")

	for range 5 {
		require.NoError(t, p.HandleEvent(t.Context(), "next_step", nil))
	}
	assert.Equal(t, 2, p.Step(), "clamped at last step")
	assert.Equal(t, 100, p.Progress())
	assert.Contains(t, render(t, p), `lv-value-tutorial="reactive-basics"`)

	require.NoError(t, p.HandleEvent(t.Context(), "goto_step", map[string]any{"step": float64(1)}))
	assert.Equal(t, 1, p.Step())
	require.NoError(t, p.HandleEvent(t.Context(), "goto_step", map[string]any{"step": "9"}))
	assert.Equal(t, 1, p.Step())

	require.NoError(t, p.HandleEvent(t.Context(), "close_tutorial", nil))
	assert.Empty(t, p.Tutorial())
}

func TestTutorials_MountFromParams(t *testing.T) {
	p := NewTutorialsPage(testDeps(t))().(*TutorialsPage)
	live(t, p, core.Params{"tutorial": "todo-app", "step": "2"}, nil)

	assert.Equal(t, "intermediate", p.Level())
	assert.Equal(t, "todo-app", p.Tutorial())
	assert.Equal(t, 1, p.Step())
}

func TestExamples_Demo(t *testing.T) {
	p := NewExamplesPage(testDeps(t))().(*ExamplesPage)
	live(t, p, nil, nil)

	for _, ev := range []string{"increment", "increment", "decrement"} {
		require.NoError(t, p.HandleEvent(t.Context(), ev, nil))
	}
	assert.Equal(t, 1, p.Count())
	require.NoError(t, p.HandleEvent(t.Context(), "reset_count", nil))
	assert.Equal(t, 0, p.Count())

	require.NoError(t, p.HandleEvent(t.Context(), "set_text", map[string]any{"value": "<b>hi</b>"}))
	assert.Contains(t, render(t, p), "&lt;b&gt;hi&lt;/b&gt;")

	require.NoError(t, p.HandleEvent(t.Context(), "add_item", nil))
	assert.Equal(t, []string{"Item 1", "Item 2", "Item 3", "Item 4"}, p.Items())
	require.NoError(t, p.HandleEvent(t.Context(), "remove_item", map[string]any{"index": "0"}))
	require.NoError(t, p.HandleEvent(t.Context(), "remove_item", map[string]any{"index": "42"}))
	assert.Equal(t, []string{"Item 2", "Item 3", "Item 4"}, p.Items())

	require.NoError(t, p.HandleEvent(t.Context(), "toggle_visibility", nil))
	assert.False(t, p.Visible())
	assert.NotContains(t, render(t, p), "I'm visible!")
}
