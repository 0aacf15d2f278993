package pages

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/playground"
	"github.com/onekit-js/onekit-site/internal/website/components"
	"github.com/onekit-js/onekit-site/pkg/core"
	"github.com/onekit-js/onekit-site/pkg/logging"
)

// ErrNotConnected is returned for events that need a live socket.
var ErrNotConnected = errors.New("not connected")

// EditorCopyID is the copy id of the playground editor contents.
const EditorCopyID = "playground-editor"

// runFinished carries a run's outcome back through the socket mailbox.
type runFinished struct {
	id     uint64
	result playground.Result
	err    error
}

// PlaygroundPage edits and runs examples against canned output.
type PlaygroundPage struct {
	Shell

	example string
	seed    string // template the editor was last filled from
	rev     int
	code    string
	output  string
	running bool

	ctx       context.Context
	stop      context.CancelFunc
	runID     uint64
	cancelRun func()
}

// NewPlaygroundPage returns a factory for the playground page.
func NewPlaygroundPage(deps *Deps) func() core.Component {
	return func() core.Component {
		return &PlaygroundPage{Shell: newShell(deps, "/playground")}
	}
}

func (p *PlaygroundPage) Name() string { return "playground" }

func (p *PlaygroundPage) exampleIDs() []string {
	return idsOf(p.content.Playground.Examples, func(e content.PlaygroundExample) string { return e.ID })
}

func (p *PlaygroundPage) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mountShell(session)
	p.ctx, p.stop = context.WithCancel(context.WithoutCancel(ctx))
	p.load(pick(params.Get("example"), p.exampleIDs()))
	return nil
}

// load fills the editor from example's template and clears the output.
func (p *PlaygroundPage) load(id string) {
	p.example = id
	ex, _ := p.content.Playground.Example(id)
	p.seed = ex.Template
	p.code = ex.Template
	p.rev++
	p.output = ""
	p.running = false
}

// invalidate drops any in-flight run. Its completion still arrives in the
// mailbox and is ignored by id.
func (p *PlaygroundPage) invalidate() {
	if p.cancelRun != nil {
		p.cancelRun()
		p.cancelRun = nil
	}
	p.runID++
	p.running = false
}

// cancelRunning invalidates the current run and tells screen readers when
// one was in flight.
func (p *PlaygroundPage) cancelRunning() {
	wasRunning := p.running
	p.invalidate()
	if wasRunning {
		p.announce("Run cancelled")
	}
}

func (p *PlaygroundPage) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	if ok, err := p.handleShellEvent(ctx, event, payload); ok {
		return err
	}
	switch event {
	case "select_example":
		if id, ok := selectID(payload, "example", p.exampleIDs()); ok {
			p.cancelRunning()
			p.load(id)
		}
		return nil

	case "edit":
		p.code = core.PayloadString(payload, "value")
		return nil

	case "run":
		return p.run()

	case "reset":
		p.cancelRunning()
		p.load(p.example)
		return nil
	}
	return unknownEvent(event)
}

func (p *PlaygroundPage) run() error {
	sock := p.Socket()
	if sock == nil {
		return fmt.Errorf("run: %w", ErrNotConnected)
	}
	if p.deps.Runner == nil {
		return errors.New("run: playground runner not configured")
	}

	p.cancelRunning()
	id := p.runID

	cancel, err := p.deps.Runner.Start(p.ctx, sock.ID(), playground.Request{
		ExampleID: p.example,
		Code:      p.code,
	}, func(res playground.Result, err error) {
		_ = sock.SendInfo(runFinished{id: id, result: res, err: err})
	})
	if errors.Is(err, playground.ErrRateLimited) {
		p.output = playground.LimitedOutput
		return nil
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	p.cancelRun = cancel
	p.running = true
	p.output = playground.RunningOutput
	return nil
}

func (p *PlaygroundPage) HandleInfo(ctx context.Context, msg any) error {
	if p.handleShellInfo(msg) {
		return nil
	}
	m, ok := msg.(runFinished)
	if !ok || m.id != p.runID {
		return nil
	}

	p.running = false
	p.cancelRun = nil
	switch {
	case m.err != nil:
		p.deps.log().Warn("playground run failed",
			logging.Event("playground.failed"),
			logging.String("example", p.example),
			logging.Err(m.err),
		)
		p.output = "❌ " + m.err.Error()
		p.announce("Run failed")
	default:
		p.output = m.result.Output
		p.announce("Run finished")
	}
	return nil
}

func (p *PlaygroundPage) Terminate(ctx context.Context, reason core.TerminateReason) error {
	p.invalidate()
	if p.stop != nil {
		p.stop()
	}
	if sock := p.Socket(); sock != nil && p.deps.Runner != nil {
		p.deps.Runner.Forget(sock.ID())
	}
	p.terminateShell()
	return nil
}

// Example returns the selected example id.
func (p *PlaygroundPage) Example() string { return p.example }

// Code returns the editor contents.
func (p *PlaygroundPage) Code() string { return p.code }

// Output returns the output panel text.
func (p *PlaygroundPage) Output() string { return p.output }

// Running reports whether a run is in flight.
func (p *PlaygroundPage) Running() bool { return p.running }

func (p *PlaygroundPage) Render(ctx context.Context) core.Renderer {
	return p.renderer(p.body)
}

func (p *PlaygroundPage) body() string {
	pg := p.content.Playground
	var sb strings.Builder

	sb.WriteString(components.RenderHero(components.HeroOptions{Hero: pg.Hero}))

	items := make([]components.TabItem, 0, len(pg.Examples))
	for _, ex := range pg.Examples {
		items = append(items, components.TabItem{ID: ex.ID, Label: ex.Name})
	}
	var about string
	if ex, ok := pg.Example(p.example); ok {
		about = fmt.Sprintf(`<h2>%s</h2><p>%s</p>`, html.EscapeString(ex.Title), html.EscapeString(ex.Description))
	}
	sb.WriteString(section("examples", components.RenderTabs(components.TabsOptions{
		Label:  "Playground examples",
		Event:  "select_example",
		Param:  "example",
		Items:  items,
		Active: p.example,
		Panel:  about,
	})))

	sb.WriteString(`<section class="section"><div class="container playground">`)
	sb.WriteString(`<div class="editor-pane">`)
	// The textarea only changes when the seed does, so typing is never
	// overwritten by a patch.
	sb.WriteString(fmt.Sprintf(`<div data-slot="editor"><textarea class="editor" name="code" lv-input="edit" lv-debounce="120" data-rev="%d" spellcheck="false" aria-label="Code editor">%s</textarea></div>`,
		p.rev, html.EscapeString(p.seed)))
	sb.WriteString(`<div class="playground-actions" data-slot="editor-tools">`)
	disabled := ""
	if p.running {
		disabled = " disabled"
	}
	sb.WriteString(fmt.Sprintf(`<button type="button" class="btn btn-primary" lv-click="run"%s>Run Code</button>`, disabled))
	sb.WriteString(`<button type="button" class="btn btn-secondary" lv-click="reset">Reset</button>`)
	sb.WriteString(components.RenderCopyButton(EditorCopyID, p.copy.Copied(EditorCopyID)))
	sb.WriteString(components.RenderCopySource(EditorCopyID, p.code))
	sb.WriteString(`</div></div>`)

	sb.WriteString(`<div class="output-pane" data-slot="output">`)
	if p.running {
		sb.WriteString(components.RenderLoading(components.LoadingSmall, "Running..."))
	}
	sb.WriteString(fmt.Sprintf(`<pre class="output" aria-live="polite">%s</pre>`, html.EscapeString(p.output)))
	sb.WriteString(`</div>`)
	sb.WriteString(`</div></section>`)
	sb.WriteString("\n")

	if len(pg.Tips) > 0 {
		tips := make([]string, 0, len(pg.Tips))
		for _, t := range pg.Tips {
			tips = append(tips, components.RenderCard(components.CardOptions{Title: t.Title, Description: t.Text}))
		}
		sb.WriteString(`<section class="section"><div class="container"><h2>Tips</h2>`)
		sb.WriteString(components.RenderGrid(3, tips))
		sb.WriteString(`</div></section>`)
		sb.WriteString("\n")
	}

	return sb.String()
}
