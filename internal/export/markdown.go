package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/website/pages"
)

// PageMarkdown writes the Markdown rendition of the page at path.
func PageMarkdown(w io.Writer, c *content.Content, path string) error {
	page, err := pages.Find(path)
	if err != nil {
		return err
	}

	md := markdown.NewMarkdown(w)
	switch path {
	case "/":
		homeMarkdown(md, c)
	case "/installation":
		installationMarkdown(md, c.Installation)
	case "/usage":
		usageMarkdown(md, c.Usage)
	case "/docs":
		apiMarkdown(md, c.API)
	case "/components":
		componentsMarkdown(md, c.Components)
	case "/showcase":
		showcaseMarkdown(md, c.Showcase)
	case "/playground":
		playgroundMarkdown(md, c.Playground)
	case "/tutorials":
		tutorialsMarkdown(md, c.Tutorials)
	case "/examples":
		examplesMarkdown(md, c.Examples)
	case "/frameworks":
		frameworksMarkdown(md, c.Frameworks)
	case "/advanced":
		advancedMarkdown(md, c.Advanced)
	default:
		return fmt.Errorf("%w: no markdown for %s", pages.ErrUnknownPage, page.Path)
	}
	return md.Build()
}

func hero(md *markdown.Markdown, h content.Hero) {
	md.H1(h.Title)
	md.PlainText("")
	if h.Intro != "" {
		md.PlainText(h.Intro)
		md.PlainText("")
	}
}

func code(md *markdown.Markdown, language, src string) {
	if src == "" {
		return
	}
	md.CodeBlocks(markdown.SyntaxHighlight(language), src)
	md.PlainText("")
}

func snippet(md *markdown.Markdown, s content.Snippet) {
	if s.Title != "" {
		md.H3(s.Title)
		md.PlainText("")
	}
	if s.Description != "" {
		md.PlainText(s.Description)
		md.PlainText("")
	}
	code(md, s.Language, s.Code)
}

func features(md *markdown.Markdown, fs []content.Feature) {
	items := make([]string, 0, len(fs))
	for _, f := range fs {
		items = append(items, markdown.Bold(f.Title)+": "+f.Description)
	}
	md.BulletList(items...)
	md.PlainText("")
}

func homeMarkdown(md *markdown.Markdown, c *content.Content) {
	h := c.Home
	hero(md, h.Hero)
	code(md, "bash", h.Install)

	if len(h.Stats) > 0 {
		rows := make([][]string, 0, len(h.Stats))
		for _, s := range h.Stats {
			rows = append(rows, []string{s.Label, s.Value})
		}
		md.Table(markdown.TableSet{Header: []string{"", "Value"}, Rows: rows})
		md.PlainText("")
	}

	md.H2(h.FeaturesTitle)
	md.PlainText("")
	features(md, h.Features)

	md.H2("Quick Start")
	md.PlainText("")
	for _, tab := range h.QuickStart {
		md.H3(tab.Label)
		md.PlainText("")
		for _, s := range tab.Snippets {
			code(md, s.Language, s.Code)
		}
	}

	md.H2("Core Features")
	md.PlainText("")
	features(md, h.CoreFeatures)
	snippet(md, h.Overview)
}

func installationMarkdown(md *markdown.Markdown, in content.Installation) {
	hero(md, in.Hero)

	md.H2("Installation Methods")
	md.PlainText("")
	for _, m := range in.Methods {
		snippet(md, m)
	}

	md.H2("Setup")
	md.PlainText("")
	steps := make([]string, 0, len(in.Steps))
	for _, s := range in.Steps {
		steps = append(steps, markdown.Bold(s.Title)+": "+s.Description)
	}
	md.OrderedList(steps...)
	md.PlainText("")

	for _, g := range in.Guides {
		md.H2(g.Label)
		md.PlainText("")
		for _, s := range g.Snippets {
			snippet(md, s)
		}
	}
}

func usageMarkdown(md *markdown.Markdown, u content.Usage) {
	hero(md, u.Hero)
	for _, cat := range u.Categories {
		md.H2(cat.Title)
		md.PlainText("")
		md.PlainText(cat.Description)
		md.PlainText("")
		for _, ex := range cat.Examples {
			md.H3(ex.Name)
			md.PlainText("")
			md.PlainText(markdown.Bold(string(ex.Difficulty)) + " · " + ex.Description)
			md.PlainText("")
			code(md, ex.Language, ex.Code)
		}
	}

	md.H2("Learning Path")
	md.PlainText("")
	steps := make([]string, 0, len(u.LearningPath))
	for _, s := range u.LearningPath {
		steps = append(steps, markdown.Bold(s.Title)+": "+s.Description)
	}
	md.OrderedList(steps...)
	md.PlainText("")
}

func apiMarkdown(md *markdown.Markdown, api content.API) {
	hero(md, api.Hero)
	for _, sec := range api.Sections {
		md.H2(sec.Name)
		md.PlainText("")
		md.PlainText(sec.Description)
		md.PlainText("")

		for _, m := range sec.Methods {
			md.H3(m.Name)
			md.PlainText("")
			md.PlainText(markdown.Code(m.Signature))
			md.PlainText("")
			md.PlainText(m.Description)
			md.PlainText("")
			if len(m.Params) > 0 {
				rows := make([][]string, 0, len(m.Params))
				for _, p := range m.Params {
					rows = append(rows, []string{markdown.Code(p.Name), markdown.Code(p.Type), p.Description})
				}
				md.Table(markdown.TableSet{Header: []string{"Parameter", "Type", "Description"}, Rows: rows})
				md.PlainText("")
			}
			if m.Returns != "" {
				md.PlainText(markdown.Bold("Returns:") + " " + markdown.Code(m.Returns))
				md.PlainText("")
			}
			code(md, "javascript", m.Example)
		}

		if sec.Notes != "" {
			md.PlainText(strings.TrimSpace(sec.Notes))
			md.PlainText("")
		}
	}
}

func componentsMarkdown(md *markdown.Markdown, lib content.Components) {
	hero(md, lib.Hero)
	for _, cat := range lib.Categories {
		md.H2(cat.Name)
		md.PlainText("")
		md.PlainText(cat.Description)
		md.PlainText("")
		rows := make([][]string, 0, len(cat.Components))
		for _, comp := range cat.Components {
			rows = append(rows, []string{comp.Name, string(comp.Status), comp.Description})
		}
		md.Table(markdown.TableSet{Header: []string{"Component", "Status", "Description"}, Rows: rows})
		md.PlainText("")
	}

	md.H2("Usage Examples")
	md.PlainText("")
	for _, ex := range lib.Examples {
		snippet(md, ex)
	}
}

func showcaseMarkdown(md *markdown.Markdown, sc content.Showcase) {
	hero(md, sc.Hero)
	for _, cat := range sc.Categories {
		md.H2(cat.Title)
		md.PlainText("")
		md.PlainText(cat.Description)
		md.PlainText("")
		for _, it := range cat.Items {
			snippet(md, it)
		}
	}
}

func playgroundMarkdown(md *markdown.Markdown, pg content.Playground) {
	hero(md, pg.Hero)
	for _, ex := range pg.Examples {
		md.H2(ex.Title)
		md.PlainText("")
		md.PlainText(ex.Description)
		md.PlainText("")
		code(md, "javascript", ex.Template)
		md.PlainText(markdown.Bold("Output"))
		md.PlainText("")
		code(md, "text", ex.Expected)
	}

	if len(pg.Tips) > 0 {
		md.H2("Tips")
		md.PlainText("")
		tips := make([]string, 0, len(pg.Tips))
		for _, t := range pg.Tips {
			tips = append(tips, markdown.Bold(t.Title)+": "+t.Text)
		}
		md.BulletList(tips...)
		md.PlainText("")
	}
}

func tutorialsMarkdown(md *markdown.Markdown, tuts content.Tutorials) {
	hero(md, tuts.Hero)
	for _, lvl := range tuts.Levels {
		md.H2(lvl.Title + " (" + lvl.Duration + ")")
		md.PlainText("")
		md.PlainText(lvl.Description)
		md.PlainText("")
		for _, tu := range lvl.Tutorials {
			md.H3(tu.Title)
			md.PlainText("")
			md.PlainText(tu.Description + " " + markdown.Italic(tu.Duration+", "+string(tu.Difficulty)))
			md.PlainText("")
			for i, st := range tu.Steps {
				md.H4("Step " + strconv.Itoa(i+1) + ": " + st.Title)
				md.PlainText("")
				md.PlainText(strings.TrimSpace(st.Explanation))
				md.PlainText("")
				code(md, "javascript", st.Code)
			}
		}
	}
}

func examplesMarkdown(md *markdown.Markdown, ex content.Examples) {
	hero(md, ex.Hero)
	for _, tab := range ex.Tabs {
		snippet(md, tab)
	}
}

func frameworksMarkdown(md *markdown.Markdown, fws content.Frameworks) {
	hero(md, fws.Hero)
	for _, fw := range fws.Frameworks {
		md.H2(fw.Name)
		md.PlainText("")
		md.PlainText(fw.Description)
		md.PlainText("")
		for _, g := range fw.Guides {
			snippet(md, g)
		}
	}
}

func advancedMarkdown(md *markdown.Markdown, adv content.Advanced) {
	hero(md, adv.Hero)
	for _, t := range adv.Topics {
		md.H2(t.Name)
		md.PlainText("")
		md.PlainText(t.Description)
		md.PlainText("")
		for _, s := range t.Snippets {
			snippet(md, s)
		}
	}
}

// LLMs writes the llms.txt index: the site summary and a link per page.
func LLMs(w io.Writer, c *content.Content, baseURL string) error {
	base := strings.TrimRight(baseURL, "/")
	md := markdown.NewMarkdown(w)

	md.H1(c.Site.Name)
	md.PlainText("")
	md.Blockquote(c.Site.Description)
	md.PlainText("")

	md.H2("Pages")
	md.PlainText("")
	links := make([]string, 0, len(pages.All()))
	for _, p := range pages.All() {
		title := p.Title
		if title == "" {
			title = c.Site.Name
		}
		line := markdown.Link(title, base+p.Path)
		if p.Describe != nil {
			if d := p.Describe(c); d != "" {
				line += ": " + d
			}
		}
		links = append(links, line)
	}
	md.BulletList(links...)
	md.PlainText("")

	md.H2("API")
	md.PlainText("")
	var methods []string
	for _, e := range c.Entries() {
		if e.Kind == "api" {
			methods = append(methods, markdown.Link(e.Name, base+e.URL)+": "+e.Description)
		}
	}
	md.BulletList(methods...)

	return md.Build()
}
