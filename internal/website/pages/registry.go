package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/website"
	"github.com/onekit-js/onekit-site/pkg/core"
	"github.com/onekit-js/onekit-site/pkg/router"
)

// Page describes one routed page of the site.
type Page struct {
	Path  string
	Title string // empty for the home page, which uses the site title

	New func(*Deps) func() core.Component

	// Describe returns the meta description.
	Describe func(*content.Content) string

	// Variants lists extra initial states worth linking to and exporting.
	Variants func(*content.Content) []core.Params
}

var all = []Page{
	{
		Path:     "/",
		New:      NewHomePage,
		Describe: func(c *content.Content) string { return c.Site.Description },
	},
	{
		Path:     "/installation",
		Title:    "Installation",
		New:      NewInstallationPage,
		Describe: func(c *content.Content) string { return c.Installation.Hero.Intro },
	},
	{
		Path:     "/usage",
		Title:    "Usage Examples",
		New:      NewUsagePage,
		Describe: func(c *content.Content) string { return c.Usage.Hero.Intro },
		Variants: func(c *content.Content) []core.Params {
			out := make([]core.Params, 0, len(c.Usage.Categories))
			for _, cat := range c.Usage.Categories {
				out = append(out, core.Params{"category": cat.ID})
			}
			return out
		},
	},
	{
		Path:     "/docs",
		Title:    "API Reference",
		New:      NewAPIPage,
		Describe: func(c *content.Content) string { return c.API.Hero.Intro },
	},
	{
		Path:     "/components",
		Title:    "Components",
		New:      NewComponentsPage,
		Describe: func(c *content.Content) string { return c.Components.Hero.Intro },
	},
	{
		Path:     "/showcase",
		Title:    "Showcase",
		New:      NewShowcasePage,
		Describe: func(c *content.Content) string { return c.Showcase.Hero.Intro },
	},
	{
		Path:     "/playground",
		Title:    "Playground",
		New:      NewPlaygroundPage,
		Describe: func(c *content.Content) string { return c.Playground.Hero.Intro },
	},
	{
		Path:     "/tutorials",
		Title:    "Tutorials",
		New:      NewTutorialsPage,
		Describe: func(c *content.Content) string { return c.Tutorials.Hero.Intro },
		Variants: func(c *content.Content) []core.Params {
			var out []core.Params
			for _, l := range c.Tutorials.Levels {
				for _, tu := range l.Tutorials {
					out = append(out, core.Params{"tutorial": tu.ID})
				}
			}
			return out
		},
	},
	{
		Path:     "/examples",
		Title:    "Examples",
		New:      NewExamplesPage,
		Describe: func(c *content.Content) string { return c.Examples.Hero.Intro },
	},
	{
		Path:     "/frameworks",
		Title:    "Framework Integration",
		New:      NewFrameworksPage,
		Describe: func(c *content.Content) string { return c.Frameworks.Hero.Intro },
	},
	{
		Path:     "/advanced",
		Title:    "Advanced Features",
		New:      NewAdvancedPage,
		Describe: func(c *content.Content) string { return c.Advanced.Hero.Intro },
	},
}

// All returns every page in navigation order.
func All() []Page {
	return append([]Page(nil), all...)
}

// Find returns the page at path.
func Find(path string) (Page, error) {
	for _, p := range all {
		if p.Path == path {
			return p, nil
		}
	}
	return Page{}, fmt.Errorf("%w: %s", ErrUnknownPage, path)
}

// VariantsOf returns p's variants for c, or nil.
func (p Page) VariantsOf(c *content.Content) []core.Params {
	if p.Variants == nil {
		return nil
	}
	return p.Variants(c)
}

// Register mounts every page on r.
func Register(r *router.Router, deps *Deps) {
	for _, p := range all {
		r.Live(p.Path, p.New(deps), router.WithMeta("title", p.Title))
	}
}

// Layout returns the document layout for the live router. Metadata is
// taken from the content snapshot current at render time.
func Layout(deps *Deps) router.Layout {
	return func(ctx context.Context, route *router.LiveRoute, session core.Session, root []byte, w io.Writer) error {
		c := deps.Store.Current()

		title := route.Meta["title"]
		description := ""
		if p, err := Find(route.Path); err == nil && p.Describe != nil {
			description = p.Describe(c)
		}

		cfg := website.DefaultPageConfig(c.Site, deps.BaseURL, route.Path, title, description)
		cfg.Theme = website.NormalizeTheme(session.GetString("cookie:" + ThemeCookie))

		_, err := io.WriteString(w, website.RenderDocument(cfg, string(root)))
		return err
	}
}
