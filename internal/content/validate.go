package content

import (
	"errors"
	"fmt"
)

// Validate checks identifiers, difficulties, playground examples and
// tutorial structure. All problems are reported, joined.
func (c *Content) Validate() error {
	v := &validator{}

	if c.Site.Name == "" {
		v.fail("site: name is empty")
	}
	if len(c.Site.Nav) == 0 {
		v.fail("site: nav is empty")
	}

	v.ids("home.quick_start", len(c.Home.QuickStart), func(i int) string { return c.Home.QuickStart[i].ID })

	v.nonEmpty("installation.methods", len(c.Installation.Methods))
	v.ids("installation.methods", len(c.Installation.Methods), func(i int) string { return c.Installation.Methods[i].ID })
	v.ids("installation.guides", len(c.Installation.Guides), func(i int) string { return c.Installation.Guides[i].ID })

	v.nonEmpty("usage.categories", len(c.Usage.Categories))
	v.ids("usage.categories", len(c.Usage.Categories), func(i int) string { return c.Usage.Categories[i].ID })
	for _, cat := range c.Usage.Categories {
		where := "usage." + cat.ID
		v.ids(where, len(cat.Examples), func(i int) string { return cat.Examples[i].ID })
		for _, ex := range cat.Examples {
			if !ex.Difficulty.Valid() {
				v.fail("%s.%s: unknown difficulty %q", where, ex.ID, ex.Difficulty)
			}
			if ex.Name == "" {
				v.fail("%s.%s: name is empty", where, ex.ID)
			}
		}
	}

	v.nonEmpty("api.sections", len(c.API.Sections))
	v.ids("api.sections", len(c.API.Sections), func(i int) string { return c.API.Sections[i].ID })
	for _, sec := range c.API.Sections {
		v.ids("api."+sec.ID, len(sec.Methods), func(i int) string { return sec.Methods[i].Name })
	}

	v.nonEmpty("components.categories", len(c.Components.Categories))
	v.ids("components.categories", len(c.Components.Categories), func(i int) string { return c.Components.Categories[i].ID })
	for _, cat := range c.Components.Categories {
		for _, comp := range cat.Components {
			if !comp.Status.Valid() {
				v.fail("components.%s.%s: unknown status %q", cat.ID, comp.Name, comp.Status)
			}
		}
	}
	v.ids("components.examples", len(c.Components.Examples), func(i int) string { return c.Components.Examples[i].ID })

	v.nonEmpty("showcase.categories", len(c.Showcase.Categories))
	v.ids("showcase.categories", len(c.Showcase.Categories), func(i int) string { return c.Showcase.Categories[i].ID })
	for _, cat := range c.Showcase.Categories {
		v.ids("showcase."+cat.ID, len(cat.Items), func(i int) string { return cat.Items[i].ID })
	}

	v.nonEmpty("playground.examples", len(c.Playground.Examples))
	v.ids("playground.examples", len(c.Playground.Examples), func(i int) string { return c.Playground.Examples[i].ID })
	for _, ex := range c.Playground.Examples {
		if ex.Template == "" {
			v.fail("playground.%s: template is empty", ex.ID)
		}
		if ex.Expected == "" {
			v.fail("playground.%s: expected output is empty", ex.ID)
		}
	}

	v.nonEmpty("tutorials.levels", len(c.Tutorials.Levels))
	v.ids("tutorials.levels", len(c.Tutorials.Levels), func(i int) string { return c.Tutorials.Levels[i].ID })
	seen := map[string]bool{}
	for _, lvl := range c.Tutorials.Levels {
		for _, tu := range lvl.Tutorials {
			if tu.ID == "" {
				v.fail("tutorials.%s: empty tutorial id", lvl.ID)
				continue
			}
			if seen[tu.ID] {
				v.fail("tutorials: duplicate tutorial id %q", tu.ID)
			}
			seen[tu.ID] = true
			if len(tu.Steps) == 0 {
				v.fail("tutorials.%s: no steps", tu.ID)
			}
			if !tu.Difficulty.Valid() {
				v.fail("tutorials.%s: unknown difficulty %q", tu.ID, tu.Difficulty)
			}
		}
	}
	for _, lvl := range c.Tutorials.Levels {
		for _, tu := range lvl.Tutorials {
			if tu.Next != "" && !seen[tu.Next] {
				v.fail("tutorials.%s: next tutorial %q does not exist", tu.ID, tu.Next)
			}
		}
	}

	v.nonEmpty("examples.tabs", len(c.Examples.Tabs))
	v.ids("examples.tabs", len(c.Examples.Tabs), func(i int) string { return c.Examples.Tabs[i].ID })

	v.nonEmpty("frameworks", len(c.Frameworks.Frameworks))
	v.ids("frameworks", len(c.Frameworks.Frameworks), func(i int) string { return c.Frameworks.Frameworks[i].ID })
	for _, fw := range c.Frameworks.Frameworks {
		v.ids("frameworks."+fw.ID, len(fw.Guides), func(i int) string { return fw.Guides[i].ID })
	}

	v.nonEmpty("advanced.topics", len(c.Advanced.Topics))
	v.ids("advanced.topics", len(c.Advanced.Topics), func(i int) string { return c.Advanced.Topics[i].ID })

	return errors.Join(v.errs...)
}

type validator struct {
	errs []error
}

func (v *validator) fail(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidContent}, args...)...))
}

func (v *validator) nonEmpty(where string, n int) {
	if n == 0 {
		v.fail("%s: empty", where)
	}
}

// ids requires non-empty identifiers that are unique within one list.
func (v *validator) ids(where string, n int, id func(int) string) {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		s := id(i)
		switch {
		case s == "":
			v.fail("%s[%d]: empty id", where, i)
		case seen[s]:
			v.fail("%s: duplicate id %q", where, s)
		}
		seen[s] = true
	}
}
