package livetest

import (
	"regexp"
	"strings"
	"testing"
)

// HTMLAssert checks rendered markup. Failures are reported with t.Errorf
// so one call can surface several problems.
type HTMLAssert struct {
	t    testing.TB
	html string
}

// AssertHTML returns assertions over html.
func AssertHTML(t testing.TB, html string) *HTMLAssert {
	return &HTMLAssert{t: t, html: html}
}

// HasElement asserts an opening tag exists carrying every attr, given as
// `name="value"` or a bare name.
func (h *HTMLAssert) HasElement(tag string, attrs ...string) *HTMLAssert {
	h.t.Helper()
	re := regexp.MustCompile(`<` + regexp.QuoteMeta(tag) + `(\s[^>]*)?>`)
	for _, open := range re.FindAllString(h.html, -1) {
		if hasAll(open, attrs) {
			return h
		}
	}
	h.t.Errorf("no <%s> element with %v in:\n%s", tag, attrs, h.html)
	return h
}

func hasAll(open string, attrs []string) bool {
	for _, a := range attrs {
		if !strings.Contains(open, a) {
			return false
		}
	}
	return true
}

// HasText asserts the markup contains text.
func (h *HTMLAssert) HasText(text string) *HTMLAssert {
	h.t.Helper()
	if !strings.Contains(h.html, text) {
		h.t.Errorf("text %q not found in:\n%s", text, h.html)
	}
	return h
}

// HasClass asserts some element carries class.
func (h *HTMLAssert) HasClass(class string) *HTMLAssert {
	h.t.Helper()
	re := regexp.MustCompile(`class="(?:[^"]*\s)?` + regexp.QuoteMeta(class) + `(?:\s[^"]*)?"`)
	if !re.MatchString(h.html) {
		h.t.Errorf("class %q not found", class)
	}
	return h
}

// HasID asserts some element has id.
func (h *HTMLAssert) HasID(id string) *HTMLAssert {
	h.t.Helper()
	if !strings.Contains(h.html, `id="`+id+`"`) {
		h.t.Errorf("id %q not found", id)
	}
	return h
}

// NoText asserts the markup does not contain text.
func (h *HTMLAssert) NoText(text string) *HTMLAssert {
	h.t.Helper()
	if strings.Contains(h.html, text) {
		h.t.Errorf("unexpected text %q", text)
	}
	return h
}
