package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/website/pages"
	"github.com/onekit-js/onekit-site/pkg/core"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Target is one renderable address: a page path plus the params of a variant.
type Target struct {
	Path   string
	Params core.Params
}

// URL returns the request URI of the target.
func (t Target) URL() string {
	if len(t.Params) == 0 {
		return t.Path
	}
	q := url.Values{}
	for k, v := range t.Params {
		q.Set(k, v)
	}
	return t.Path + "?" + q.Encode()
}

// File returns the export file name of the target, relative to the output
// directory.
func (t Target) File() string {
	dir := strings.Trim(t.Path, "/")
	keys := make([]string, 0, len(t.Params))
	for k := range t.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		dir += "/" + url.PathEscape(k) + "/" + url.PathEscape(t.Params[k])
	}
	dir = strings.TrimPrefix(dir, "/")
	if dir == "" {
		return "index.html"
	}
	return dir + "/index.html"
}

// Targets lists every page followed by its variants, in navigation order.
func Targets(c *content.Content) []Target {
	var out []Target
	for _, p := range pages.All() {
		out = append(out, Target{Path: p.Path})
		for _, params := range p.VariantsOf(c) {
			out = append(out, Target{Path: p.Path, Params: params})
		}
	}
	return out
}

// Sitemap writes a sitemaps.org document listing every page and variant.
func Sitemap(w io.Writer, c *content.Content, baseURL string, modified time.Time) error {
	base := strings.TrimRight(baseURL, "/")
	set := urlset{Xmlns: sitemapNS}

	var lastmod string
	if !modified.IsZero() {
		lastmod = modified.UTC().Format("2006-01-02")
	}
	for _, t := range Targets(c) {
		priority := "0.5"
		switch {
		case t.Path == "/" && len(t.Params) == 0:
			priority = "1.0"
		case len(t.Params) == 0:
			priority = "0.8"
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + t.URL(),
			LastMod:    lastmod,
			ChangeFreq: "weekly",
			Priority:   priority,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Robots writes a robots.txt that allows everything and points at the sitemap.
func Robots(w io.Writer, baseURL string) error {
	_, err := fmt.Fprintf(w, "User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", strings.TrimRight(baseURL, "/"))
	return err
}
