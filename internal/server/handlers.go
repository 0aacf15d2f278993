package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/onekit-js/onekit-site/client"
	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/export"
	"github.com/onekit-js/onekit-site/internal/search"
	"github.com/onekit-js/onekit-site/internal/website"
	"github.com/onekit-js/onekit-site/pkg/logging"
	"github.com/onekit-js/onekit-site/pkg/security"
)

// maxQueryLen bounds the search query; longer input is truncated.
const maxQueryLen = 200

var stylesheet = sync.OnceValues(func() ([]byte, error) {
	css, err := website.Stylesheet()
	return []byte(css), err
})

var scriptHandler = sync.OnceValue(client.Handler)

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	scriptHandler().ServeHTTP(w, r)
}

func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	css, err := stylesheet()
	if err != nil {
		logging.L(r.Context()).Error("stylesheet failed", logging.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeContent(w, r, "site.css", time.Time{}, bytes.NewReader(css))
}

// writeGenerated renders into a buffer first so a failure can still become
// a 500.
func (s *Server) writeGenerated(w http.ResponseWriter, r *http.Request, contentType string, gen func(io.Writer) error) {
	var buf bytes.Buffer
	if err := gen(&buf); err != nil {
		logging.L(r.Context()).Error("generate response failed",
			logging.String("path", r.URL.Path),
			logging.Err(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	s.writeGenerated(w, r, "text/plain; charset=utf-8", func(w io.Writer) error {
		return export.Robots(w, s.cfg.Server.BaseURL)
	})
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	s.writeGenerated(w, r, "application/xml; charset=utf-8", func(w io.Writer) error {
		return export.Sitemap(w, s.store.Current(), s.cfg.Server.BaseURL, s.store.LoadedAt())
	})
}

func (s *Server) handleLLMs(w http.ResponseWriter, r *http.Request) {
	s.writeGenerated(w, r, "text/plain; charset=utf-8", func(w io.Writer) error {
		return export.LLMs(w, s.store.Current(), s.cfg.Server.BaseURL)
	})
}

type searchResponse struct {
	Query   string          `json:"query"`
	Count   int             `json:"count"`
	Results []content.Entry `json:"results"`
}

// handleSearch matches q against usage examples, components and API
// methods. An empty query returns every entry.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := security.NormalizeWhitespace(r.URL.Query().Get("q"))
	if runes := []rune(q); len(runes) > maxQueryLen {
		q = string(runes[:maxQueryLen])
	}

	results := search.Filter(s.store.Current().Entries(), q)
	if results == nil {
		results = []content.Entry{}
	}
	s.metrics.SearchServed()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(searchResponse{
		Query:   q,
		Count:   len(results),
		Results: results,
	})
}
