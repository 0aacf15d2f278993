package client

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssets(t *testing.T) {
	data, err := fs.ReadFile(Assets(), ScriptName)
	require.NoError(t, err)
	assert.Equal(t, MustGetFile(ScriptName), data)
	assert.Contains(t, string(data), "phx_join")
	assert.Contains(t, string(data), `getAttribute("lv-debounce")`)
}

func TestMustGetFile_Missing(t *testing.T) {
	assert.Panics(t, func() { MustGetFile("missing.js") })
}

func TestHandler(t *testing.T) {
	h := Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live/client.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
	assert.Equal(t, MustGetFile(ScriptName), rec.Body.Bytes())

	tag := rec.Header().Get("ETag")
	require.True(t, strings.HasPrefix(tag, `"`) && strings.HasSuffix(tag, `"`), tag)

	req := httptest.NewRequest(http.MethodGet, "/live/client.js", nil)
	req.Header.Set("If-None-Match", tag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}
