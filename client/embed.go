// Package client embeds the browser script that attaches server-rendered
// pages to their live session.
package client

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
	"net/http"
	"sync"
	"time"
)

// ScriptName is the live client script.
const ScriptName = "onekit-live.js"

//go:embed src/*.js
var assets embed.FS

// Assets returns the embedded filesystem containing JavaScript files.
func Assets() fs.FS {
	fsys, err := fs.Sub(assets, "src")
	if err != nil {
		panic(err)
	}
	return fsys
}

// MustGetFile returns the contents of an embedded file.
// Panics if the file doesn't exist.
func MustGetFile(name string) []byte {
	data, err := assets.ReadFile("src/" + name)
	if err != nil {
		panic(err)
	}
	return data
}

var etag = sync.OnceValue(func() string {
	sum := sha256.Sum256(MustGetFile(ScriptName))
	return `"` + hex.EncodeToString(sum[:8]) + `"`
})

// Handler serves the live client script with a content-hash ETag.
func Handler() http.Handler {
	data := MustGetFile(ScriptName)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.Header().Set("ETag", etag())
		http.ServeContent(w, r, ScriptName, time.Time{}, bytes.NewReader(data))
	})
}
