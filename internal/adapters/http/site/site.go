// Package site serves the embedded landing page and its assets.
package site

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

// Prefix is the URL path the embedded assets are mounted under.
const Prefix = "/static/"

// Error constants
var (
	ErrServe = errors.New("landing site serve failed")
)

// Register mounts the embedded site under Prefix.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET "+Prefix, Handler())
}

// Handler serves the embedded files with Prefix stripped. index.html is
// served in place instead of being redirected to the directory.
func Handler() http.Handler {
	files := http.FileServer(FS())
	return http.StripPrefix(strings.TrimSuffix(Prefix, "/"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/index.html" {
			serveIndex(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}))
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	b, err := fs.ReadFile(staticFS, "static/index.html")
	if err != nil {
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(b))
}
