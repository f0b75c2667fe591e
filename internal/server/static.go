package server

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

const rootBanner = "API VideoShare backend is running successfully!\n"

// staticHandler serves the front-end bundle from one or more roots.
// Real files win; extension-less paths fall back to index.html.
type staticHandler struct {
	roots []fs.FS
}

func newStaticHandler(roots []fs.FS) *staticHandler {
	var nonNil []fs.FS
	for _, r := range roots {
		if r != nil {
			nonNil = append(nonNil, r)
		}
	}
	return &staticHandler{roots: nonNil}
}

// serveRoot serves index.html when a bundle exists, else a plain-text banner
func (h *staticHandler) serveRoot(w http.ResponseWriter, r *http.Request) {
	if root, ok := h.find("index.html"); ok {
		http.ServeFileFS(w, r, root, "index.html")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(rootBanner))
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		h.serveRoot(w, r)
		return
	}

	if root, ok := h.find(name); ok {
		http.ServeFileFS(w, r, root, name)
		return
	}
	if root, ok := h.find(path.Join(name, "index.html")); ok {
		http.ServeFileFS(w, r, root, path.Join(name, "index.html"))
		return
	}

	// Missing assets are real 404s; client-side routes get the SPA shell
	if path.Ext(name) == "" {
		if root, ok := h.find("index.html"); ok {
			http.ServeFileFS(w, r, root, "index.html")
			return
		}
	}
	handleNotFound(w, r)
}

// find returns the first root holding a regular file called name
func (h *staticHandler) find(name string) (fs.FS, bool) {
	if !fs.ValidPath(name) {
		return nil, false
	}
	for _, root := range h.roots {
		info, err := fs.Stat(root, name)
		if err == nil && info.Mode().IsRegular() {
			return root, true
		}
	}
	return nil, false
}
