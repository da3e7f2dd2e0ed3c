package registry

import (
	"encoding/json"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DownloadDir is the name of the download directory under a registry root.
const DownloadDir = "cache"

// HandlerOptions configures NewHandler.
type HandlerOptions struct {
	// BaseURL is the externally visible URL of the server. Empty means
	// derive it from each request's Host header.
	BaseURL string

	// Middlewares are applied before routing, e.g. a request logger.
	Middlewares []func(http.Handler) http.Handler
}

// NewHandler serves the registry rooted at root as a sparse HTTP registry:
//
//	GET /index/config.json                     dl rewritten to <base>/cache
//	GET /index/<shard>/<name>                  index file
//	GET /cache/{name}/{version}/download       crate archive
//
// Cargo uses it with `index = "sparse+<base>/index/"`.
func NewHandler(root string, opts HandlerOptions) http.Handler {
	h := &handler{root: root, base: strings.TrimSuffix(opts.BaseURL, "/")}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	for _, mw := range opts.Middlewares {
		r.Use(mw)
	}
	r.Get("/index/"+ConfigFile, h.config)
	r.Get("/index/*", h.index)
	r.Get("/"+DownloadDir+"/{name}/{version}/download", h.download)
	return r
}

type handler struct {
	root string
	base string
}

func (h *handler) baseURL(r *http.Request) string {
	if h.base != "" {
		return h.base
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h *handler) config(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(filepath.Join(h.root, IndexDir, ConfigFile)); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Config{DL: h.baseURL(r) + "/" + DownloadDir, API: ""})
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	if !servable(rel) {
		http.NotFound(w, r)
		return
	}
	file := filepath.Join(h.root, IndexDir, filepath.FromSlash(rel))
	if _, err := os.Stat(file); err != nil {
		// Cargo lowercases sparse index paths, but files keep the crate's
		// own spelling, e.g. In/fl/Inflector.
		if folded, ok := lookupFold(filepath.Join(h.root, IndexDir), rel); ok {
			file = folded
		}
	}
	h.serveFile(w, r, file, "text/plain; charset=utf-8")
}

// lookupFold resolves rel under dir matching each component case-insensitively.
func lookupFold(dir, rel string) (string, bool) {
	for _, part := range strings.Split(rel, "/") {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", false
		}
		match := ""
		for _, e := range entries {
			if strings.EqualFold(e.Name(), part) {
				match = e.Name()
				break
			}
		}
		if match == "" {
			return "", false
		}
		dir = filepath.Join(dir, match)
	}
	return dir, true
}

func (h *handler) download(w http.ResponseWriter, r *http.Request) {
	name, version := chi.URLParam(r, "name"), chi.URLParam(r, "version")
	if !servable(name) || !servable(version) {
		http.NotFound(w, r)
		return
	}
	h.serveFile(w, r, filepath.Join(h.root, DownloadDir, name, version, "download"), "application/gzip")
}

func (h *handler) serveFile(w http.ResponseWriter, r *http.Request, path, contentType string) {
	f, err := os.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, "", info.ModTime(), f)
}

// servable rejects empty, parent-relative and hidden paths, which keeps
// ".git" and ".snapshots" private.
func servable(rel string) bool {
	if rel == "" || path.Clean("/"+rel) != "/"+rel {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if part == "" || strings.HasPrefix(part, ".") {
			return false
		}
	}
	return true
}
