// Package resources serves the browser client's static assets.
package resources

import (
	"io/fs"
	"net/http"
	"os"
)

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// FS returns the client assets. A non-empty dir is served from disk;
// otherwise the build's default source is used.
func FS(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	return defaultFS()
}

// Handler returns an HTTP handler serving fsys under /static/.
// Assets read from disk are never cached so edits show up on reload.
func Handler(fsys fs.FS, fromDisk bool) http.Handler {
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(fsys)))
	cache := cacheControl
	if fromDisk {
		cache = "no-cache"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cache)
		fileServer.ServeHTTP(w, r)
	})
}

// Index serves the client page.
func Index(fsys fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFileFS(w, r, fsys, "index.html")
	}
}

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}
