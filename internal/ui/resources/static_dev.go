//go:build dev

package resources

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

const cacheControl = "no-cache"

// getStaticDir derives the absolute path to the static directory
// relative to this source file, regardless of where the binary is run from.
func getStaticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

func defaultFS() fs.FS {
	dir := getStaticDir()
	slog.Info("static assets served from filesystem", "path", dir)
	return os.DirFS(dir)
}
