//go:build !dev

package resources

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var staticFS embed.FS

// Embedded assets change only with the binary.
const cacheControl = "public, max-age=3600"

func defaultFS() fs.FS {
	fsys, _ := fs.Sub(staticFS, "static")
	return fsys
}
