// Package web serves the embedded single-page chat frontend. The page owns
// all conversation state; a reload starts a fresh session.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Handler returns the file server for the embedded frontend assets.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The static directory is embedded at build time; this cannot
		// fail at runtime.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
