// Package web embeds the browser UI: the upload widget, the file list, and
// the preview modal. The assets are compiled into the binary and served from
// the HTTP root.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var content embed.FS

// FS returns the embedded UI rooted at the static directory, ready for the
// filesystem middleware.
func FS() http.FileSystem {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		// The subtree is fixed at compile time; this cannot fail at runtime.
		panic(err)
	}
	return http.FS(sub)
}
