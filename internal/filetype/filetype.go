// Package filetype holds the compiled-in upload constraints: the size cap,
// the MIME allow-list, and the extension lookup used when metadata has to be
// reconstructed from a stored filename.
package filetype

import "strings"

// MaxUploadBytes caps a single upload at 10 MiB.
const MaxUploadBytes int64 = 10 << 20

// allowed is the set of MIME types accepted by the upload endpoint.
var allowed = map[string]struct{}{
	"image/jpeg":         {},
	"image/png":          {},
	"image/gif":          {},
	"image/webp":         {},
	"application/pdf":    {},
	"text/plain":         {},
	"text/markdown":      {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// byExtension maps stored-file extensions back to MIME types.
var byExtension = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"md":   "text/markdown",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Allowed reports whether the declared content type may be uploaded.
// Media type parameters (e.g. "text/plain; charset=utf-8") are ignored.
func Allowed(contentType string) bool {
	mt, _, _ := strings.Cut(contentType, ";")
	_, ok := allowed[strings.ToLower(strings.TrimSpace(mt))]
	return ok
}

// ByExtension infers a MIME type from a file extension (with or without the
// leading dot). Unrecognized extensions fall back to application/octet-stream.
func ByExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if mt, ok := byExtension[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}
