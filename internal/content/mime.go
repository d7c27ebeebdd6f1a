package content

import "strings"

const fallbackType = "text/plain"

var typesByExt = map[string]string{
	"html": "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"json": "application/json",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"xml":  "application/xml",
	"webp": "image/webp",
}

// Ext returns the text after the last dot of the final path segment.
// A segment that only starts with a dot (".env") has no extension and a
// single trailing slash is ignored.
func Ext(path string) string {
	path = strings.TrimSuffix(path, "/")
	name := path[strings.LastIndexByte(path, '/')+1:]
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i+1:]
}

// ContentType maps path to a MIME type by extension. Matching is case
// sensitive and anything unknown is served as text/plain.
func ContentType(path string) string {
	if ct, ok := typesByExt[Ext(path)]; ok {
		return ct
	}
	return fallbackType
}

// IsBinary reports whether a file of this type must be sent as raw bytes
// rather than read as text.
func IsBinary(contentType string) bool {
	return !strings.HasPrefix(contentType, "text/") && contentType != "application/javascript"
}
