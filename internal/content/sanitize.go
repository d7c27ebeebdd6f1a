// Package content maps request paths onto files under the content root.
package content

import "strings"

// Sanitize turns a request path into a relative path with no empty, "."
// or ".." segments, so joining it under the content root can never
// escape that root. Symlinks and letter case are left alone.
func Sanitize(raw string) string {
	raw = strings.TrimPrefix(raw, "/")

	parts := strings.Split(raw, "/")
	kept := parts[:0]
	for _, p := range parts {
		switch p {
		case "", ".", "..":
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "/")
}
