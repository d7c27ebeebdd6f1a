package httpwire

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// ParseRequest extracts method and path from the first line of raw.
// It fails when raw is not valid UTF-8 or the line has fewer than two
// whitespace separated fields. Neither field is validated further, so a
// query string stays part of the path.
func ParseRequest(raw []byte) (Request, bool) {
	if !utf8.Valid(raw) {
		return Request{}, false
	}

	line := string(raw)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSuffix(line, "\r")

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Request{}, false
	}
	return Request{Method: fields[0], Path: fields[1]}, true
}

// ParseRequestOrDefault treats anything unparsable as a request for the root.
func ParseRequestOrDefault(raw []byte) (req Request, ok bool) {
	req, ok = ParseRequest(raw)
	if !ok {
		return DefaultRequest, false
	}
	return req, true
}

// Lossy decodes raw for display, replacing invalid sequences with U+FFFD.
// The result is for logs only and must never drive routing.
func Lossy(raw []byte) string {
	// The decoder substitutes invalid input instead of failing.
	s, _ := unicode.UTF8.NewDecoder().String(string(raw))
	return s
}
