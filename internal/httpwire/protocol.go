// Package httpwire implements the small subset of HTTP/1.1 framing the
// server speaks: the request line in, a fixed-header response out.
package httpwire

import "strconv"

// Request holds the two fields taken from a request line.
type Request struct {
	Method string
	Path   string
}

// DefaultRequest is used whenever the request line cannot be parsed.
var DefaultRequest = Request{Method: "GET", Path: "/"}

// Status is a response status with its reason phrase.
type Status struct {
	Code   int
	Phrase string
}

// Line renders the status line without the trailing CRLF.
func (s Status) Line() string {
	return "HTTP/1.1 " + strconv.Itoa(s.Code) + " " + s.Phrase
}

var (
	StatusOK               = Status{200, "OK"}
	StatusNotFound         = Status{404, "NOT FOUND"}
	StatusMethodNotAllowed = Status{405, "METHOD NOT ALLOWED"}
	StatusInternalError    = Status{500, "INTERNAL SERVER ERROR"}
)

// Fixed diagnostic bodies.
const (
	HelloBody            = "Hello, Rustacean!"
	NotFoundBody         = "Page not found"
	MethodNotAllowedBody = "Method not allowed"
	InternalErrorBody    = "Error reading file"
)
