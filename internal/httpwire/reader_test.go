package httpwire

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Request
		ok   bool
	}{
		{name: "simple get", raw: "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n", want: Request{"GET", "/"}, ok: true},
		{name: "no version", raw: "POST /submit", want: Request{"POST", "/submit"}, ok: true},
		{name: "query kept", raw: "GET /a.html?x=1#frag HTTP/1.1\r\n", want: Request{"GET", "/a.html?x=1#frag"}, ok: true},
		{name: "unknown method", raw: "BREW /pot HTTP/1.1\r\n", want: Request{"BREW", "/pot"}, ok: true},
		{name: "extra whitespace", raw: "  GET\t\t/x   HTTP/1.1\n", want: Request{"GET", "/x"}, ok: true},
		{name: "only headers after", raw: "GET\r\n/not-here HTTP/1.1\r\n", ok: false},
		{name: "single token", raw: "GET\r\n", ok: false},
		{name: "empty", raw: "", ok: false},
		{name: "blank first line", raw: "\r\nGET / HTTP/1.1\r\n", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRequest([]byte(tt.raw))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseRequestRejectsInvalidUTF8(t *testing.T) {
	raw := []byte("GET /caf\xe9 HTTP/1.1\r\n")

	_, ok := ParseRequest(raw)
	assert.False(t, ok)

	req, ok := ParseRequestOrDefault(raw)
	assert.False(t, ok)
	assert.Equal(t, DefaultRequest, req)
}

func TestParseRequestOrDefault(t *testing.T) {
	req, ok := ParseRequestOrDefault([]byte("garbage"))
	assert.False(t, ok)
	assert.Equal(t, Request{Method: "GET", Path: "/"}, req)

	req, ok = ParseRequestOrDefault([]byte("DELETE /x HTTP/1.1\r\n"))
	assert.True(t, ok)
	assert.Equal(t, Request{Method: "DELETE", Path: "/x"}, req)
}

func TestLossy(t *testing.T) {
	assert.Equal(t, "GET / HTTP/1.1", Lossy([]byte("GET / HTTP/1.1")))
	assert.Equal(t, "GET /caf�", Lossy([]byte("GET /caf\xe9")))
	assert.True(t, utf8.ValidString(Lossy([]byte("\xff\xfe GET /\xe2\x82"))))
}
