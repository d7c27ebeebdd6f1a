package httpwire

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	ErrWriteHeader = errors.New("write response header")
	ErrWriteBody   = errors.New("write response body")
)

// Response is a complete outcome: status, content type and body.
type Response struct {
	Status      Status
	ContentType string
	Body        []byte
}

func OK(contentType string, body []byte) Response {
	return Response{Status: StatusOK, ContentType: contentType, Body: body}
}

func Hello(contentType string) Response {
	return Response{Status: StatusOK, ContentType: contentType, Body: []byte(HelloBody)}
}

func NotFound(contentType string) Response {
	return Response{Status: StatusNotFound, ContentType: contentType, Body: []byte(NotFoundBody)}
}

func MethodNotAllowed(contentType string) Response {
	return Response{Status: StatusMethodNotAllowed, ContentType: contentType, Body: []byte(MethodNotAllowedBody)}
}

func InternalError(contentType string) Response {
	return Response{Status: StatusInternalError, ContentType: contentType, Body: []byte(InternalErrorBody)}
}

// Header renders the status line and headers, terminated by the blank line.
func (r Response) Header() []byte {
	buf := make([]byte, 0, 96+len(r.ContentType))
	buf = append(buf, r.Status.Line()...)
	buf = append(buf, "\r\nContent-Type: "...)
	buf = append(buf, r.ContentType...)
	buf = append(buf, "\r\nContent-Length: "...)
	buf = strconv.AppendInt(buf, int64(len(r.Body)), 10)
	buf = append(buf, "\r\n\r\n"...)
	return buf
}

// WriteTo sends the header and then the body as two separate writes. A
// failed body write is reported as is; the header already sent stays sent.
func (r Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Header())
	total := int64(n)
	if err != nil {
		return total, fmt.Errorf("%w: %w", ErrWriteHeader, err)
	}
	if len(r.Body) == 0 {
		return total, nil
	}
	n, err = w.Write(r.Body)
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("%w: %w", ErrWriteBody, err)
	}
	return total, nil
}
