package server

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/creamcroissant/nebula/internal/config"
	"github.com/creamcroissant/nebula/internal/content"
	"github.com/creamcroissant/nebula/internal/httpwire"
	"github.com/google/uuid"
)

// conn handles exactly one request on one accepted connection.
type conn struct {
	rwc      net.Conn
	resolver content.Resolver
	opts     Options
	metrics  *Metrics
	logger   *slog.Logger

	start  time.Time
	raw    []byte
	req    httpwire.Request
	target content.Target
	res    httpwire.Response
	err    error
}

type stateFunc func(*conn) stateFunc

func newConn(rwc net.Conn, cfg config.Config, opts Options) *conn {
	remote := ""
	if addr := rwc.RemoteAddr(); addr != nil {
		remote = addr.String()
	}
	return &conn{
		rwc:      rwc,
		resolver: content.NewResolver(cfg.Content.PublicDir, cfg.Content.DefaultFile),
		opts:     opts,
		metrics:  opts.Metrics,
		logger:   opts.Logger.With("conn_id", uuid.NewString(), "remote", remote),
	}
}

// serve runs the pipeline to completion. It owns rwc and closes it.
func (c *conn) serve() {
	c.start = time.Now()
	c.metrics.connOpened()

	for state := readRequest; state != nil; {
		state = state(c)
	}
}

// state funcs

func readRequest(c *conn) stateFunc {
	if err := c.rwc.SetReadDeadline(time.Now().Add(c.opts.ReadTimeout)); err != nil {
		c.err = err
		return failRead
	}

	buf := make([]byte, c.opts.BufferSize)
	n, err := c.rwc.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		c.err = err
		return failRead
	}
	c.raw = buf[:n]
	return parseRequest
}

func parseRequest(c *conn) stateFunc {
	c.logger.Info("request received", "raw", httpwire.Lossy(c.raw))

	req, ok := httpwire.ParseRequestOrDefault(c.raw)
	if !ok {
		c.logger.Debug("unparsable request line, serving root", "bytes", len(c.raw))
	}
	c.req = req
	c.logger.Info("request", "method", req.Method, "path", req.Path)
	return resolveTarget
}

func resolveTarget(c *conn) stateFunc {
	c.target = c.resolver.Resolve(c.req.Path)
	return buildResponse
}

func buildResponse(c *conn) stateFunc {
	ct := c.target.ContentType

	switch {
	case c.req.Method != "GET":
		c.res = httpwire.MethodNotAllowed(ct)
	case c.target.Exists:
		body, err := content.Read(c.target)
		if err != nil {
			c.logger.Error("failed to read file", "file", c.target.Path, "error", err)
			c.res = httpwire.InternalError(ct)
			break
		}
		c.res = httpwire.OK(ct, body)
	case c.req.Path == "/hello":
		c.res = httpwire.Hello(ct)
	default:
		c.res = httpwire.NotFound(ct)
	}
	return writeResponse
}

func writeResponse(c *conn) stateFunc {
	if err := c.rwc.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
		c.err = err
		return failWrite
	}

	n, err := c.res.WriteTo(c.rwc)
	if err != nil {
		c.err = err
		return failWrite
	}
	c.metrics.responded(c.req.Method, c.res.Status.Code, n)
	c.logger.Info("response sent",
		"status", c.res.Status.Code,
		"content_type", c.res.ContentType,
		"bytes", len(c.res.Body),
		"duration", time.Since(c.start),
	)
	return finish
}

func failRead(c *conn) stateFunc {
	c.metrics.failed(stageRead)
	c.logger.Warn("failed to read request", "error", c.err)
	return finish
}

func failWrite(c *conn) stateFunc {
	c.metrics.failed(stageWrite)
	c.logger.Warn("failed to write response", "status", c.res.Status.Code, "error", c.err)
	return finish
}

func finish(c *conn) stateFunc {
	if err := c.rwc.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.logger.Debug("close failed", "error", err)
	}
	c.metrics.connClosed(c.start)
	return nil
}
