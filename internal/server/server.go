// 文件路径: internal/server/server.go
// 模块说明: 监听循环与连接分发，每个连接一个 goroutine。
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/creamcroissant/nebula/internal/config"
)

const (
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultBufferSize   = 1024
)

// Options 控制单个连接的超时与读缓冲，以及日志和指标。
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// BufferSize bounds the single read of the request; nothing past it is seen.
	BufferSize int

	Logger  *slog.Logger
	Metrics *Metrics

	// AcceptBackoff spaces out consecutive accept failures.
	AcceptBackoff AcceptBackoffConfig
}

// AcceptBackoffConfig 控制 accept 失败后的退避间隔。
type AcceptBackoffConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func normalizeOptions(opts Options) Options {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.AcceptBackoff.InitialInterval <= 0 {
		opts.AcceptBackoff.InitialInterval = 5 * time.Millisecond
	}
	if opts.AcceptBackoff.MaxInterval <= 0 {
		opts.AcceptBackoff.MaxInterval = time.Second
	}
	return opts
}

// Server accepts connections and hands each one, together with the
// configuration snapshot, to its own goroutine.
type Server struct {
	cfg    config.Config
	opts   Options
	logger *slog.Logger
}

// New creates a Server. cfg is copied and never modified afterwards.
func New(cfg config.Config, opts Options) *Server {
	opts = normalizeOptions(opts)
	return &Server{
		cfg:    cfg,
		opts:   opts,
		logger: opts.Logger,
	}
}

// Config returns the snapshot the server hands to every connection.
func (s *Server) Config() config.Config {
	return s.cfg
}

// ListenAndServe binds the configured address and serves until ctx is done.
// A bind failure is returned to the caller.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.ListenAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.logger.Info("server is listening",
		"url", "http://"+ln.Addr().String(),
		"public_dir", s.cfg.Content.PublicDir,
		"default_file", s.cfg.Content.DefaultFile,
	)
	return s.Serve(ctx, ln)
}

// Serve runs the accept loop on ln. Accept errors are logged and the loop
// keeps going; it ends only once ln is closed, which happens when ctx is
// cancelled. Connections still in flight are not waited for.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stop()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.opts.AcceptBackoff.InitialInterval
	bo.MaxInterval = s.opts.AcceptBackoff.MaxInterval
	bo.MaxElapsedTime = 0
	bo.Reset()

	for {
		rwc, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("accept: %w", err)
			}

			s.opts.Metrics.failed(stageAccept)
			delay := bo.NextBackOff()
			s.logger.Error("connection failed", "error", err, "retry_in", delay)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}
		bo.Reset()

		c := newConn(rwc, s.cfg, s.opts)
		go c.serve()
	}
}
