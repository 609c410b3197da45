package relay

import (
	"context"
	"errors"
	"net"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/relayctl/internal/fetch"
	"github.com/danmuck/relayctl/internal/observability"
	"github.com/danmuck/relayctl/internal/protocol/wire"
)

// Relay endpoint configuration.
type ServiceConfig struct {
	NodeID           string
	ListenAddr       string
	AdminListenAddr  string
	AdminCorsOrigins []string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	FetchTimeout     time.Duration
	MaxRequestBytes  int
}

// Relay service defaults for endpoint configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		NodeID:          "relay.local",
		ListenAddr:      ":8888",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		FetchTimeout:    15 * time.Second,
		MaxRequestBytes: wire.MaxRequestLineBytes,
	}
}

// WithDefaults backfills zero-valued fields from DefaultServiceConfig.
func (c ServiceConfig) WithDefaults() ServiceConfig {
	def := DefaultServiceConfig()
	if strings.TrimSpace(c.NodeID) == "" {
		c.NodeID = def.NodeID
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = def.ListenAddr
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = def.FetchTimeout
	}
	if c.MaxRequestBytes <= 0 {
		c.MaxRequestBytes = def.MaxRequestBytes
	}
	return c
}

// Relay runtime service. Each accepted connection is handled start-to-finish
// by its own goroutine; handlers share no mutable state beyond counters.
type Service struct {
	cfg     ServiceConfig
	fetcher fetch.Fetcher

	started     time.Time
	clientCount atomic.Int64
}

// Relay service constructor using default configuration.
func NewService() *Service {
	return NewServiceWithConfig(DefaultServiceConfig())
}

// Relay service constructor using explicit configuration.
func NewServiceWithConfig(cfg ServiceConfig) *Service {
	cfg = cfg.WithDefaults()
	return &Service{
		cfg:     cfg,
		fetcher: fetch.NewHTTPFetcher(cfg.FetchTimeout),
		started: time.Now(),
	}
}

// SetFetcher replaces the retrieval collaborator. Must be called before Serve.
func (s *Service) SetFetcher(f fetch.Fetcher) {
	if f != nil {
		s.fetcher = f
	}
}

// ActiveConnections reports the number of in-flight handlers.
func (s *Service) ActiveConnections() int64 {
	return s.clientCount.Load()
}

// Relay runtime entrypoint that blocks until signal shutdown.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Str("node", s.cfg.NodeID).Msg("relay listening")

	adminErr := make(chan error, 1)
	if addr := strings.TrimSpace(s.cfg.AdminListenAddr); addr != "" {
		go func() {
			adminErr <- s.serveAdmin(ctx, addr)
		}()
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Serve(ctx, ln)
	}()
	select {
	case err := <-serveErr:
		return err
	case err := <-adminErr:
		if err != nil {
			return err
		}
		return <-serveErr
	}
}

// Relay accept loop on an existing listener. Context cancellation stops
// accepting; in-flight handlers run to natural completion before return.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	accepting := make(chan struct{})
	defer close(accepting)
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-accepting:
		}
	}()

	var handlers sync.WaitGroup
	defer handlers.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		handlers.Add(1)
		go func() {
			defer handlers.Done()
			s.handleConn(conn)
		}()
	}
}

// Relay connection handler: one URL line in, one framed response out. The
// connection is closed unconditionally on every exit path.
func (s *Service) handleConn(conn net.Conn) {
	defer conn.Close()
	logger := observability.ConnLogger(s.cfg.NodeID, conn.RemoteAddr().String())
	active := s.clientCount.Add(1)
	observability.RecordConnection(s.cfg.NodeID)
	logger.Debug().Int64("active", active).Msg("client connected")
	defer func() {
		remaining := s.clientCount.Add(-1)
		logger.Debug().Int64("active", remaining).Msg("client disconnected")
	}()

	_ = conn.SetDeadline(time.Now().Add(s.cfg.ReadTimeout))

	line, err := wire.ReadRequestLine(conn, s.cfg.MaxRequestBytes)
	if err != nil {
		switch {
		case errors.Is(err, wire.ErrNoRequest):
			logger.Warn().Msg("connection closed before request line")
		case errors.Is(err, wire.ErrRequestTooLong):
			s.sendError(conn, logger, "request line too long")
		case isTimeout(err):
			logger.Warn().Msg("connection timed out")
		default:
			logger.Warn().Err(err).Msg("request read failed")
		}
		return
	}

	rawURL, err := wire.ParseRequestLine(line)
	if err != nil {
		switch {
		case errors.Is(err, wire.ErrInvalidEncoding):
			s.sendError(conn, logger, "invalid URL encoding, expected UTF-8")
		case errors.Is(err, wire.ErrEmptyRequest):
			s.sendError(conn, logger, "no URL received")
		default:
			s.sendError(conn, logger, err.Error())
		}
		return
	}

	logger.Info().Str("url", rawURL).Msg("fetching url")

	fetchCtx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
	defer cancel()
	start := time.Now()
	result, err := s.fetcher.Fetch(fetchCtx, rawURL)
	if err != nil {
		observability.RecordFetch(s.cfg.NodeID, "error", time.Since(start))
		msg := fetch.Message(err)
		logger.Warn().Str("url", rawURL).Msg(msg)
		s.sendError(conn, logger, msg)
		return
	}
	observability.RecordFetch(s.cfg.NodeID, "success", time.Since(start))

	_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if err := wire.WriteFrame(conn, wire.Frame{ContentType: result.ContentType, Body: result.Body}); err != nil {
		logger.Error().Err(err).Msg("write response frame failed")
		return
	}
	observability.RecordFrame(s.cfg.NodeID, "success", len(result.Body))
	logger.Info().
		Int("bytes", len(result.Body)).
		Str("content_type", result.ContentType).
		Msg("response sent")
}

// sendError writes an error frame best-effort. The connection is already in a
// failure state, so a failed write is logged and swallowed.
func (s *Service) sendError(conn net.Conn, logger zerolog.Logger, message string) {
	_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if err := wire.WriteError(conn, message); err != nil {
		logger.Warn().Err(err).Msg("write error frame failed")
		return
	}
	observability.RecordFrame(s.cfg.NodeID, "error", len(message))
	logger.Warn().Str("message", message).Msg("error frame sent")
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
