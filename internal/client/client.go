// Package client is the wire-protocol counterpart of the relay server.
//
// Ownership boundary:
// - one dial / one request / one framed response per Fetch call
// - decoded-body persistence with URL-derived filenames
package client

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/danmuck/relayctl/internal/protocol/wire"
)

const DefaultTimeout = 30 * time.Second

var (
	ErrAddressRequired = errors.New("client: relay address required")
	ErrURLRequired     = errors.New("client: url required")
)

type Config struct {
	Address string
	Timeout time.Duration
}

// Client fetches URLs through one relay endpoint. Each Fetch call owns its
// own connection; the type is not meant for concurrent calls on one socket.
type Client struct {
	cfg Config
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Address) == "" {
		return nil, ErrAddressRequired
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{cfg: cfg}, nil
}

// Fetch sends rawURL through the relay and returns the decoded body and
// content-type. Every protocol violation surfaces as an error; a partial body
// is never returned silently.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, "", ErrURLRequired
	}

	dialer := net.Dialer{Timeout: c.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Address)
	if err != nil {
		return nil, "", err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.cfg.Timeout))

	if err := wire.WriteRequestLine(conn, rawURL); err != nil {
		return nil, "", err
	}

	frame, err := wire.ReadFrame(conn)
	if err != nil {
		return nil, "", err
	}
	return frame.Body, frame.ContentType, nil
}
