// Package fetch is the retrieval collaborator for the relay server.
//
// Ownership boundary:
// - outbound HTTP(S) retrieval with a bounded timeout
// - failure classification into status/transport/other
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultContentType is reported when the origin declares none.
	DefaultContentType = "application/octet-stream"
	// DefaultTimeout bounds one retrieval attempt end to end.
	DefaultTimeout = 15 * time.Second

	defaultUserAgent = "relayd/0.1"
)

// Result is one successful retrieval.
type Result struct {
	Body        []byte
	ContentType string
}

// Fetcher retrieves one URL. Exactly one attempt is made per call.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Result, error)
}

// StatusError reports an origin response with an error status.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.Code, e.Reason)
}

// TransportError reports a resolution, connection, or URL failure.
type TransportError struct {
	Reason string
}

func (e *TransportError) Error() string {
	return "URL error: " + e.Reason
}

// Message formats err the way the relay reports fetch outcomes to clients.
// Status and transport failures keep their structured message text; anything
// else falls back to a generic description.
func Message(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Error()
	}
	return "Fetch failed: " + err.Error()
}

// HTTPFetcher retrieves URLs with a dedicated stdlib HTTP client.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		timeout:   timeout,
	}
}

var _ Fetcher = (*HTTPFetcher)(nil)

// Fetch retrieves rawURL and reads the full body before returning, since the
// relay frame header needs the byte length up front.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{}, &TransportError{Reason: err.Error()}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return Result{}, &StatusError{Code: resp.StatusCode, Reason: statusReason(resp)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &TransportError{Reason: err.Error()}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = DefaultContentType
	}
	return Result{Body: body, ContentType: contentType}, nil
}

func classifyTransport(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &TransportError{Reason: urlErr.Err.Error()}
	}
	return &TransportError{Reason: err.Error()}
}

func statusReason(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
