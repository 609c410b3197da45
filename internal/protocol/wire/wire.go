package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	// LengthHeaderLen is the fixed width of the decimal body-length field.
	LengthHeaderLen = 10
	// ContentTypeHeaderLen is the fixed width of the space-padded content-type field.
	ContentTypeHeaderLen = 100
	// MaxRequestLineBytes bounds accumulation while searching for the request newline.
	MaxRequestLineBytes = 8192

	// ErrorContentType is the content-type carried by every error frame.
	ErrorContentType = "text/plain; charset=utf-8"

	readChunkSize = 4096

	// maxBodyBytes is the largest body length representable in LengthHeaderLen digits.
	maxBodyBytes = 9_999_999_999
)

var (
	ErrShortLengthHeader   = errors.New("wire: short length header")
	ErrInvalidLengthHeader = errors.New("wire: invalid length header")
	ErrShortContentType    = errors.New("wire: incomplete content-type header")
	ErrShortBody           = errors.New("wire: short body")
	ErrBodyTooLarge        = errors.New("wire: body too large for length header")
	ErrBrokenWrite         = errors.New("wire: connection broken during write")
	ErrNoRequest           = errors.New("wire: connection closed before request line")
	ErrRequestTooLong      = errors.New("wire: request line too long")
	ErrInvalidEncoding     = errors.New("wire: invalid URL encoding, expected UTF-8")
	ErrEmptyRequest        = errors.New("wire: no URL received")
)

// Frame is one complete relay response on the wire.
type Frame struct {
	ContentType string
	Body        []byte
}

// EncodeHeader builds the fixed 110-byte header for a body of bodyLen bytes.
// The content-type is truncated, never rejected, when its UTF-8 encoding
// exceeds ContentTypeHeaderLen bytes.
func EncodeHeader(bodyLen int64, contentType string) ([]byte, error) {
	if bodyLen < 0 || bodyLen > maxBodyBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, bodyLen)
	}
	buf := make([]byte, LengthHeaderLen+ContentTypeHeaderLen)
	copy(buf, fmt.Sprintf("%0*d", LengthHeaderLen, bodyLen))

	ct := []byte(contentType)
	if len(ct) > ContentTypeHeaderLen {
		ct = ct[:ContentTypeHeaderLen]
	}
	n := copy(buf[LengthHeaderLen:], ct)
	for i := LengthHeaderLen + n; i < len(buf); i++ {
		buf[i] = ' '
	}
	return buf, nil
}

// WriteFrame writes one complete response frame to w. The header is written
// as one unit, then the body, both looping until fully consumed.
func WriteFrame(w io.Writer, f Frame) error {
	header, err := EncodeHeader(int64(len(f.Body)), f.ContentType)
	if err != nil {
		return err
	}
	if err := writeFull(w, header); err != nil {
		return err
	}
	return writeFull(w, f.Body)
}

// WriteError writes an error frame carrying message as a UTF-8 plaintext body.
func WriteError(w io.Writer, message string) error {
	return WriteFrame(w, Frame{ContentType: ErrorContentType, Body: []byte(message)})
}

// ReadFrame reads one complete response frame from r. A body shorter than the
// declared length is a protocol violation and is reported with both counts.
func ReadFrame(r io.Reader) (Frame, error) {
	var lengthHeader [LengthHeaderLen]byte
	if _, err := io.ReadFull(r, lengthHeader[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrShortLengthHeader
		}
		return Frame{}, err
	}

	bodyLen, err := parseLength(lengthHeader[:])
	if err != nil {
		return Frame{}, err
	}

	var ctypeHeader [ContentTypeHeaderLen]byte
	if _, err := io.ReadFull(r, ctypeHeader[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrShortContentType
		}
		return Frame{}, err
	}
	contentType := strings.TrimRight(string(ctypeHeader[:]), " ")

	body := make([]byte, bodyLen)
	n, err := io.ReadFull(r, body)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrShortBody, bodyLen, n)
		}
		return Frame{}, err
	}

	return Frame{ContentType: contentType, Body: body}, nil
}

// WriteRequestLine writes the newline-terminated request line for rawURL.
func WriteRequestLine(w io.Writer, rawURL string) error {
	return writeFull(w, append([]byte(rawURL), '\n'))
}

// ReadRequestLine accumulates chunked reads from r until a newline is seen,
// returning the raw line without the delimiter. Bytes after the newline are
// discarded. Accumulation never exceeds maxBytes; reaching the cap without a
// newline is ErrRequestTooLong, and a peer close before the newline is
// ErrNoRequest.
func ReadRequestLine(r io.Reader, maxBytes int) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = MaxRequestLineBytes
	}
	buf := make([]byte, 0, readChunkSize)
	chunk := make([]byte, readChunkSize)
	for {
		if idx := bytes.IndexByte(buf, '\n'); idx >= 0 {
			return buf[:idx], nil
		}
		if len(buf) >= maxBytes {
			return nil, ErrRequestTooLong
		}
		limit := readChunkSize
		if remaining := maxBytes - len(buf); remaining < limit {
			limit = remaining
		}
		n, err := r.Read(chunk[:limit])
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			if idx := bytes.IndexByte(buf, '\n'); idx >= 0 {
				return buf[:idx], nil
			}
			if errors.Is(err, io.EOF) {
				return nil, ErrNoRequest
			}
			return nil, err
		}
	}
}

// ParseRequestLine validates one raw request line and returns the trimmed URL.
func ParseRequestLine(line []byte) (string, error) {
	if !utf8.Valid(line) {
		return "", ErrInvalidEncoding
	}
	url := strings.TrimSpace(string(line))
	if url == "" {
		return "", ErrEmptyRequest
	}
	return url, nil
}

func parseLength(header []byte) (int64, error) {
	var n int64
	for _, b := range header {
		if b < '0' || b > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLengthHeader, string(header))
		}
		n = n*10 + int64(b-'0')
	}
	return n, nil
}

// writeFull loops until p is fully written. A write that consumes zero bytes
// without reporting an error means the connection is broken.
func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrBrokenWrite
		}
		p = p[n:]
	}
	return nil
}
