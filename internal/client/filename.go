package client

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// SafeFilename derives a collision-resistant local filename from the fetched
// URL and reported content-type. The timestamp keeps repeated fetches of the
// same URL from overwriting each other.
func SafeFilename(rawURL, contentType string, now time.Time) string {
	base := "page"
	var query string
	if parsed, err := url.Parse(rawURL); err == nil {
		host := strings.ReplaceAll(parsed.Host, ":", "_")
		if host != "" {
			base = host
		}
		if trimmed := strings.TrimRight(parsed.Path, "/"); trimmed != "" {
			base += "_" + path.Base(trimmed)
		}
		query = parsed.RawQuery
	}
	if query != "" {
		base += "_" + queryTag(query)
	}

	name := fmt.Sprintf("%s_%s%s", base, now.Format("20060102_150405"), extensionFor(contentType))
	return sanitize(name)
}

// Save writes body into dir under a derived filename and returns the path.
func Save(dir, rawURL, contentType string, body []byte) (string, error) {
	name := SafeFilename(rawURL, contentType, time.Now())
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return "", err
	}
	return target, nil
}

func extensionFor(contentType string) string {
	ctype := strings.ToLower(contentType)
	switch {
	case strings.Contains(ctype, "html"), strings.Contains(ctype, "text"):
		return ".html"
	case strings.Contains(ctype, "plain"):
		return ".txt"
	case strings.Contains(ctype, "json"):
		return ".json"
	case strings.Contains(ctype, "xml"):
		return ".xml"
	case strings.Contains(ctype, "javascript"):
		return ".js"
	default:
		return ".bin"
	}
}

func queryTag(query string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(query))
	return fmt.Sprintf("%08d", h.Sum32()%100_000_000)
}

func sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
