// Package status provides the durable status store for workflow runs,
// addressable by status id, normalized job URL, and normalized base URL.
package status

import (
	"fmt"
	"net/url"
	"strings"
)

// InvalidURLError indicates a job URL that cannot be normalized.
type InvalidURLError struct {
	URL   string
	Cause error
}

func (e *InvalidURLError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid job URL %q: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("invalid job URL %q", e.URL)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Cause
}

// NormalizeJobURL canonicalizes a job URL so that the client and the store
// always agree on the lookup key. The scheme, host, and path are lowercased,
// default ports are dropped, fragments are removed, and a single trailing
// slash is stripped from the path. The query string keeps its case because
// tracking parameters and posting ids are often case-sensitive.
// Normalization is idempotent.
func NormalizeJobURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &InvalidURLError{URL: raw}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", &InvalidURLError{URL: raw, Cause: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return "", &InvalidURLError{URL: raw}
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.ToLower(u.Path)
	u.RawPath = ""

	u.Fragment = ""
	u.Host = strings.TrimSuffix(u.Host, defaultPort(u.Scheme))

	switch {
	case u.Path == "/":
		u.Path = ""
	case strings.HasSuffix(u.Path, "/"):
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String(), nil
}

// BaseURL derives the site-level key from a job URL: scheme plus host with no
// path, query, or fragment.
func BaseURL(raw string) (string, error) {
	normalized, err := NormalizeJobURL(raw)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return "", &InvalidURLError{URL: raw, Cause: err}
	}
	return u.Scheme + "://" + u.Host, nil
}

func defaultPort(scheme string) string {
	switch scheme {
	case "http":
		return ":80"
	case "https":
		return ":443"
	}
	return ""
}
