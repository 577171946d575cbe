// Package pointers loads the candidate's base experience bullets (the
// pointer bank) from local or remote sources.
package pointers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jonathan/resume-agent/internal/types"
)

// Source provides the base pointer bank. An empty bank is a valid result and
// is distinct from a source that could not be reached.
type Source interface {
	Load(ctx context.Context) (*types.PointerBank, error)
}

// UnavailableError indicates the pointer source could not be reached or read.
// It is distinct from an empty bank, which loads successfully.
type UnavailableError struct {
	Source string
	Cause  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("pointer source %s unavailable: %v", e.Source, e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// FileSource reads the pointer bank from a local markdown file.
type FileSource struct {
	Path string
}

// NewFileSource builds a file-backed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load parses the markdown bank from disk.
func (f *FileSource) Load(ctx context.Context) (*types.PointerBank, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, &UnavailableError{Source: f.Path, Cause: err}
	}
	return ParseMarkdown(string(data)), nil
}

// HTTPSource fetches the pointer bank as markdown from a URL, for setups that
// keep the bank in a hosted document.
type HTTPSource struct {
	URL     string
	Timeout time.Duration
}

// NewHTTPSource builds an HTTP-backed source.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{URL: url, Timeout: timeout}
}

// Load fetches and parses the markdown bank.
func (h *HTTPSource) Load(ctx context.Context) (*types.PointerBank, error) {
	client := &http.Client{Timeout: h.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, &UnavailableError{Source: h.URL, Cause: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &UnavailableError{Source: h.URL, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &UnavailableError{Source: h.URL, Cause: fmt.Errorf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{Source: h.URL, Cause: err}
	}
	return ParseMarkdown(string(body)), nil
}

// ParseMarkdown reads a pointer bank document. Each "## Heading" opens a role
// section whose "- " lines are its bullets; a section titled Skills feeds the
// skills list instead. Content before the first heading is ignored.
func ParseMarkdown(content string) *types.PointerBank {
	bank := &types.PointerBank{Sections: []types.RoleSection{}}

	var currentRole string
	var currentBullets []string
	var inSkills bool

	flush := func() {
		if currentRole != "" && !inSkills {
			bank.Sections = append(bank.Sections, types.RoleSection{
				Role:    currentRole,
				Bullets: currentBullets,
			})
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "## "):
			flush()
			currentRole = strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))
			currentBullets = nil
			inSkills = strings.EqualFold(currentRole, "skills")
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			bullet := strings.TrimSpace(trimmed[2:])
			if bullet == "" || currentRole == "" {
				continue
			}
			if inSkills {
				bank.Skills = append(bank.Skills, bullet)
			} else {
				currentBullets = append(currentBullets, bullet)
			}
		}
	}
	flush()
	return bank
}
