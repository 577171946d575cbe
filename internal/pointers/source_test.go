package pointers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBank = `# Experience Bank

Some intro text that is ignored.

## Backend Engineer, Acme
- Cut p99 latency by 40% by rewriting the hot path in Go
- Led migration of 12 services to Kubernetes

## Intern, Initech
* Fixed flaky integration tests

## Skills
- Go
- PostgreSQL
`

func TestParseMarkdown(t *testing.T) {
	bank := ParseMarkdown(sampleBank)

	require.Len(t, bank.Sections, 2)
	assert.Equal(t, "Backend Engineer, Acme", bank.Sections[0].Role)
	assert.Len(t, bank.Sections[0].Bullets, 2)
	assert.Equal(t, "Intern, Initech", bank.Sections[1].Role)
	assert.Equal(t, []string{"Fixed flaky integration tests"}, bank.Sections[1].Bullets)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, bank.Skills)
}

func TestParseMarkdownEmptyDocument(t *testing.T) {
	bank := ParseMarkdown("just prose, no headings or bullets")
	assert.True(t, bank.IsEmpty())
	assert.NotNil(t, bank.Sections)
}

func TestFileSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleBank), 0o644))

	bank, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, bank.BulletCount())
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource("/nonexistent/bank.md").Load(context.Background())
	require.Error(t, err)
	var ue *UnavailableError
	assert.ErrorAs(t, err, &ue, "a missing file is unavailability, not an empty bank")
}

func TestHTTPSourceLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleBank))
	}))
	defer srv.Close()

	bank, err := NewHTTPSource(srv.URL, 0).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, bank.IsEmpty())
}

func TestHTTPSourceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, 0).Load(context.Background())
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
}

func TestHTTPSourceUnreachable(t *testing.T) {
	_, err := NewHTTPSource("http://127.0.0.1:1/bank.md", 0).Load(context.Background())
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
}
