package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUploadFileURL(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, "")

	doc := writeDoc(t, "Acme_20260901.txt", "resume content")
	resumeURL, err := u.Upload(context.Background(), doc)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resumeURL, "file://"))
	copied, err := os.ReadFile(filepath.Join(dir, "Acme_20260901.txt"))
	require.NoError(t, err)
	assert.Equal(t, "resume content", string(copied))
}

func TestUploadWithBaseURL(t *testing.T) {
	u := NewLocalUploader(t.TempDir(), "https://files.example.com/resumes/")

	doc := writeDoc(t, "resume.txt", "content")
	resumeURL, err := u.Upload(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/resumes/resume.txt", resumeURL)
}

func TestUploadMissingSource(t *testing.T) {
	u := NewLocalUploader(t.TempDir(), "")
	_, err := u.Upload(context.Background(), "/nonexistent/doc.txt")
	require.Error(t, err)
	var ue *UploadError
	assert.ErrorAs(t, err, &ue)
}

func TestUploadCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := NewLocalUploader(t.TempDir(), "")
	_, err := u.Upload(ctx, writeDoc(t, "doc.txt", "x"))
	require.Error(t, err)
}
