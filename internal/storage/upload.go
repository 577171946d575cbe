// Package storage publishes generated resume documents and hands back the
// URL recorded on the status snapshot.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Uploader publishes a rendered document and returns its resume URL.
type Uploader interface {
	Upload(ctx context.Context, docPath string) (string, error)
}

// UploadError represents a failure publishing a document.
type UploadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *UploadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upload error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("upload error for %s: %s", e.Path, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}

// LocalUploader copies documents into a served directory. When BaseURL is
// set the returned URL is BaseURL/<filename>, otherwise a file:// URL.
type LocalUploader struct {
	Dir     string
	BaseURL string
}

// NewLocalUploader builds a local uploader.
func NewLocalUploader(dir, baseURL string) *LocalUploader {
	return &LocalUploader{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Upload copies the document into the upload directory.
func (u *LocalUploader) Upload(ctx context.Context, docPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &UploadError{Path: docPath, Message: "upload canceled", Cause: err}
	}

	src, err := os.Open(docPath)
	if err != nil {
		return "", &UploadError{Path: docPath, Message: "failed to open document", Cause: err}
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return "", &UploadError{Path: docPath, Message: "failed to create upload directory", Cause: err}
	}

	name := filepath.Base(docPath)
	dstPath := filepath.Join(u.Dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", &UploadError{Path: docPath, Message: "failed to create destination", Cause: err}
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return "", &UploadError{Path: docPath, Message: "failed to copy document", Cause: err}
	}

	if u.BaseURL != "" {
		return u.BaseURL + "/" + url.PathEscape(name), nil
	}
	abs, err := filepath.Abs(dstPath)
	if err != nil {
		abs = dstPath
	}
	return "file://" + abs, nil
}
