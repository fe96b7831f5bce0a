package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
)

// FileSource reads a dataset from the local filesystem.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

func (s *FileSource) Location() string { return s.path }

// Fetch reads the whole file. Missing and unreadable files are reported as
// FetchError with the matching HTTP status so callers treat them like a
// failed download.
func (s *FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		return string(b), nil
	case errors.Is(err, fs.ErrNotExist):
		return "", &FetchError{Status: http.StatusNotFound, StatusText: "404 Not Found", Location: s.path}
	case errors.Is(err, fs.ErrPermission):
		return "", &FetchError{Status: http.StatusForbidden, StatusText: "403 Forbidden", Location: s.path}
	default:
		return "", fmt.Errorf("read file: %w", err)
	}
}
