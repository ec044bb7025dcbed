package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes uploads to a directory that the HTTP server exposes under /files.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Put(_ context.Context, name, contentType string, body io.Reader, size int64) (*Object, error) {
	key := ObjectKey("uploads", name)
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	written, err := io.Copy(f, io.LimitReader(body, MaxUploadSize+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	if written > MaxUploadSize {
		_ = os.Remove(path)
		return nil, ErrTooLarge
	}

	return &Object{
		Key:         key,
		URL:         s.baseURL + "/files/" + strings.TrimPrefix(key, "uploads/"),
		Name:        name,
		ContentType: NormalizeContentType(contentType),
		Size:        written,
	}, nil
}
