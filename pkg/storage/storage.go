// Package storage persists uploaded files (message attachments and standalone
// uploads) and returns a URL clients can fetch them from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxUploadSize is the largest accepted file, in bytes.
const MaxUploadSize = 5 * 1024 * 1024

var (
	ErrTooLarge       = errors.New("File size exceeds 5MB limit")
	ErrTypeNotAllowed = errors.New("File type not allowed")
	ErrEmpty          = errors.New("No file provided")
)

var allowedContentTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// Object describes a stored file.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Name        string `json:"file_name"`
	ContentType string `json:"file_type"`
	Size        int64  `json:"size"`
}

// Store writes file contents somewhere durable.
type Store interface {
	Put(ctx context.Context, name, contentType string, body io.Reader, size int64) (*Object, error)
}

// NormalizeContentType strips parameters such as charset from a MIME type.
func NormalizeContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

// Check enforces the size limit and the content type allow-list.
func Check(size int64, contentType string) error {
	if size <= 0 {
		return ErrEmpty
	}
	if size > MaxUploadSize {
		return ErrTooLarge
	}
	if !allowedContentTypes[NormalizeContentType(contentType)] {
		return ErrTypeNotAllowed
	}
	return nil
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectKey builds a collision-free key that keeps a readable file name.
func ObjectKey(prefix, name string) string {
	base := unsafeName.ReplaceAllString(filepath.Base(name), "_")
	if base == "" || base == "." || base == "_" {
		base = "file"
	}
	return fmt.Sprintf("%s/%s-%s-%s", prefix, time.Now().UTC().Format("20060102150405"), uuid.NewString()[:8], base)
}
