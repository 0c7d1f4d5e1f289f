// Package storage persists uploaded media such as avatars.
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrUploadFailed = errors.New("upload failed")
	ErrDeleteFailed = errors.New("delete failed")
	ErrInvalidKey   = errors.New("invalid object key")
)

// Store saves objects under slash-separated keys.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns where key is served. It may be relative to the API origin.
	URL(key string) string
}
