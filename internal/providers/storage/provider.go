package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no stored file matches the requested name.
var ErrNotFound = errors.New("file not found")

// Provider stores uploaded receipt files and returns a URL members can use
// to view them later.
type Provider interface {
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
}
