package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type LocalProvider struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) (*LocalProvider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalProvider{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (p *LocalProvider) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	ext := filepath.Ext(filename)
	name := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(p.dir, name))
	if err != nil {
		return "", fmt.Errorf("create receipt file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return "", fmt.Errorf("write receipt file: %w", err)
	}

	return p.baseURL + "/" + name, nil
}

func (p *LocalProvider) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	// Uploads are stored under generated names; reject anything that could
	// walk out of the storage directory.
	name := filepath.Base(filename)
	if name != filename || name == "." || name == ".." {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(p.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}
