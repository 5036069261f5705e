package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
)

// LocalStorage stores files under a base directory.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Store(ctx context.Context, r io.Reader, meta ports.FileMeta) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := objectKey(meta)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("close file: %w", err)
	}
	return key, nil
}

func (s *LocalStorage) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validKey(locator) {
		return nil, domain.New(domain.ErrNotFound, "file not found")
	}
	file, err := os.Open(filepath.Join(s.basePath, filepath.FromSlash(locator)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.New(domain.ErrNotFound, "file not found")
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return file, nil
}

// Delete is idempotent: a missing file is not an error.
func (s *LocalStorage) Delete(ctx context.Context, locator string) error {
	if !validKey(locator) {
		return nil
	}
	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(locator)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
