package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"rentshare-backend/internal/logger"
)

// LocalStore keeps evidence on the local filesystem. Files are served back
// through the HTTP download route.
type LocalStore struct {
	rootDir string
}

// NewLocalStore creates rootDir if it doesn't exist.
func NewLocalStore(rootDir string) (*LocalStore, error) {
	if rootDir == "" {
		rootDir = "./uploads"
	}
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{rootDir: rootDir}, nil
}

func (s *LocalStore) path(ref string) (string, error) {
	if !ValidRef(ref) {
		return "", fmt.Errorf("invalid evidence ref %q", ref)
	}
	return filepath.Join(s.rootDir, filepath.FromSlash(ref)), nil
}

func (s *LocalStore) Exists(ctx context.Context, ref string) (bool, error) {
	fullPath, err := s.path(ref)
	if err != nil {
		return false, nil
	}
	info, err := os.Stat(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (s *LocalStore) Save(ctx context.Context, ref string, body io.Reader, contentType string) error {
	fullPath, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	// Write to a temp file first so a half-written upload never passes Exists.
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}
	logger.Debug("Evidence stored", "ref", ref, "bytes", n, "content_type", contentType)
	return nil
}

func (s *LocalStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	fullPath, err := s.path(ref)
	if err != nil {
		return nil, ErrNotFound
	}
	file, err := os.Open(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}
