// Package storage abstracts the blob store used for campaign logos. The core
// claim path never touches it.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the interface the handlers upload through. Implementations are
// expected to be safe for concurrent use.
type Store interface {
	Upload(ctx context.Context, body []byte, fileName, path string) error
	Delete(ctx context.Context, fileName, path string) error
}

// LocalStore writes blobs under a base directory on the local filesystem.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates a LocalStore rooted at baseDir.
func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

// Upload writes body to baseDir/path/fileName, creating directories as needed.
func (s *LocalStore) Upload(_ context.Context, body []byte, fileName, path string) error {
	dir := filepath.Join(s.baseDir, path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create blob dir %s: %w", dir, err)
	}
	dst := filepath.Join(dir, fileName)
	if err := os.WriteFile(dst, body, 0o644); err != nil {
		return fmt.Errorf("write blob %s: %w", dst, err)
	}
	return nil
}

// Delete removes baseDir/path/fileName. Deleting a missing blob is not an
// error.
func (s *LocalStore) Delete(_ context.Context, fileName, path string) error {
	dst := filepath.Join(s.baseDir, path, fileName)
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", dst, err)
	}
	return nil
}
