package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalFileStore stores payment proofs and disbursement documents on the
// local filesystem. It implements port.FileStore; production deployments
// substitute an object-storage adapter behind the same port.
type LocalFileStore struct {
	baseDir string
}

// NewLocalFileStore creates a file store rooted at baseDir, creating the
// directory when missing.
func NewLocalFileStore(baseDir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create file store dir: %w", err)
	}
	return &LocalFileStore{baseDir: baseDir}, nil
}

// Store writes the artifact and returns a file URL for it.
func (s *LocalFileStore) Store(_ context.Context, name string, data []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("file name is required")
	}

	path := filepath.Join(s.baseDir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store file %s: %w", name, err)
	}
	return "file://" + path, nil
}
