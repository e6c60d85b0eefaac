// Package store persists the trained model artifact as an opaque blob
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound   = errors.New("artifact not found")
	ErrInvalidKey = errors.New("invalid artifact key")
)

// ArtifactStore reads and writes whole artifacts by key
type ArtifactStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// FileStore keeps artifacts as files under a root directory
type FileStore struct {
	root   string
	logger *slog.Logger
}

func NewFileStore(root string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{root: root, logger: logger.With("component", "store.file")}
}

func (s *FileStore) path(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidKey
	}
	if filepath.IsAbs(key) || s.root == "" {
		return filepath.Clean(key), nil
	}
	return filepath.Join(s.root, key), nil
}

// Get reads the artifact file
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s, %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("unable to read artifact, %w", err)
	}
	s.logger.Debug("read artifact", "path", path, "bytes", len(data))
	return data, nil
}

// Put writes the artifact to a temporary file and renames it into place so readers
// never see a partial artifact
func (s *FileStore) Put(_ context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create artifact directory, %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create artifact, %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write artifact, %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to write artifact, %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("unable to move artifact into place, %w", err)
	}
	s.logger.Info("wrote artifact", "path", path, "bytes", len(data))
	return nil
}

var _ ArtifactStore = (*FileStore)(nil)
