package store

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FileStore keeps the current wallpaper at a single fixed path.
// Every write replaces the previous image via write-then-rename, so the
// apply command never observes a half-written file.
type FileStore struct {
	logger *zap.Logger
	fs     afero.Fs
	path   string
}

// NewFileStore creates a store writing to path on fs
func NewFileStore(logger *zap.Logger, fs afero.Fs, path string) *FileStore {
	return &FileStore{
		logger: logger,
		fs:     fs,
		path:   path,
	}
}

// Path returns the wallpaper file location
func (s *FileStore) Path() string {
	return s.path
}

// Write replaces the wallpaper file with data and returns its path
func (s *FileStore) Write(data []byte) (string, error) {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".wallpaper-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return "", fmt.Errorf("failed to write wallpaper file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return "", fmt.Errorf("failed to write wallpaper file: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return "", fmt.Errorf("failed to replace wallpaper file: %w", err)
	}

	s.logger.Debug("Wallpaper written", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return s.path, nil
}
