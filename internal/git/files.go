package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"
	"go.uber.org/zap"
)

const filePerm = 0o644

// WriteFile writes content to a path relative to the repository root,
// creating intermediate directories. Paths escaping the root are rejected.
func (s *Service) WriteFile(_ context.Context, repoPath, name string, content []byte) error {
	fs, err := s.filesystem(repoPath)
	if err != nil {
		return err
	}

	if dir := path.Dir(name); dir != "." {
		if mkErr := fs.MkdirAll(dir, 0o755); mkErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteFailed, name, mkErr)
		}
	}

	if err = util.WriteFile(fs, name, content, filePerm); err != nil {
		s.logger.Error("failed to write file", zap.String("file", name), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, name, err)
	}

	s.logger.Debug("file written",
		zap.String("path", repoPath),
		zap.String("file", name),
		zap.Int("size", len(content)))

	return nil
}

// ReadFile reads a file relative to the repository root.
func (s *Service) ReadFile(_ context.Context, repoPath, name string) ([]byte, error) {
	fs, err := s.filesystem(repoPath)
	if err != nil {
		return nil, err
	}

	content, err := util.ReadFile(fs, name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRepository, name, err)
	}

	return content, nil
}

// ListFiles returns the sorted names of the entries directly under the repository root.
func (s *Service) ListFiles(_ context.Context, repoPath string) ([]string, error) {
	fs, err := s.filesystem(repoPath)
	if err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	return names, nil
}

func (s *Service) filesystem(repoPath string) (billy.Filesystem, error) {
	info, err := os.Stat(repoPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, repoPath)
	}

	return osfs.New(repoPath, osfs.WithBoundOS()), nil
}
