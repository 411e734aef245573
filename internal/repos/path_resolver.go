package repos

import (
	"fmt"
	"path/filepath"
	"strings"
)

// pathResolver maps caller supplied repository paths onto the filesystem.
type pathResolver struct {
	basePath string
}

func newPathResolver(basePath string) *pathResolver {
	return &pathResolver{basePath: basePath}
}

// Resolve anchors relative paths at the workspace directory.
func (p *pathResolver) Resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: repository path is required", ErrInvalidRequest)
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	return filepath.Join(p.basePath, path), nil
}

// RepoName is the directory basename used for remote and GitHub repository names.
func (p *pathResolver) RepoName(resolved string) string {
	return filepath.Base(resolved)
}

// validateFileName rejects names that would land outside the repository.
func validateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: file name is required", ErrInvalidRequest)
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("%w: %s: absolute paths are not allowed", ErrInvalidRequest, name)
	}

	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s: path escapes the repository", ErrInvalidRequest, name)
	}
	if clean == ".git" || strings.HasPrefix(clean, ".git"+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s: repository metadata is not writable", ErrInvalidRequest, name)
	}

	return nil
}
