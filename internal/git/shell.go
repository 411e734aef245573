package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const defaultBinary = "git"

// Shell runs the system git binary. It covers the operations go-git does not
// implement, three-way merges in particular.
type Shell struct {
	binary string
	author AuthorConfig
}

func newShell(binary string, author AuthorConfig) *Shell {
	if binary == "" {
		binary = defaultBinary
	}

	return &Shell{binary: binary, author: author}
}

// Run executes git inside dir with the configured identity and returns the combined output.
func (s *Shell) Run(ctx context.Context, dir string, args ...string) (string, error) {
	full := make([]string, 0, len(args)+6)
	full = append(full,
		"-C", dir,
		"-c", "user.name="+s.author.Name,
		"-c", "user.email="+s.author.Email,
	)
	full = append(full, args...)

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, s.binary, full...)
	// Output is matched against English messages.
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		return output.String(), &CommandError{Args: args, Output: output.String(), Err: err}
	}

	return output.String(), nil
}

// CommandError wraps failures when invoking the git binary.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("git %s: %v\n%s", strings.Join(e.Args, " "), e.Err, strings.TrimSpace(e.Output))
}

func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func isNoMergeInProgress(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	out := strings.ToLower(cmdErr.Output)
	return strings.Contains(out, "no merge to abort") ||
		strings.Contains(out, "there is no merge to abort")
}

// Merge merges source into the currently checked out branch.
func (s *Service) Merge(ctx context.Context, repoPath, source string) (string, error) {
	s.logger.Info("merging branch", zap.String("path", repoPath), zap.String("source", source))

	output, err := s.shell.Run(ctx, repoPath, "merge", "--no-edit", source)
	if err != nil {
		s.logger.Warn("merge failed", zap.String("source", source), zap.Error(err))
		return output, fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	return output, nil
}

// AbortMerge restores the pre-merge state. It is a no-op when no merge is in progress.
func (s *Service) AbortMerge(ctx context.Context, repoPath string) error {
	inProgress, err := mergeInProgress(repoPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}
	if !inProgress {
		s.logger.Debug("no merge in progress", zap.String("path", repoPath))
		return nil
	}

	if _, err := s.shell.Run(ctx, repoPath, "merge", "--abort"); err != nil {
		if isNoMergeInProgress(err) {
			return nil
		}
		s.logger.Error("failed to abort merge", zap.String("path", repoPath), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	s.logger.Info("merge aborted", zap.String("path", repoPath))

	return nil
}

// mergeInProgress reports whether a stopped merge left MERGE_HEAD behind.
func mergeInProgress(repoPath string) (bool, error) {
	_, err := os.Stat(filepath.Join(repoPath, ".git", "MERGE_HEAD"))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Switch checks out a branch name or a commit hash using the git binary.
func (s *Service) Switch(ctx context.Context, repoPath, ref string) error {
	if _, err := s.shell.Run(ctx, repoPath, "checkout", ref); err != nil {
		s.logger.Error("failed to switch", zap.String("ref", ref), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrCheckoutFailed, ref, err)
	}

	return nil
}

// BinaryVersion reports the version of the git binary merges depend on.
func (s *Service) BinaryVersion(ctx context.Context) (string, error) {
	out, err := s.shell.Run(ctx, ".", "--version")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	return strings.TrimSpace(out), nil
}
