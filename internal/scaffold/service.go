package scaffold

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gitpilot/gitpilot/internal/repos"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Workspace is the part of the repository workflow scaffolding relies on.
type Workspace interface {
	ResolvePath(path string) (string, error)
	ListFiles(ctx context.Context, path string) ([]string, error)
	WriteFile(ctx context.Context, path, name, content string) error
	CommitPaths(ctx context.Context, path, message string, paths ...string) (repos.CommitResult, error)
}

type Service struct {
	workspace Workspace
	source    TemplateSource

	logger *zap.Logger
}

func NewService(workspace Workspace, source TemplateSource, logger *zap.Logger) *Service {
	return &Service{
		workspace: workspace,
		source:    source,
		logger:    logger,
	}
}

// DetectProjectType classifies the repository from its top-level listing.
// An unreadable or missing directory is classified as general.
func (s *Service) DetectProjectType(ctx context.Context, path string) ([]string, error) {
	if _, err := s.workspace.ResolvePath(path); err != nil {
		return nil, err
	}

	names, err := s.workspace.ListFiles(ctx, path)
	if err != nil {
		s.logger.Warn("could not list repository, assuming general project",
			zap.String("path", path),
			zap.Error(err))
		return []string{TypeGeneral}, nil
	}

	types := detectTypes(names)

	s.logger.Info("project type detected", zap.String("path", path), zap.Strings("types", types))

	return types, nil
}

// GenerateIgnoreFile writes an ignore file synthesized from the built-in
// templates of every detected type and tries to commit it.
func (s *Service) GenerateIgnoreFile(ctx context.Context, path string) (IgnoreResult, error) {
	types, err := s.DetectProjectType(ctx, path)
	if err != nil {
		return IgnoreResult{}, err
	}

	result, err := s.write(ctx, path, Render(types),
		fmt.Sprintf("Add .gitignore for %s project", strings.Join(types, ", ")))
	if err != nil {
		return IgnoreResult{}, err
	}

	result.Types = types
	result.Origin = OriginLocal
	ignoreFilesTotal.WithLabelValues(string(OriginLocal)).Inc()

	return result, nil
}

// DownloadIgnoreTemplate writes the published template for projectType, or for
// the first detected type when empty. Any download failure falls back to
// GenerateIgnoreFile.
func (s *Service) DownloadIgnoreTemplate(ctx context.Context, path, projectType string) (IgnoreResult, error) {
	if _, err := s.workspace.ResolvePath(path); err != nil {
		return IgnoreResult{}, err
	}

	name := projectType
	var types []string
	if name == "" {
		detected, err := s.DetectProjectType(ctx, path)
		if err != nil {
			return IgnoreResult{}, err
		}
		types = detected
		name = capitalize(detected[0])
	}

	body, err := s.source.Fetch(ctx, name)
	if err != nil {
		s.logger.Warn("template download failed, using built-in templates",
			zap.String("template", name),
			zap.Error(err))

		result, genErr := s.GenerateIgnoreFile(ctx, path)
		if genErr != nil {
			return IgnoreResult{}, genErr
		}
		result.Warning = joinWarnings(err.Error(), result.Warning)

		return result, nil
	}

	result, err := s.write(ctx, path, body, fmt.Sprintf("Add GitHub's %s .gitignore template", name))
	if err != nil {
		return IgnoreResult{}, err
	}

	result.Types = types
	result.Origin = OriginDownload
	result.Template = name
	ignoreFilesTotal.WithLabelValues(string(OriginDownload)).Inc()

	return result, nil
}

// write stores the ignore file and commits it; commit failures are only reported.
func (s *Service) write(ctx context.Context, path, content, message string) (IgnoreResult, error) {
	repoPath, err := s.workspace.ResolvePath(path)
	if err != nil {
		return IgnoreResult{}, err
	}

	if err = s.workspace.WriteFile(ctx, path, IgnoreFileName, content); err != nil {
		return IgnoreResult{}, fmt.Errorf("failed to write %s: %w", IgnoreFileName, err)
	}

	result := IgnoreResult{
		Path:          filepath.Join(repoPath, IgnoreFileName),
		CommitMessage: message,
	}

	if _, commitErr := s.workspace.CommitPaths(ctx, path, message, IgnoreFileName); commitErr != nil {
		s.logger.Warn("could not commit ignore file", zap.String("path", repoPath), zap.Error(commitErr))
		result.Warning = commitErr.Error()
		return result, nil
	}

	result.Committed = true
	s.logger.Info("ignore file committed", zap.String("path", repoPath), zap.String("message", message))

	return result, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func joinWarnings(warnings ...string) string {
	return strings.Join(lo.Compact(warnings), "; ")
}
