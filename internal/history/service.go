package history

import (
	"context"

	"go.uber.org/zap"
)

const defaultLimit = 50

// Service journals workflow operations. Recording never fails the caller.
type Service struct {
	config Config
	repo   *Repository

	logger *zap.Logger
}

func NewService(config Config, repo *Repository, logger *zap.Logger) *Service {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = defaultLimit
	}

	return &Service{
		config: config,
		repo:   repo,
		logger: logger,
	}
}

// Record stores an entry; failures are logged and dropped.
func (s *Service) Record(ctx context.Context, draft EntryDraft) {
	entry, err := s.repo.Create(ctx, draft)
	if err != nil {
		s.logger.Warn("failed to record operation",
			zap.String("operation", draft.Operation),
			zap.String("path", draft.RepoPath),
			zap.Error(err))
		return
	}

	s.logger.Debug("operation recorded",
		zap.String("id", entry.ID.String()),
		zap.String("operation", entry.Operation))
}

// List returns the most recent entries first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Entry, error) {
	if filter.Limit <= 0 {
		filter.Limit = s.config.DefaultLimit
	}

	return s.repo.List(ctx, filter)
}
