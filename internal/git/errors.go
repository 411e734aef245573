package git

import "errors"

var (
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrInvalidRepository  = errors.New("invalid repository")
	ErrDirectoryCreate    = errors.New("failed to create repository directory")
	ErrInitFailed         = errors.New("failed to initialize repository")
	ErrBranchNotFound     = errors.New("branch not found")
	ErrBranchExists       = errors.New("branch already exists")
	ErrNoCommits          = errors.New("repository has no commits")
	ErrRemoteNotFound     = errors.New("remote not found")
	ErrFileNotFound       = errors.New("file not found")
	ErrWriteFailed        = errors.New("failed to write file")
	ErrCheckoutFailed     = errors.New("failed to checkout")
	ErrUncommittedChanges = errors.New("worktree has uncommitted changes")
	ErrCommitFailed       = errors.New("failed to commit")
	ErrStageFailed        = errors.New("failed to stage changes")
	ErrPushFailed         = errors.New("failed to push")
	ErrCommandFailed      = errors.New("git command failed")
)
