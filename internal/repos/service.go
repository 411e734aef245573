package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/gitpilot/gitpilot/internal/credentials"
	"github.com/gitpilot/gitpilot/internal/git"
	"github.com/gitpilot/gitpilot/internal/github"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	initialCommitMessage = "Initial commit"
	pushCommitMessage    = "Initial commit or update"
	shortHashLen         = 7
)

type CredentialsSource interface {
	Load() (credentials.Credentials, error)
}

type PullRequestCreator interface {
	CreatePullRequest(ctx context.Context, req github.CreatePullRequestRequest) (github.PullRequest, error)
}

// Service is the repository workflow engine. It holds no per-repository
// state; every call reopens the repository from disk.
type Service struct {
	config Config
	paths  *pathResolver

	git          *git.Service
	credentials  CredentialsSource
	pullRequests PullRequestCreator

	logger *zap.Logger
}

func NewService(
	config Config,
	gitSvc *git.Service,
	creds CredentialsSource,
	pullRequests PullRequestCreator,
	logger *zap.Logger,
) *Service {
	config = config.withDefaults()

	return &Service{
		config: config,
		paths:  newPathResolver(config.WorkspaceDir),

		git:          gitSvc,
		credentials:  creds,
		pullRequests: pullRequests,

		logger: logger,
	}
}

// ResolvePath returns the filesystem location of a repository path.
func (s *Service) ResolvePath(path string) (string, error) {
	return s.paths.Resolve(path)
}

// RemoteURL derives the remote URL for a repository owned by account.
func (s *Service) RemoteURL(account, repoPath string) string {
	return fmt.Sprintf("https://%s/%s/%s.git", s.config.RemoteHost, account, s.paths.RepoName(repoPath))
}

// Init creates or reopens a repository and points the remote at the account's
// repository of the same name. A missing account identity only produces a warning.
func (s *Service) Init(ctx context.Context, path string) (result InitResult, err error) {
	defer func() { observe("init", err) }()

	repoPath, err := s.paths.Resolve(path)
	if err != nil {
		return InitResult{}, err
	}

	created, err := s.git.Init(ctx, repoPath)
	if err != nil {
		return InitResult{}, fmt.Errorf("failed to initialize repository: %w", err)
	}

	result = InitResult{Path: repoPath, Created: created}

	creds, err := s.credentials.Load()
	if err != nil {
		return InitResult{}, fmt.Errorf("failed to load credentials: %w", err)
	}
	if userErr := creds.RequireUsername(); userErr != nil {
		s.logger.Warn("remote not configured", zap.String("path", repoPath), zap.Error(userErr))
		result.Warning = userErr.Error()
		return result, nil
	}

	result.RemoteURL = s.RemoteURL(creds.Username, repoPath)
	if err = s.git.SetRemote(ctx, repoPath, s.config.RemoteName, result.RemoteURL); err != nil {
		return InitResult{}, fmt.Errorf("failed to configure remote: %w", err)
	}

	return result, nil
}

// CreateBranch checks out name, creating it from HEAD when missing. A new
// branch gets a hard reset to its tip.
func (s *Service) CreateBranch(ctx context.Context, path, name string) (result BranchResult, err error) {
	defer func() { observe("create_branch", err) }()

	if name == "" {
		return BranchResult{}, fmt.Errorf("%w: branch name is required", ErrInvalidRequest)
	}

	repoPath, err := s.paths.Resolve(path)
	if err != nil {
		return BranchResult{}, err
	}

	exists, err := s.git.BranchExists(ctx, repoPath, name)
	if err != nil {
		return BranchResult{}, err
	}

	if exists {
		if err = s.checkoutIfNeeded(ctx, repoPath, name); err != nil {
			return BranchResult{}, err
		}

		s.logger.Info("branch already exists", zap.String("path", repoPath), zap.String("branch", name))

		return BranchResult{Branch: name, Outcome: BranchAlreadyExisted}, nil
	}

	head, err := s.git.GetHead(ctx, repoPath)
	if err != nil {
		return BranchResult{}, err
	}
	if head.Unborn() {
		return BranchResult{}, fmt.Errorf("%w: cannot branch %s before the first commit", git.ErrNoCommits, name)
	}

	if err = s.git.StartBranch(ctx, repoPath, name); err != nil {
		return BranchResult{}, err
	}
	if err = s.git.ResetHard(ctx, repoPath); err != nil {
		return BranchResult{}, err
	}

	s.logger.Info("branch created", zap.String("path", repoPath), zap.String("branch", name))

	return BranchResult{Branch: name, Outcome: BranchCreated}, nil
}

// EnsureDefaultBranch makes sure the default branch exists and is checked out,
// renaming the legacy branch when present. With a remote configured it also
// tries to push and track the branch; that part never fails the call.
func (s *Service) EnsureDefaultBranch(ctx context.Context, path string) (result DefaultBranchResult, err error) {
	defer func() { observe("ensure_default_branch", err) }()

	repoPath, err := s.paths.Resolve(path)
	if err != nil {
		return DefaultBranchResult{}, err
	}

	primary, legacy := s.config.DefaultBranch, s.config.LegacyBranch
	result = DefaultBranchResult{Branch: primary}

	branches, err := s.git.GetBranches(ctx, repoPath)
	if err != nil {
		return DefaultBranchResult{}, err
	}
	has := func(name string) bool {
		return lo.ContainsBy(branches, func(b git.BranchInfo) bool { return b.Name == name })
	}

	switch {
	case has(primary):
		result.Action = DefaultBranchPresent
		err = s.checkoutIfNeeded(ctx, repoPath, primary)
	case has(legacy):
		result.Action = DefaultBranchRenamed
		if err = s.git.RenameBranch(ctx, repoPath, legacy, primary); err == nil {
			err = s.checkoutIfNeeded(ctx, repoPath, primary)
		}
	case len(branches) == 0:
		result.Action = DefaultBranchInitialized
		if err = s.git.StartBranch(ctx, repoPath, primary); err == nil {
			_, err = s.git.Commit(ctx, repoPath, initialCommitMessage, true)
		}
	default:
		result.Action = DefaultBranchCreated
		err = s.git.StartBranch(ctx, repoPath, primary)
	}
	if err != nil {
		return DefaultBranchResult{}, fmt.Errorf("failed to ensure %s branch: %w", primary, err)
	}

	s.logger.Info("default branch ensured",
		zap.String("path", repoPath),
		zap.String("branch", primary),
		zap.String("action", string(result.Action)))

	if warning := s.trackDefaultBranch(ctx, repoPath); warning != "" {
		result.Warning = warning
	} else {
		result.Upstream = true
	}

	return result, nil
}

// trackDefaultBranch pushes the default branch and records its upstream.
// It returns a warning instead of an error on failure.
func (s *Service) trackDefaultBranch(ctx context.Context, repoPath string) string {
	remote := s.config.RemoteName
	branch := s.config.DefaultBranch

	if _, err := s.git.GetRemote(ctx, repoPath, remote); err != nil {
		s.logger.Warn("remote not found, upstream not set", zap.String("remote", remote))
		return fmt.Sprintf("remote %s not found", remote)
	}

	creds, err := s.credentials.Load()
	if err != nil {
		s.logger.Warn("could not load credentials, upstream not set", zap.Error(err))
		return err.Error()
	}

	if err = s.git.Push(ctx, git.PushRequest{
		Path:     repoPath,
		Remote:   remote,
		Branch:   branch,
		Username: creds.Username,
		Token:    creds.Token,
	}); err != nil {
		s.logger.Warn("could not push default branch, upstream not set", zap.Error(err))
		return fmt.Sprintf("could not set upstream: %s", err)
	}

	if err = s.git.SetUpstream(ctx, repoPath, branch, remote); err != nil {
		s.logger.Warn("could not set upstream", zap.Error(err))
		return fmt.Sprintf("could not set upstream: %s", err)
	}

	return ""
}

// StageAll stages outstanding changes and returns the paths that differ in the index.
func (s *Service) StageAll(ctx context.Context, path string, includeUntracked bool) (result StageResult, err error) {
	defer func() { observe("stage", err) }()

	repoPath, err := s.paths.Resolve(path)
	if err != nil {
		return StageResult{}, err
	}

	if err = s.git.StageAll(ctx, repoPath, includeUntracked); err != nil {
		return StageResult{}, err
	}

	paths, err := s.git.GetStagedPaths(ctx, repoPath)
	if err != nil {
		return StageResult{}, err
	}

	s.logger.Info("changes staged",
		zap.String("path", repoPath),
		zap.Bool("include_untracked", includeUntracked),
		zap.Int("count", len(paths)))

	return StageResult{Paths: paths}, nil
}

// Commit stages everything and commits it. A clean tree yields NothingToCommit.
func (s *Service) Commit(ctx context.Context, path, message string) (result CommitResult, err error) {
	defer func() { observe("commit", err) }()

	if message == "" {
		return CommitResult{}, fmt.Errorf("%w: commit message is required", ErrInvalidRequest)
	}

	repoPath, err := s.paths.Resolve(path)
	if err != nil {
		return CommitResult{}, err
	}

	return s.commitAll(ctx, repoPath, message)
}

// CommitPaths stages only the given paths and commits them.
func (s *Service) CommitPaths(ctx context.Context, path, message string, paths ...string) (CommitResult, error) {
	repoPath, err := s.paths.Resolve(path)
	if err != nil {
		return CommitResult{}, err
	}

	if err = s.git.StagePaths(ctx, repoPath, paths...); err != nil {
		return CommitResult{}, err
	}

	hash, err := s.git.Commit(ctx, repoPath, message, false)
	if err != nil {
		return CommitResult{}, err
	}

	return newCommitResult(message, hash), nil
}

func (s *Service) commitAll(ctx context.Context, repoPath, message string) (CommitResult, error) {
	dirty, err := s.git.IsDirty(ctx, repoPath)
	if err != nil {
		return CommitResult{}, err
	}
	if !dirty {
		s.logger.Info("nothing to commit", zap.String("path", repoPath))
		return CommitResult{Outcome: NothingToCommit, Message: message}, nil
	}

	if err = s.git.StageAll(ctx, repoPath, true); err != nil {
		return CommitResult{}, err
	}

	hash, err := s.git.Commit(ctx, repoPath, message, false)
	if err != nil {
		return CommitResult{}, err
	}

	return newCommitResult(message, hash), nil
}

func newCommitResult(message, hash string) CommitResult {
	short := hash
	if len(short) > shortHashLen {
		short = short[:shortHashLen]
	}

	return CommitResult{
		Outcome:   CommitCreated,
		Message:   message,
		Hash:      hash,
		ShortHash: short,
	}
}

// WriteFile writes content to a file inside the repository, replacing it if present.
func (s *Service) WriteFile(ctx context.Context, path, name, content string) (err error) {
	defer func() { observe("write_file", err) }()

	repoPath, err := s.paths.Resolve(path)
	if err != nil {
		return err
	}

	return s.writeFile(ctx, repoPath, name, content)
}

// WriteFiles writes every entry independently; failures are collected per entry.
func (s *Service) WriteFiles(ctx context.Context, path string, files []FileEntry) (WriteFilesResult, error) {
	repoPath, err := s.paths.Resolve(path)
	if err != nil {
		return WriteFilesResult{}, err
	}

	result := WriteFilesResult{
		Written: []string{},
		Failed:  []FileError{},
	}
	for _, f := range files {
		if writeErr := s.writeFile(ctx, repoPath, f.Path, f.Content); writeErr != nil {
			s.logger.Warn("failed to write file", zap.String("file", f.Path), zap.Error(writeErr))
			result.Failed = append(result.Failed, FileError{Path: f.Path, Error: writeErr.Error()})
			continue
		}
		result.Written = append(result.Written, f.Path)
	}

	s.logger.Info("files written",
		zap.String("path", repoPath),
		zap.Int("written", len(result.Written)),
		zap.Int("failed", len(result.Failed)))

	if result.Success() {
		observe("write_files", nil)
	} else {
		observe("write_files", errors.New("partial failure"))
	}

	return result, nil
}

func (s *Service) writeFile(ctx context.Context, repoPath, name, content string) error {
	if err := validateFileName(name); err != nil {
		return err
	}

	return s.git.WriteFile(ctx, repoPath, name, []byte(content))
}

// Merge merges source into target, aborting on conflict. The originally
// checked out branch is restored before returning. Conflicts are reported
// through the result state, not as errors.
func (s *Service) Merge(ctx context.Context, req MergeRequest) (result MergeResult, err error) {
	defer func() { observe("merge", err) }()

	if req.Source == "" {
		return MergeResult{}, fmt.Errorf("%w: source branch is required", ErrInvalidRequest)
	}
	if req.Target == "" {
		req.Target = s.config.DefaultBranch
	}

	repoPath, err := s.paths.Resolve(req.Path)
	if err != nil {
		return MergeResult{}, err
	}

	for _, branch := range []string{req.Source, req.Target} {
		exists, existsErr := s.git.BranchExists(ctx, repoPath, branch)
		if existsErr != nil {
			return MergeResult{}, existsErr
		}
		if !exists {
			return MergeResult{}, fmt.Errorf("%w: %s", git.ErrBranchNotFound, branch)
		}
	}

	head, err := s.git.GetHead(ctx, repoPath)
	if err != nil {
		return MergeResult{}, err
	}
	original := head.Ref()

	result = MergeResult{
		Source:     req.Source,
		Target:     req.Target,
		RestoredTo: original,
	}

	if err = s.git.Switch(ctx, repoPath, req.Target); err != nil {
		return MergeResult{}, err
	}

	output, mergeErr := s.git.Merge(ctx, repoPath, req.Source)
	result.Output = output
	if mergeErr != nil {
		s.logger.Warn("merge failed, aborting",
			zap.String("source", req.Source),
			zap.String("target", req.Target),
			zap.Error(mergeErr))

		if err = s.git.AbortMerge(ctx, repoPath); err != nil {
			return MergeResult{}, err
		}
		result.State = MergeAborted
	} else {
		result.State = MergeMerged
	}

	if original != req.Target {
		if err = s.git.Switch(ctx, repoPath, original); err != nil {
			return MergeResult{}, err
		}
	}

	mergesTotal.WithLabelValues(string(result.State)).Inc()

	s.logger.Info("merge finished",
		zap.String("source", req.Source),
		zap.String("target", req.Target),
		zap.String("state", string(result.State)),
		zap.String("restored_to", original))

	return result, nil
}

// Push commits outstanding changes and pushes a branch, creating the remote
// and the local branch when they are missing.
func (s *Service) Push(ctx context.Context, req PushRequest) (result PushResult, err error) {
	defer func() { observe("push", err) }()

	if req.Remote == "" {
		req.Remote = s.config.RemoteName
	}
	if req.Branch == "" {
		req.Branch = s.config.DefaultBranch
	}

	repoPath, err := s.paths.Resolve(req.Path)
	if err != nil {
		return PushResult{}, err
	}

	creds, err := s.credentials.Load()
	if err != nil {
		return PushResult{}, fmt.Errorf("failed to load credentials: %w", err)
	}
	if err = creds.RequireUsername(); err != nil {
		return PushResult{}, err
	}

	result = PushResult{Remote: req.Remote, Branch: req.Branch}

	remote, err := s.git.GetRemote(ctx, repoPath, req.Remote)
	switch {
	case errors.Is(err, git.ErrRemoteNotFound):
		result.RemoteURL = s.RemoteURL(creds.Username, repoPath)
		if err = s.git.SetRemote(ctx, repoPath, req.Remote, result.RemoteURL); err != nil {
			return PushResult{}, err
		}
		result.RemoteCreated = true
	case err != nil:
		return PushResult{}, err
	default:
		result.RemoteURL = remote.URL
	}

	exists, err := s.git.BranchExists(ctx, repoPath, req.Branch)
	if err != nil {
		return PushResult{}, err
	}
	if !exists {
		if err = s.git.StartBranch(ctx, repoPath, req.Branch); err != nil {
			return PushResult{}, err
		}
		result.BranchCreated = true
	}

	if result.Commit, err = s.commitAll(ctx, repoPath, pushCommitMessage); err != nil {
		return PushResult{}, err
	}

	if err = s.git.Push(ctx, git.PushRequest{
		Path:     repoPath,
		Remote:   req.Remote,
		Branch:   req.Branch,
		Username: creds.Username,
		Token:    creds.Token,
	}); err != nil {
		return PushResult{}, err
	}

	if upErr := s.git.SetUpstream(ctx, repoPath, req.Branch, req.Remote); upErr != nil {
		s.logger.Warn("could not set upstream", zap.String("branch", req.Branch), zap.Error(upErr))
	} else {
		result.Upstream = true
	}

	return result, nil
}

// CreatePullRequest opens a pull request from branch into the default branch
// of the GitHub repository named after the local directory.
func (s *Service) CreatePullRequest(ctx context.Context, req PullRequestRequest) (github.PullRequest, error) {
	if req.Branch == "" {
		return github.PullRequest{}, fmt.Errorf("%w: branch name is required", ErrInvalidRequest)
	}

	repoPath, err := s.paths.Resolve(req.Path)
	if err != nil {
		return github.PullRequest{}, err
	}

	pr, err := s.pullRequests.CreatePullRequest(ctx, github.CreatePullRequestRequest{
		Repo:  s.paths.RepoName(repoPath),
		Head:  req.Branch,
		Base:  s.config.DefaultBranch,
		Title: req.Title,
		Body:  req.Body,
	})
	observe("create_pull_request", err)

	return pr, err
}

func (s *Service) Status(ctx context.Context, path string) (*Status, error) {
	repoPath, err := s.paths.Resolve(path)
	if err != nil {
		return nil, err
	}

	return s.git.GetStatus(ctx, repoPath)
}

func (s *Service) ListFiles(ctx context.Context, path string) ([]string, error) {
	repoPath, err := s.paths.Resolve(path)
	if err != nil {
		return nil, err
	}

	return s.git.ListFiles(ctx, repoPath)
}

func (s *Service) ReadFile(ctx context.Context, path, name string) (string, error) {
	if err := validateFileName(name); err != nil {
		return "", err
	}

	repoPath, err := s.paths.Resolve(path)
	if err != nil {
		return "", err
	}

	content, err := s.git.ReadFile(ctx, repoPath, name)
	if err != nil {
		return "", err
	}

	return string(content), nil
}

func (s *Service) checkoutIfNeeded(ctx context.Context, repoPath, branch string) error {
	head, err := s.git.GetHead(ctx, repoPath)
	if err != nil {
		return err
	}
	if head.Branch == branch {
		return nil
	}

	return s.git.Checkout(ctx, repoPath, branch)
}
