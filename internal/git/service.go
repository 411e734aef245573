package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	githttp "github.com/go-git/go-git/v6/plumbing/transport/http"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	defaultAuthorName  = "gitpilot"
	defaultAuthorEmail = "gitpilot@localhost"
)

type Service struct {
	config Config
	shell  *Shell

	logger *zap.Logger
}

// NewService creates a new git Service.
func NewService(config Config, logger *zap.Logger) *Service {
	if config.Author.Name == "" {
		config.Author.Name = defaultAuthorName
	}
	if config.Author.Email == "" {
		config.Author.Email = defaultAuthorEmail
	}

	return &Service{
		config: config,
		shell:  newShell(config.Binary, config.Author),
		logger: logger,
	}
}

// Init creates the directory when needed and initializes a repository in it.
// It reports whether a new repository was created; an existing one is left untouched.
func (s *Service) Init(_ context.Context, repoPath string) (bool, error) {
	s.logger.Info("initializing repository", zap.String("path", repoPath))

	if err := os.MkdirAll(repoPath, 0o755); err != nil {
		s.logger.Error("failed to create repository directory", zap.Error(err))
		return false, fmt.Errorf("%w: %w", ErrDirectoryCreate, err)
	}

	_, err := git.PlainInit(repoPath, false)
	if errors.Is(err, git.ErrTargetDirNotEmpty) {
		s.logger.Info("repository already initialized", zap.String("path", repoPath))
		return false, nil
	}
	if err != nil {
		s.logger.Error("failed to initialize repository", zap.Error(err))
		return false, fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	s.logger.Info("repository initialized", zap.String("path", repoPath))

	return true, nil
}

// SetRemote replaces the remote with the given name. A failure to delete the
// previous remote is logged and does not stop the new one from being created.
func (s *Service) SetRemote(_ context.Context, repoPath, name, url string) error {
	repo, err := s.open(repoPath)
	if err != nil {
		return err
	}

	if _, remoteErr := repo.Remote(name); remoteErr == nil {
		if delErr := repo.DeleteRemote(name); delErr != nil {
			s.logger.Warn("could not delete existing remote",
				zap.String("remote", name), zap.Error(delErr))
		}
	} else if !errors.Is(remoteErr, git.ErrRemoteNotFound) {
		s.logger.Warn("could not inspect existing remote",
			zap.String("remote", name), zap.Error(remoteErr))
	}

	if _, err = repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{url},
	}); err != nil {
		s.logger.Error("failed to create remote", zap.String("remote", name), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	s.logger.Info("remote configured", zap.String("remote", name), zap.String("url", url))

	return nil
}

// GetRemotes lists the configured remotes sorted by name.
func (s *Service) GetRemotes(_ context.Context, repoPath string) ([]RemoteInfo, error) {
	repo, err := s.open(repoPath)
	if err != nil {
		return nil, err
	}

	return s.remotes(repo)
}

// GetRemote returns a single remote.
func (s *Service) GetRemote(ctx context.Context, repoPath, name string) (RemoteInfo, error) {
	remotes, err := s.GetRemotes(ctx, repoPath)
	if err != nil {
		return RemoteInfo{}, err
	}

	remote, ok := lo.Find(remotes, func(r RemoteInfo) bool { return r.Name == name })
	if !ok {
		return RemoteInfo{}, fmt.Errorf("%w: %s", ErrRemoteNotFound, name)
	}

	return remote, nil
}

// GetBranches retrieves all local branches from the repository.
func (s *Service) GetBranches(_ context.Context, repoPath string) ([]BranchInfo, error) {
	s.logger.Debug("getting branches", zap.String("path", repoPath))

	repo, err := s.open(repoPath)
	if err != nil {
		return nil, err
	}

	head, err := s.head(repo)
	if err != nil {
		return nil, err
	}

	branches, err := repo.Branches()
	if err != nil {
		s.logger.Error("failed to get branches", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	var branchInfos []BranchInfo
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		branchInfos = append(branchInfos, BranchInfo{
			Name:      ref.Name().Short(),
			IsCurrent: head.Branch == ref.Name().Short(),
			Hash:      ref.Hash().String(),
		})

		return nil
	})
	if err != nil {
		s.logger.Error("failed to iterate branches", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	sort.Slice(branchInfos, func(i, j int) bool { return branchInfos[i].Name < branchInfos[j].Name })

	return branchInfos, nil
}

// BranchExists reports whether a local branch exists.
func (s *Service) BranchExists(_ context.Context, repoPath, name string) (bool, error) {
	repo, err := s.open(repoPath)
	if err != nil {
		return false, err
	}

	return s.branchExists(repo, name)
}

// GetHead returns what HEAD currently points at.
func (s *Service) GetHead(_ context.Context, repoPath string) (Head, error) {
	repo, err := s.open(repoPath)
	if err != nil {
		return Head{}, err
	}

	return s.head(repo)
}

// StartBranch creates a branch at the current HEAD commit and points HEAD at
// it without touching the index or working tree. On an unborn HEAD only the
// symbolic reference moves, so the next commit lands on the new branch.
func (s *Service) StartBranch(_ context.Context, repoPath, name string) error {
	repo, err := s.open(repoPath)
	if err != nil {
		return err
	}

	exists, err := s.branchExists(repo, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrBranchExists, name)
	}

	branchRef := plumbing.NewBranchReferenceName(name)

	head, err := repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
	case err != nil:
		return fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	default:
		if setErr := repo.Storer.SetReference(plumbing.NewHashReference(branchRef, head.Hash())); setErr != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRepository, setErr)
		}
	}

	if setErr := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branchRef)); setErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, setErr)
	}

	s.logger.Info("branch started", zap.String("path", repoPath), zap.String("branch", name))

	return nil
}

// ResetHard resets the index and working tree to the HEAD commit.
func (s *Service) ResetHard(_ context.Context, repoPath string) error {
	repo, err := s.open(repoPath)
	if err != nil {
		return err
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoCommits, err)
	}

	worktree, err := s.worktree(repo)
	if err != nil {
		return err
	}

	if err = worktree.Reset(&git.ResetOptions{
		Commit: head.Hash(),
		Mode:   git.HardReset,
	}); err != nil {
		s.logger.Error("failed to reset worktree", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	return nil
}

// Checkout switches the working tree to an existing local branch.
func (s *Service) Checkout(_ context.Context, repoPath, name string) error {
	repo, err := s.open(repoPath)
	if err != nil {
		return err
	}

	exists, err := s.branchExists(repo, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrBranchNotFound, name)
	}

	worktree, err := s.worktree(repo)
	if err != nil {
		return err
	}

	// go-git moves HEAD before resetting the worktree, so a refused reset
	// would leave the repository half switched.
	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCheckoutFailed, name, err)
	}
	if paths := trackedChanges(status); len(paths) > 0 {
		s.logger.Warn("refusing checkout over local changes",
			zap.String("branch", name),
			zap.Strings("paths", paths))
		return fmt.Errorf("%w: %s: %w: %s", ErrCheckoutFailed, name, ErrUncommittedChanges, strings.Join(paths, ", "))
	}

	if err = worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
	}); err != nil {
		s.logger.Error("failed to checkout branch", zap.String("branch", name), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrCheckoutFailed, name, err)
	}

	s.logger.Info("branch checked out", zap.String("path", repoPath), zap.String("branch", name))

	return nil
}

// RenameBranch moves a local branch to a new name, carrying HEAD and the
// branch tracking configuration along with it.
func (s *Service) RenameBranch(_ context.Context, repoPath, from, to string) error {
	repo, err := s.open(repoPath)
	if err != nil {
		return err
	}

	oldRef, err := repo.Reference(plumbing.NewBranchReferenceName(from), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("%w: %s", ErrBranchNotFound, from)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	exists, err := s.branchExists(repo, to)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrBranchExists, to)
	}

	newName := plumbing.NewBranchReferenceName(to)
	if setErr := repo.Storer.SetReference(plumbing.NewHashReference(newName, oldRef.Hash())); setErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, setErr)
	}

	headRef, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}
	if headRef.Type() == plumbing.SymbolicReference && headRef.Target() == oldRef.Name() {
		if setErr := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, newName)); setErr != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRepository, setErr)
		}
	}

	if rmErr := repo.Storer.RemoveReference(oldRef.Name()); rmErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, rmErr)
	}

	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}
	if branch, ok := cfg.Branches[from]; ok {
		delete(cfg.Branches, from)
		branch.Name = to
		cfg.Branches[to] = branch
		if setErr := repo.SetConfig(cfg); setErr != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRepository, setErr)
		}
	}

	s.logger.Info("branch renamed",
		zap.String("path", repoPath),
		zap.String("from", from),
		zap.String("to", to))

	return nil
}

// SetUpstream records remote/branch as the upstream of a local branch.
func (s *Service) SetUpstream(_ context.Context, repoPath, branch, remote string) error {
	repo, err := s.open(repoPath)
	if err != nil {
		return err
	}

	if _, remoteErr := repo.Remote(remote); remoteErr != nil {
		return fmt.Errorf("%w: %s", ErrRemoteNotFound, remote)
	}

	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	cfg.Branches[branch] = &config.Branch{
		Name:   branch,
		Remote: remote,
		Merge:  plumbing.NewBranchReferenceName(branch),
	}

	if err = repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	return nil
}

// GetStatus returns the working tree status.
func (s *Service) GetStatus(_ context.Context, repoPath string) (*RepositoryStatus, error) {
	repo, err := s.open(repoPath)
	if err != nil {
		return nil, err
	}

	worktree, err := s.worktree(repo)
	if err != nil {
		return nil, err
	}

	status, err := worktree.Status()
	if err != nil {
		s.logger.Error("failed to get status", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	head, err := s.head(repo)
	if err != nil {
		return nil, err
	}

	remotes, err := s.remotes(repo)
	if err != nil {
		return nil, err
	}

	files := make([]FileStatus, 0, len(status))
	for path, st := range status {
		files = append(files, FileStatus{
			Path:     path,
			Staging:  string(rune(st.Staging)),
			Worktree: string(rune(st.Worktree)),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return &RepositoryStatus{
		Path:          repoPath,
		IsDirty:       !status.IsClean(),
		CurrentBranch: head.Branch,
		LastCommit:    head.Hash,
		Remotes:       remotes,
		Files:         files,
		Summary:       status.String(),
	}, nil
}

// IsDirty reports whether the working tree differs from HEAD, untracked files included.
func (s *Service) IsDirty(ctx context.Context, repoPath string) (bool, error) {
	status, err := s.GetStatus(ctx, repoPath)
	if err != nil {
		return false, err
	}

	return status.IsDirty, nil
}

// StageAll stages every outstanding change. When includeUntracked is false
// only paths already known to the index are staged.
func (s *Service) StageAll(_ context.Context, repoPath string, includeUntracked bool) error {
	repo, err := s.open(repoPath)
	if err != nil {
		return err
	}

	worktree, err := s.worktree(repo)
	if err != nil {
		return err
	}

	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStageFailed, err)
	}

	for path, st := range status {
		switch {
		case st.Worktree == git.Unmodified:
			continue
		case st.Worktree == git.Untracked && !includeUntracked:
			continue
		case st.Worktree == git.Deleted:
			if _, rmErr := worktree.Remove(path); rmErr != nil {
				return fmt.Errorf("%w: %s: %w", ErrStageFailed, path, rmErr)
			}
		default:
			if _, addErr := worktree.Add(path); addErr != nil {
				return fmt.Errorf("%w: %s: %w", ErrStageFailed, path, addErr)
			}
		}
	}

	return nil
}

// StagePaths stages the given paths only.
func (s *Service) StagePaths(_ context.Context, repoPath string, paths ...string) error {
	repo, err := s.open(repoPath)
	if err != nil {
		return err
	}

	worktree, err := s.worktree(repo)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if _, addErr := worktree.Add(path); addErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrStageFailed, path, addErr)
		}
	}

	return nil
}

// GetStagedPaths returns paths whose index entry differs from HEAD or from
// the working tree, without duplicates and sorted.
func (s *Service) GetStagedPaths(ctx context.Context, repoPath string) ([]string, error) {
	status, err := s.GetStatus(ctx, repoPath)
	if err != nil {
		return nil, err
	}

	changed := func(code string) bool {
		return code != string(rune(git.Unmodified)) && code != string(rune(git.Untracked))
	}

	paths := lo.FilterMap(status.Files, func(f FileStatus, _ int) (string, bool) {
		return f.Path, changed(f.Staging) || changed(f.Worktree)
	})

	return lo.Uniq(paths), nil
}

// Commit records the index as a new commit on HEAD and returns its hash.
func (s *Service) Commit(_ context.Context, repoPath, message string, allowEmpty bool) (string, error) {
	repo, err := s.open(repoPath)
	if err != nil {
		return "", err
	}

	worktree, err := s.worktree(repo)
	if err != nil {
		return "", err
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author:            s.signature(),
		AllowEmptyCommits: allowEmpty,
	})
	if err != nil {
		s.logger.Error("failed to commit", zap.String("path", repoPath), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	s.logger.Info("changes committed",
		zap.String("path", repoPath),
		zap.String("message", message),
		zap.String("hash", hash.String()))

	return hash.String(), nil
}

// Push pushes a local branch to the same branch name on the remote.
func (s *Service) Push(ctx context.Context, req PushRequest) error {
	s.logger.Info("pushing branch",
		zap.String("path", req.Path),
		zap.String("remote", req.Remote),
		zap.String("branch", req.Branch))

	repo, err := s.open(req.Path)
	if err != nil {
		return err
	}

	remote, err := repo.Remote(req.Remote)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRemoteNotFound, req.Remote)
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	refSpec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", req.Branch, req.Branch))
	options := &git.PushOptions{
		RemoteName: req.Remote,
		RefSpecs:   []config.RefSpec{refSpec},
	}

	urls := remote.Config().URLs
	if req.Token != "" && len(urls) > 0 && isHTTPURL(urls[0]) {
		options.Auth = &githttp.BasicAuth{
			Username: req.Username,
			Password: req.Token,
		}
	}

	err = repo.PushContext(ctx, options)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		s.logger.Error("failed to push", zap.String("branch", req.Branch), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPushFailed, err)
	}

	s.logger.Info("branch pushed",
		zap.String("remote", req.Remote),
		zap.String("branch", req.Branch))

	return nil
}

// GetLatestCommit gets the latest commit SHA for the specified branch, or HEAD when empty.
func (s *Service) GetLatestCommit(_ context.Context, repoPath, branch string) (string, error) {
	repo, err := s.open(repoPath)
	if err != nil {
		return "", err
	}

	var refName plumbing.ReferenceName
	if branch == "" {
		refName = plumbing.HEAD
	} else {
		refName = plumbing.NewBranchReferenceName(branch)
	}

	ref, err := repo.Reference(refName, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBranchNotFound, err)
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	return commit.Hash.String(), nil
}

func (s *Service) open(repoPath string) (*git.Repository, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		s.logger.Error("failed to open repository", zap.String("path", repoPath), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrRepositoryNotFound, repoPath, err)
	}

	return repo, nil
}

func (s *Service) worktree(repo *git.Repository) (*git.Worktree, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		s.logger.Error("failed to get worktree", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	return worktree, nil
}

func (s *Service) head(repo *git.Repository) (Head, error) {
	ref, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return Head{}, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	if ref.Type() != plumbing.SymbolicReference {
		return Head{Hash: ref.Hash().String()}, nil
	}

	head := Head{Branch: ref.Target().Short()}

	resolved, err := repo.Reference(ref.Target(), true)
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
	case err != nil:
		return Head{}, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	default:
		head.Hash = resolved.Hash().String()
	}

	return head, nil
}

func (s *Service) branchExists(repo *git.Repository, name string) (bool, error) {
	_, err := repo.Reference(plumbing.NewBranchReferenceName(name), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	return true, nil
}

func (s *Service) remotes(repo *git.Repository) ([]RemoteInfo, error) {
	remotes, err := repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	infos := lo.Map(remotes, func(r *git.Remote, _ int) RemoteInfo {
		cfg := r.Config()
		return RemoteInfo{Name: cfg.Name, URL: lo.FirstOrEmpty(cfg.URLs)}
	})
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return infos, nil
}

func (s *Service) signature() *object.Signature {
	return &object.Signature{
		Name:  s.config.Author.Name,
		Email: s.config.Author.Email,
		When:  time.Now(),
	}
}

func isHTTPURL(url string) bool {
	return strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://")
}

// trackedChanges lists paths with staged or unstaged edits, untracked files excluded.
func trackedChanges(status git.Status) []string {
	paths := make([]string, 0, len(status))
	for path, st := range status {
		if isTrackedChange(st.Staging) || isTrackedChange(st.Worktree) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	return paths
}

func isTrackedChange(code git.StatusCode) bool {
	return code != git.Unmodified && code != git.Untracked
}
