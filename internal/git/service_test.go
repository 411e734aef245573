package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	return NewService(Config{
		Author: AuthorConfig{Name: "Test Author", Email: "test@example.com"},
	}, zaptest.NewLogger(t))
}

// newTestRepo initializes a repository with a single commit containing test.txt.
func newTestRepo(t *testing.T) string {
	t.Helper()

	repoPath := filepath.Join(t.TempDir(), "repo")
	require.NoError(t, os.MkdirAll(repoPath, 0o755))

	repo, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	commitFile(t, repo, repoPath, "test.txt", "test content", "initial commit")

	return repoPath
}

func commitFile(t *testing.T, repo *git.Repository, repoPath, name, content, message string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, name), []byte(content), 0o644))

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	_, err = worktree.Add(name)
	require.NoError(t, err)

	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
}

func commitCount(t *testing.T, repoPath string) int {
	t.Helper()

	repo, err := git.PlainOpen(repoPath)
	require.NoError(t, err)

	iter, err := repo.Log(&git.LogOptions{})
	require.NoError(t, err)

	count := 0
	require.NoError(t, iter.ForEach(func(*object.Commit) error {
		count++
		return nil
	}))

	return count
}

func requireGitBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestService_Init(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := filepath.Join(t.TempDir(), "nested", "project")

	created, err := service.Init(ctx, repoPath)
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, service.StageAll(ctx, repoPath, true))
	_, err = service.Commit(ctx, repoPath, "first", false)
	require.NoError(t, err)

	created, err = service.Init(ctx, repoPath)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, commitCount(t, repoPath))
}

func TestService_Init_NonEmptyDirectory(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "notes.txt"), []byte("notes"), 0o644))

	created, err := service.Init(ctx, repoPath)
	require.NoError(t, err)
	assert.True(t, created)
	assert.DirExists(t, filepath.Join(repoPath, ".git"))

	content, err := os.ReadFile(filepath.Join(repoPath, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "notes", string(content))
}

func TestService_SetRemote(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	require.NoError(t, service.SetRemote(ctx, repoPath, "origin", "https://example.com/a/repo.git"))
	require.NoError(t, service.SetRemote(ctx, repoPath, "origin", "https://example.com/b/repo.git"))

	remotes, err := service.GetRemotes(ctx, repoPath)
	require.NoError(t, err)
	require.Len(t, remotes, 1)
	assert.Equal(t, RemoteInfo{Name: "origin", URL: "https://example.com/b/repo.git"}, remotes[0])

	_, err = service.GetRemote(ctx, repoPath, "upstream")
	require.ErrorIs(t, err, ErrRemoteNotFound)
}

func TestService_OpenMissingRepository(t *testing.T) {
	service := newTestService(t)

	_, err := service.GetBranches(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, ErrRepositoryNotFound)
}

func TestService_StartBranch(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	before, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)

	require.NoError(t, service.StartBranch(ctx, repoPath, "feature"))

	head, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)
	assert.Equal(t, "feature", head.Branch)
	assert.Equal(t, before.Hash, head.Hash)

	err = service.StartBranch(ctx, repoPath, "feature")
	require.ErrorIs(t, err, ErrBranchExists)

	branches, err := service.GetBranches(ctx, repoPath)
	require.NoError(t, err)
	require.Len(t, branches, 2)
	for _, b := range branches {
		assert.Equal(t, b.Name == "feature", b.IsCurrent)
	}
}

func TestService_StartBranch_Unborn(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := filepath.Join(t.TempDir(), "repo")

	_, err := service.Init(ctx, repoPath)
	require.NoError(t, err)

	require.NoError(t, service.StartBranch(ctx, repoPath, "main"))

	head, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)
	assert.Equal(t, "main", head.Branch)
	assert.True(t, head.Unborn())

	hash, err := service.Commit(ctx, repoPath, "Initial commit", true)
	require.NoError(t, err)

	head, err = service.GetHead(ctx, repoPath)
	require.NoError(t, err)
	assert.Equal(t, hash, head.Hash)
}

func TestService_Checkout(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	original, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)

	require.NoError(t, service.StartBranch(ctx, repoPath, "feature"))
	require.NoError(t, service.Checkout(ctx, repoPath, original.Branch))

	head, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)
	assert.Equal(t, original.Branch, head.Branch)

	err = service.Checkout(ctx, repoPath, "missing")
	require.ErrorIs(t, err, ErrBranchNotFound)
}

func TestService_Checkout_RefusesOverTrackedChanges(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	base, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)

	repo, err := git.PlainOpen(repoPath)
	require.NoError(t, err)

	require.NoError(t, service.StartBranch(ctx, repoPath, "feature"))
	commitFile(t, repo, repoPath, "f.txt", "feature only", "add f.txt")
	feature, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "test.txt"), []byte("local edit"), 0o644))

	err = service.Checkout(ctx, repoPath, base.Branch)
	require.ErrorIs(t, err, ErrCheckoutFailed)
	require.ErrorIs(t, err, ErrUncommittedChanges)

	head, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)
	assert.Equal(t, feature, head)

	status, err := service.GetStatus(ctx, repoPath)
	require.NoError(t, err)
	require.Len(t, status.Files, 1)
	assert.Equal(t, "test.txt", status.Files[0].Path)

	content, err := os.ReadFile(filepath.Join(repoPath, "test.txt"))
	require.NoError(t, err)
	assert.Equal(t, "local edit", string(content))
	assert.FileExists(t, filepath.Join(repoPath, "f.txt"))
}

func TestService_Checkout_IgnoresUntrackedFiles(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	base, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)

	require.NoError(t, service.StartBranch(ctx, repoPath, "feature"))
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "scratch.txt"), []byte("scratch"), 0o644))

	require.NoError(t, service.Checkout(ctx, repoPath, base.Branch))

	head, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)
	assert.Equal(t, base.Branch, head.Branch)
	assert.FileExists(t, filepath.Join(repoPath, "scratch.txt"))
}

func TestService_RenameBranch(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	require.NoError(t, service.StartBranch(ctx, repoPath, "legacy"))
	before, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)

	require.NoError(t, service.RenameBranch(ctx, repoPath, "legacy", "renamed"))

	head, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)
	assert.Equal(t, "renamed", head.Branch)
	assert.Equal(t, before.Hash, head.Hash)

	exists, err := service.BranchExists(ctx, repoPath, "legacy")
	require.NoError(t, err)
	assert.False(t, exists)

	err = service.RenameBranch(ctx, repoPath, "legacy", "other")
	require.ErrorIs(t, err, ErrBranchNotFound)
}

func TestService_SetUpstream(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	require.NoError(t, service.StartBranch(ctx, repoPath, "main"))

	err := service.SetUpstream(ctx, repoPath, "main", "origin")
	require.ErrorIs(t, err, ErrRemoteNotFound)

	require.NoError(t, service.SetRemote(ctx, repoPath, "origin", "https://example.com/a/repo.git"))
	require.NoError(t, service.SetUpstream(ctx, repoPath, "main", "origin"))

	repo, err := git.PlainOpen(repoPath)
	require.NoError(t, err)
	cfg, err := repo.Config()
	require.NoError(t, err)
	require.Contains(t, cfg.Branches, "main")
	assert.Equal(t, "origin", cfg.Branches["main"].Remote)
}

func TestService_StageAndCommit(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	dirty, err := service.IsDirty(ctx, repoPath)
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "test.txt"), []byte("changed"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "new.txt"), []byte("new"), 0o644))

	dirty, err = service.IsDirty(ctx, repoPath)
	require.NoError(t, err)
	assert.True(t, dirty)

	require.NoError(t, service.StageAll(ctx, repoPath, false))

	paths, err := service.GetStagedPaths(ctx, repoPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"test.txt"}, paths)

	require.NoError(t, service.StageAll(ctx, repoPath, true))

	paths, err = service.GetStagedPaths(ctx, repoPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"new.txt", "test.txt"}, paths)

	hash, err := service.Commit(ctx, repoPath, "update files", false)
	require.NoError(t, err)
	assert.Len(t, hash, 40)
	assert.Equal(t, 2, commitCount(t, repoPath))

	latest, err := service.GetLatestCommit(ctx, repoPath, "")
	require.NoError(t, err)
	assert.Equal(t, hash, latest)
}

func TestService_StageDeletedFile(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	require.NoError(t, os.Remove(filepath.Join(repoPath, "test.txt")))
	require.NoError(t, service.StageAll(ctx, repoPath, false))

	_, err := service.Commit(ctx, repoPath, "remove file", false)
	require.NoError(t, err)

	dirty, err := service.IsDirty(ctx, repoPath)
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestService_Files(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	require.NoError(t, service.WriteFile(ctx, repoPath, "docs/readme.md", []byte("# readme")))

	content, err := service.ReadFile(ctx, repoPath, "docs/readme.md")
	require.NoError(t, err)
	assert.Equal(t, "# readme", string(content))

	names, err := service.ListFiles(ctx, repoPath)
	require.NoError(t, err)
	assert.Equal(t, []string{".git", "docs", "test.txt"}, names)

	_, err = service.ReadFile(ctx, repoPath, "missing.txt")
	require.ErrorIs(t, err, ErrFileNotFound)

	err = service.WriteFile(ctx, filepath.Join(t.TempDir(), "missing"), "a.txt", []byte("a"))
	require.ErrorIs(t, err, ErrRepositoryNotFound)
}

func TestService_Merge(t *testing.T) {
	requireGitBinary(t)

	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	base, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)

	require.NoError(t, service.StartBranch(ctx, repoPath, "feature"))
	repo, err := git.PlainOpen(repoPath)
	require.NoError(t, err)
	commitFile(t, repo, repoPath, "y.txt", "y", "add y")

	require.NoError(t, service.Switch(ctx, repoPath, base.Branch))

	_, err = service.Merge(ctx, repoPath, "feature")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(repoPath, "y.txt"))
}

func TestService_MergeConflict(t *testing.T) {
	requireGitBinary(t)

	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	base, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)

	repo, err := git.PlainOpen(repoPath)
	require.NoError(t, err)

	require.NoError(t, service.StartBranch(ctx, repoPath, "feature"))
	commitFile(t, repo, repoPath, "test.txt", "feature side", "feature change")

	require.NoError(t, service.Switch(ctx, repoPath, base.Branch))
	commitFile(t, repo, repoPath, "test.txt", "base side", "base change")

	_, err = service.Merge(ctx, repoPath, "feature")
	require.ErrorIs(t, err, ErrCommandFailed)

	require.NoError(t, service.AbortMerge(ctx, repoPath))
	require.NoError(t, service.AbortMerge(ctx, repoPath))

	content, err := os.ReadFile(filepath.Join(repoPath, "test.txt"))
	require.NoError(t, err)
	assert.Equal(t, "base side", string(content))
}

func TestService_AbortMerge_RefusedMerge(t *testing.T) {
	requireGitBinary(t)

	service := newTestService(t)
	ctx := context.Background()
	repoPath := newTestRepo(t)

	base, err := service.GetHead(ctx, repoPath)
	require.NoError(t, err)

	repo, err := git.PlainOpen(repoPath)
	require.NoError(t, err)

	require.NoError(t, service.StartBranch(ctx, repoPath, "feature"))
	commitFile(t, repo, repoPath, "f.txt", "tracked on feature", "add f.txt")
	require.NoError(t, service.Switch(ctx, repoPath, base.Branch))

	// an untracked f.txt makes git refuse the merge before it starts
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "f.txt"), []byte("untracked"), 0o644))

	_, err = service.Merge(ctx, repoPath, "feature")
	require.ErrorIs(t, err, ErrCommandFailed)

	inProgress, err := mergeInProgress(repoPath)
	require.NoError(t, err)
	assert.False(t, inProgress)

	require.NoError(t, service.AbortMerge(ctx, repoPath))

	content, err := os.ReadFile(filepath.Join(repoPath, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "untracked", string(content))
}

func TestService_BinaryVersion(t *testing.T) {
	requireGitBinary(t)

	version, err := newTestService(t).BinaryVersion(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(version, "git version"), version)

	missing := NewService(Config{Binary: "git-does-not-exist"}, zaptest.NewLogger(t))
	_, err = missing.BinaryVersion(context.Background())
	require.ErrorIs(t, err, ErrCommandFailed)
}
