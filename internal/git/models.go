package git

// FileStatus is the two-column status of a single path.
type FileStatus struct {
	Path     string `json:"path"`
	Staging  string `json:"staging"`
	Worktree string `json:"worktree"`
}

// RepositoryStatus represents the status of a Git repository.
type RepositoryStatus struct {
	Path          string       // Repository path
	IsDirty       bool         // Has uncommitted changes, untracked files included
	CurrentBranch string       // Current branch name
	LastCommit    string       // Last commit hash
	Remotes       []RemoteInfo // Configured remotes
	Files         []FileStatus // Per-path status, sorted by path
	Summary       string       // Porcelain-like status text
}
