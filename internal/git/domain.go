package git

// BranchInfo represents information about a Git branch.
type BranchInfo struct {
	Name      string // Branch name
	IsCurrent bool   // Whether HEAD points at this branch
	Hash      string // Latest commit hash on this branch
}

// RemoteInfo represents a configured remote.
type RemoteInfo struct {
	Name string
	URL  string
}

// Head describes what HEAD points at.
type Head struct {
	Branch string // Branch name; empty when detached
	Hash   string // Commit hash; empty when the branch is unborn
}

// Detached reports whether HEAD points directly at a commit.
func (h Head) Detached() bool {
	return h.Branch == ""
}

// Unborn reports whether HEAD names a branch that has no commits yet.
func (h Head) Unborn() bool {
	return h.Hash == ""
}

// Ref returns the branch name, or the commit hash for a detached HEAD.
func (h Head) Ref() string {
	if h.Detached() {
		return h.Hash
	}
	return h.Branch
}

// PushRequest represents the request to push a branch.
type PushRequest struct {
	Path     string // Repository path
	Remote   string // Remote name
	Branch   string // Local branch pushed to the same name on the remote
	Username string // HTTPS username
	Token    string // HTTPS token; no auth is sent when empty
}
