package repos

import "github.com/gitpilot/gitpilot/internal/git"

// BranchOutcome tells a freshly created branch from one that was already there.
type BranchOutcome string

const (
	BranchCreated        BranchOutcome = "created"
	BranchAlreadyExisted BranchOutcome = "already_existed"
)

// DefaultBranchAction records which reconciliation step EnsureDefaultBranch took.
type DefaultBranchAction string

const (
	DefaultBranchPresent     DefaultBranchAction = "present"
	DefaultBranchRenamed     DefaultBranchAction = "renamed"
	DefaultBranchInitialized DefaultBranchAction = "initialized"
	DefaultBranchCreated     DefaultBranchAction = "created"
)

type CommitOutcome string

const (
	CommitCreated   CommitOutcome = "committed"
	NothingToCommit CommitOutcome = "nothing_to_commit"
)

type MergeState string

const (
	MergeMerged  MergeState = "merged"
	MergeAborted MergeState = "aborted"
)

type InitResult struct {
	Path      string
	Created   bool
	RemoteURL string
	// Warning is set when the remote could not be configured.
	Warning string
}

type BranchResult struct {
	Branch  string
	Outcome BranchOutcome
}

type DefaultBranchResult struct {
	Branch   string
	Action   DefaultBranchAction
	Upstream bool
	// Warning explains why upstream tracking was not set.
	Warning string
}

type StageResult struct {
	Paths []string
}

type CommitResult struct {
	Outcome   CommitOutcome
	Message   string
	Hash      string
	ShortHash string
}

// Committed reports whether a commit was created.
func (r CommitResult) Committed() bool {
	return r.Outcome == CommitCreated
}

type FileEntry struct {
	Path    string
	Content string
}

type FileError struct {
	Path  string
	Error string
}

type WriteFilesResult struct {
	Written []string
	Failed  []FileError
}

// Success reports whether every entry was written.
func (r WriteFilesResult) Success() bool {
	return len(r.Failed) == 0
}

type MergeRequest struct {
	Path   string
	Source string
	// Target defaults to the configured default branch.
	Target string
}

type MergeResult struct {
	Source string
	Target string
	State  MergeState
	// RestoredTo is the branch or commit checked out when the merge started.
	RestoredTo string
	Output     string
}

// Merged reports whether the source was merged into the target.
func (r MergeResult) Merged() bool {
	return r.State == MergeMerged
}

type PushRequest struct {
	Path string
	// Remote defaults to the configured remote name.
	Remote string
	// Branch defaults to the configured default branch.
	Branch string
}

type PushResult struct {
	Remote        string
	Branch        string
	RemoteURL     string
	RemoteCreated bool
	BranchCreated bool
	Commit        CommitResult
	Upstream      bool
}

type PullRequestRequest struct {
	Path   string
	Branch string
	Title  string
	Body   string
}

type Status = git.RepositoryStatus
