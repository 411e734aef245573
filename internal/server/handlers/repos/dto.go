package repos

import (
	"github.com/gitpilot/gitpilot/internal/git"
	"github.com/gitpilot/gitpilot/internal/repos"
	"github.com/gitpilot/gitpilot/internal/scaffold"
	"github.com/samber/lo"
)

type PathRequest struct {
	RepoPath string `json:"repo_path" validate:"required" example:"./bundle"`
}

type PathQuery struct {
	RepoPath string `query:"repo_path" validate:"required" example:"./bundle"`
}

type BranchRequest struct {
	PathRequest

	BranchName string `json:"branch_name" validate:"required,max=255" example:"feature/login"`
}

type AddAllRequest struct {
	PathRequest

	// IncludeUntracked defaults to true.
	IncludeUntracked *bool `json:"include_untracked,omitempty"`
}

type CommitRequest struct {
	PathRequest

	CommitMessage string `json:"commit_message" validate:"required" example:"Fix typo"`
}

type PushRequest struct {
	PathRequest

	RemoteName string `json:"remote_name,omitempty" example:"origin"`
	Branch     string `json:"branch,omitempty"      example:"main"`
}

type MergeRequest struct {
	PathRequest

	SourceBranch string `json:"source_branch"           validate:"required" example:"feature/login"`
	TargetBranch string `json:"target_branch,omitempty"                     example:"main"`
}

type ReadFileQuery struct {
	RepoPath string `query:"repo_path" validate:"required" example:"./bundle"`
	FileName string `query:"file_name" validate:"required" example:"README.md"`
}

type FileRequest struct {
	PathRequest

	FileName string `json:"file_name" validate:"required" example:"README.md"`
	Content  string `json:"content"`
}

type FileContent struct {
	Path    string `json:"path"    validate:"required" example:"src/main.py"`
	Content string `json:"content"                     example:"print('Hello')"`
}

type BatchFileRequest struct {
	PathRequest

	Files []FileContent `json:"files" validate:"required,min=1,dive"`
}

type GitignoreRequest struct {
	PathRequest

	ProjectType string `json:"project_type,omitempty" example:"Python"`
}

type PullRequestRequest struct {
	PathRequest

	BranchName string `json:"branch_name"     validate:"required" example:"feature/login"`
	Title      string `json:"title,omitempty"`
	Body       string `json:"body,omitempty"`
}

type InitResponse struct {
	RepoPath  string `json:"repo_path"`
	Created   bool   `json:"created"`
	RemoteURL string `json:"remote_url,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

type BranchResponse struct {
	Branch  string `json:"branch"`
	Outcome string `json:"outcome" enums:"created,already_existed"`
}

type DefaultBranchResponse struct {
	Branch   string `json:"branch"`
	Action   string `json:"action"            enums:"present,renamed,initialized,created"`
	Upstream bool   `json:"upstream"`
	Warning  string `json:"warning,omitempty"`
}

type StageResponse struct {
	StagedFiles []string `json:"staged_files"`
}

type CommitResponse struct {
	Outcome   string `json:"outcome"              enums:"committed,nothing_to_commit"`
	Message   string `json:"message"`
	Hash      string `json:"hash,omitempty"`
	ShortHash string `json:"short_hash,omitempty"`
}

type PushResponse struct {
	Remote        string          `json:"remote"`
	Branch        string          `json:"branch"`
	RemoteURL     string          `json:"remote_url"`
	RemoteCreated bool            `json:"remote_created"`
	BranchCreated bool            `json:"branch_created"`
	Commit        *CommitResponse `json:"commit,omitempty"`
	Upstream      bool            `json:"upstream"`
}

type MergeResponse struct {
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
	State        string `json:"state"           enums:"merged,aborted"`
	RestoredTo   string `json:"restored_to"`
	Output       string `json:"output,omitempty"`
}

type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type WriteFilesResponse struct {
	CreatedFiles []string    `json:"created_files"`
	Errors       []FileError `json:"errors,omitempty"`
}

type RemoteResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type StatusResponse struct {
	RepoPath      string           `json:"repo_path"`
	IsDirty       bool             `json:"is_dirty"`
	CurrentBranch string           `json:"current_branch"`
	LastCommit    string           `json:"last_commit,omitempty"`
	Remotes       []RemoteResponse `json:"remotes"`
	Files         []git.FileStatus `json:"files"`
	Summary       string           `json:"summary"`
}

type ContentsResponse struct {
	Contents any `json:"contents"`
}

type ProjectTypesResponse struct {
	ProjectTypes []string `json:"project_types"`
}

type IgnoreResponse struct {
	Path          string   `json:"path"`
	ProjectTypes  []string `json:"project_types,omitempty"`
	Origin        string   `json:"origin"                 enums:"local,download"`
	Template      string   `json:"template,omitempty"`
	Committed     bool     `json:"committed"`
	CommitMessage string   `json:"commit_message"`
	Warning       string   `json:"warning,omitempty"`
}

type PullRequestResponse struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
	Head    string `json:"head"`
	Base    string `json:"base"`
}

func newCommitResponse(r repos.CommitResult) CommitResponse {
	return CommitResponse{
		Outcome:   string(r.Outcome),
		Message:   r.Message,
		Hash:      r.Hash,
		ShortHash: r.ShortHash,
	}
}

func newStatusResponse(s *repos.Status) StatusResponse {
	return StatusResponse{
		RepoPath:      s.Path,
		IsDirty:       s.IsDirty,
		CurrentBranch: s.CurrentBranch,
		LastCommit:    s.LastCommit,
		Remotes: lo.Map(s.Remotes, func(r git.RemoteInfo, _ int) RemoteResponse {
			return RemoteResponse{Name: r.Name, URL: r.URL}
		}),
		Files:   s.Files,
		Summary: s.Summary,
	}
}

func newIgnoreResponse(r scaffold.IgnoreResult) IgnoreResponse {
	return IgnoreResponse{
		Path:          r.Path,
		ProjectTypes:  r.Types,
		Origin:        string(r.Origin),
		Template:      r.Template,
		Committed:     r.Committed,
		CommitMessage: r.CommitMessage,
		Warning:       r.Warning,
	}
}
