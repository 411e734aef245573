package github

import (
	"time"

	"github.com/gitpilot/gitpilot/internal/github"
)

type CreateRepoRequest struct {
	RepoName    string `json:"repo_name"             validate:"required,max=100" example:"my-project"`
	Private     *bool  `json:"private,omitempty"`
	Description string `json:"description,omitempty" validate:"max=350"`
}

type ListReposQuery struct {
	Page    int `query:"page"     validate:"omitempty,min=1"         example:"1"`
	PerPage int `query:"per_page" validate:"omitempty,min=1,max=100" example:"30"`
}

type ListPRsQuery struct {
	State string `query:"state" validate:"omitempty,oneof=open closed all" example:"open"`
}

type CreateIssueRequest struct {
	RepoName string   `json:"repo_name"        validate:"required"`
	Title    string   `json:"title"            validate:"required,max=256"`
	Body     string   `json:"body,omitempty"`
	Labels   []string `json:"labels,omitempty"`
}

type CreatePRRequest struct {
	RepoName string `json:"repo_name"       validate:"required"`
	Head     string `json:"head"            validate:"required" example:"feature/login"`
	Base     string `json:"base"            validate:"required" example:"main"`
	Title    string `json:"title,omitempty"`
	Body     string `json:"body,omitempty"`
}

type RepositoryResponse struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description,omitempty"`
	Private       bool      `json:"private"`
	HTMLURL       string    `json:"html_url"`
	CloneURL      string    `json:"clone_url"`
	DefaultBranch string    `json:"default_branch,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BranchResponse struct {
	Name      string `json:"name"`
	SHA       string `json:"sha"`
	Protected bool   `json:"protected"`
}

type IssueResponse struct {
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	State   string   `json:"state"`
	HTMLURL string   `json:"html_url"`
	Labels  []string `json:"labels,omitempty"`
}

type PullRequestResponse struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
	Head    string `json:"head"`
	Base    string `json:"base"`
}

func newRepositoryResponse(r github.Repository, _ int) RepositoryResponse {
	return RepositoryResponse{
		Name:          r.Name,
		FullName:      r.FullName,
		Description:   r.Description,
		Private:       r.Private,
		HTMLURL:       r.HTMLURL,
		CloneURL:      r.CloneURL,
		DefaultBranch: r.DefaultBranch,
		UpdatedAt:     r.UpdatedAt,
	}
}

func newBranchResponse(b github.Branch, _ int) BranchResponse {
	return BranchResponse{Name: b.Name, SHA: b.SHA, Protected: b.Protected}
}

func newPullRequestResponse(p github.PullRequest, _ int) PullRequestResponse {
	return PullRequestResponse{
		Number:  p.Number,
		Title:   p.Title,
		State:   p.State,
		HTMLURL: p.HTMLURL,
		Head:    p.Head,
		Base:    p.Base,
	}
}
