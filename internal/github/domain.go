package github

import (
	"time"

	gh "github.com/google/go-github/v68/github"
	"github.com/samber/lo"
)

type Repository struct {
	Name          string
	FullName      string
	Description   string
	Private       bool
	HTMLURL       string
	CloneURL      string
	DefaultBranch string
	UpdatedAt     time.Time
}

type Branch struct {
	Name      string
	SHA       string
	Protected bool
}

type Issue struct {
	Number  int
	Title   string
	State   string
	HTMLURL string
	Labels  []string
}

type PullRequest struct {
	Number  int
	Title   string
	State   string
	HTMLURL string
	Head    string
	Base    string
}

// CreateRepositoryRequest describes a repository to create for the authenticated user.
type CreateRepositoryRequest struct {
	Name        string
	Private     bool
	Description string
}

type ListRepositoriesRequest struct {
	Page    int
	PerPage int
}

type CreateIssueRequest struct {
	Repo   string
	Title  string
	Body   string
	Labels []string
}

type CreatePullRequestRequest struct {
	Repo  string
	Head  string
	Base  string
	Title string
	Body  string
}

func newRepository(r *gh.Repository) Repository {
	return Repository{
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		Private:       r.GetPrivate(),
		HTMLURL:       r.GetHTMLURL(),
		CloneURL:      r.GetCloneURL(),
		DefaultBranch: r.GetDefaultBranch(),
		UpdatedAt:     r.GetUpdatedAt().Time,
	}
}

func newBranch(b *gh.Branch) Branch {
	return Branch{
		Name:      b.GetName(),
		SHA:       b.GetCommit().GetSHA(),
		Protected: b.GetProtected(),
	}
}

func newIssue(i *gh.Issue) Issue {
	return Issue{
		Number:  i.GetNumber(),
		Title:   i.GetTitle(),
		State:   i.GetState(),
		HTMLURL: i.GetHTMLURL(),
		Labels:  lo.Map(i.Labels, func(l *gh.Label, _ int) string { return l.GetName() }),
	}
}

func newPullRequest(p *gh.PullRequest) PullRequest {
	return PullRequest{
		Number:  p.GetNumber(),
		Title:   p.GetTitle(),
		State:   p.GetState(),
		HTMLURL: p.GetHTMLURL(),
		Head:    p.GetHead().GetRef(),
		Base:    p.GetBase().GetRef(),
	}
}
