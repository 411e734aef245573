package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gitpilot/gitpilot/internal/credentials"
	gh "github.com/google/go-github/v68/github"
	"go.uber.org/zap"
)

const (
	defaultPerPage = 30
	maxPerPage     = 100
)

type Config struct {
	// BaseURL of the REST API. Empty means api.github.com.
	BaseURL string
	// Timeout bounds every outbound call.
	Timeout time.Duration
}

type CredentialsSource interface {
	Load() (credentials.Credentials, error)
}

// Client wraps the GitHub REST API for the authenticated account.
// Credentials are loaded on every call so updates take effect without a restart.
type Client struct {
	config      Config
	credentials CredentialsSource
	httpClient  *http.Client

	logger *zap.Logger
}

func NewClient(config Config, creds CredentialsSource, logger *zap.Logger) *Client {
	return &Client{
		config:      config,
		credentials: creds,
		httpClient:  &http.Client{Timeout: config.Timeout},

		logger: logger,
	}
}

// CreateRepository creates a repository without an initial commit.
func (c *Client) CreateRepository(ctx context.Context, req CreateRepositoryRequest) (Repository, error) {
	client, _, err := c.client()
	if err != nil {
		return Repository{}, err
	}

	repo := &gh.Repository{
		Name:     gh.Ptr(req.Name),
		Private:  gh.Ptr(req.Private),
		AutoInit: gh.Ptr(false),
	}
	if req.Description != "" {
		repo.Description = gh.Ptr(req.Description)
	}

	created, resp, err := client.Repositories.Create(ctx, "", repo)
	if err != nil {
		c.logger.Error("failed to create repository", zap.String("name", req.Name), zap.Error(err))
		return Repository{}, wrapError("create repository", resp, err)
	}

	c.logger.Info("repository created",
		zap.String("name", created.GetFullName()),
		zap.String("url", created.GetHTMLURL()))

	return newRepository(created), nil
}

// ListRepositories lists repositories of the authenticated user, most recently updated first.
func (c *Client) ListRepositories(ctx context.Context, req ListRepositoriesRequest) ([]Repository, error) {
	client, _, err := c.client()
	if err != nil {
		return nil, err
	}

	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Sort:      "updated",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			Page:    max(req.Page, 1),
			PerPage: perPage(req.PerPage),
		},
	}

	repos, resp, err := client.Repositories.ListByAuthenticatedUser(ctx, opts)
	if err != nil {
		return nil, wrapError("list repositories", resp, err)
	}

	result := make([]Repository, 0, len(repos))
	for _, r := range repos {
		result = append(result, newRepository(r))
	}

	return result, nil
}

// ListBranches lists branches of a repository owned by the configured account.
func (c *Client) ListBranches(ctx context.Context, repo string) ([]Branch, error) {
	client, owner, err := c.client()
	if err != nil {
		return nil, err
	}

	branches, resp, err := client.Repositories.ListBranches(ctx, owner, repo, &gh.BranchListOptions{
		ListOptions: gh.ListOptions{PerPage: maxPerPage},
	})
	if err != nil {
		return nil, wrapError("list branches", resp, err)
	}

	result := make([]Branch, 0, len(branches))
	for _, b := range branches {
		result = append(result, newBranch(b))
	}

	return result, nil
}

func (c *Client) CreateIssue(ctx context.Context, req CreateIssueRequest) (Issue, error) {
	client, owner, err := c.client()
	if err != nil {
		return Issue{}, err
	}

	issueReq := &gh.IssueRequest{
		Title: gh.Ptr(req.Title),
	}
	if req.Body != "" {
		issueReq.Body = gh.Ptr(req.Body)
	}
	if len(req.Labels) > 0 {
		issueReq.Labels = &req.Labels
	}

	issue, resp, err := client.Issues.Create(ctx, owner, req.Repo, issueReq)
	if err != nil {
		c.logger.Error("failed to create issue", zap.String("repo", req.Repo), zap.Error(err))
		return Issue{}, wrapError("create issue", resp, err)
	}

	c.logger.Info("issue created", zap.String("url", issue.GetHTMLURL()))

	return newIssue(issue), nil
}

// ListPullRequests lists pull requests in the given state: open, closed or all.
func (c *Client) ListPullRequests(ctx context.Context, repo, state string) ([]PullRequest, error) {
	client, owner, err := c.client()
	if err != nil {
		return nil, err
	}

	if state == "" {
		state = "open"
	}

	prs, resp, err := client.PullRequests.List(ctx, owner, repo, &gh.PullRequestListOptions{
		State: state,
	})
	if err != nil {
		return nil, wrapError("list pull requests", resp, err)
	}

	result := make([]PullRequest, 0, len(prs))
	for _, p := range prs {
		result = append(result, newPullRequest(p))
	}

	return result, nil
}

// CreatePullRequest opens a pull request. Empty title and body get generated defaults.
func (c *Client) CreatePullRequest(ctx context.Context, req CreatePullRequestRequest) (PullRequest, error) {
	client, owner, err := c.client()
	if err != nil {
		return PullRequest{}, err
	}

	if req.Title == "" {
		req.Title = fmt.Sprintf("Merge %s into %s", req.Head, req.Base)
	}
	if req.Body == "" {
		req.Body = fmt.Sprintf("Automated PR: Merging %s into %s", req.Head, req.Base)
	}

	pr, resp, err := client.PullRequests.Create(ctx, owner, req.Repo, &gh.NewPullRequest{
		Title: gh.Ptr(req.Title),
		Head:  gh.Ptr(req.Head),
		Base:  gh.Ptr(req.Base),
		Body:  gh.Ptr(req.Body),
	})
	if err != nil {
		c.logger.Error("failed to create pull request",
			zap.String("repo", req.Repo),
			zap.String("head", req.Head),
			zap.Error(err))
		return PullRequest{}, wrapError("create pull request", resp, err)
	}

	c.logger.Info("pull request created", zap.String("url", pr.GetHTMLURL()))

	return newPullRequest(pr), nil
}

// client builds an authenticated API client and returns it with the account name.
func (c *Client) client() (*gh.Client, string, error) {
	creds, err := c.credentials.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load credentials: %w", err)
	}
	if tokenErr := creds.RequireToken(); tokenErr != nil {
		return nil, "", tokenErr
	}
	if userErr := creds.RequireUsername(); userErr != nil {
		return nil, "", userErr
	}

	client := gh.NewClient(c.httpClient).WithAuthToken(creds.Token)

	if c.config.BaseURL != "" {
		baseURL, parseErr := url.Parse(strings.TrimSuffix(c.config.BaseURL, "/") + "/")
		if parseErr != nil {
			return nil, "", fmt.Errorf("invalid github base url: %w", parseErr)
		}
		client.BaseURL = baseURL
	}

	return client, creds.Username, nil
}

func perPage(n int) int {
	if n <= 0 {
		return defaultPerPage
	}
	return min(n, maxPerPage)
}
