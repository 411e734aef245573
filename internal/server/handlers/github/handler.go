package github

import (
	"errors"
	"fmt"

	"github.com/gitpilot/gitpilot/internal/credentials"
	"github.com/gitpilot/gitpilot/internal/github"
	"github.com/gitpilot/gitpilot/internal/server/response"
	"github.com/gitpilot/gitpilot/internal/server/validation"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Handler struct {
	client *github.Client

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(client *github.Client, validator *validator.Validate, logger *zap.Logger) handler.Handler {
	return &Handler{
		client: client,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/github")

	r.Use(h.errorsHandler)
	r.Post("/create-repo", validation.DecorateWithBodyEx(h.validator, h.createRepo))
	r.Get("/list-repos", validation.DecorateWithQueryEx(h.validator, h.listRepos))
	r.Get("/list-branches/:repo", h.listBranches)
	r.Post("/create-issue", validation.DecorateWithBodyEx(h.validator, h.createIssue))
	r.Get("/list-prs/:repo", validation.DecorateWithQueryEx(h.validator, h.listPRs))
	r.Post("/create-pr", validation.DecorateWithBodyEx(h.validator, h.createPR))
}

//	@Summary		Create a GitHub repository
//	@Description	Creates a repository for the authenticated account; private unless stated otherwise
//	@Tags			github
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateRepoRequest	true	"Repository"
//	@Success		201		{object}	response.Envelope{data=RepositoryResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		412		{object}	fiberfx.ErrorResponse
//	@Failure		502		{object}	fiberfx.ErrorResponse
//	@Router			/github/create-repo [post]
func (h *Handler) createRepo(c *fiber.Ctx, req *CreateRepoRequest) error {
	repo, err := h.client.CreateRepository(c.Context(), github.CreateRepositoryRequest{
		Name:        req.RepoName,
		Private:     lo.FromPtrOr(req.Private, true),
		Description: req.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}

	return response.Created(c, fmt.Sprintf("Repository %s created", repo.Name), newRepositoryResponse(repo, 0))
}

//	@Summary		List GitHub repositories
//	@Description	Lists repositories of the authenticated account, most recently updated first
//	@Tags			github
//	@Produce		json
//	@Param			page		query		int	false	"Page number"		default(1)
//	@Param			per_page	query		int	false	"Results per page"	default(30)
//	@Success		200			{object}	response.Envelope{data=[]RepositoryResponse}
//	@Failure		412			{object}	fiberfx.ErrorResponse
//	@Failure		502			{object}	fiberfx.ErrorResponse
//	@Router			/github/list-repos [get]
func (h *Handler) listRepos(c *fiber.Ctx, req *ListReposQuery) error {
	repos, err := h.client.ListRepositories(c.Context(), github.ListRepositoriesRequest{
		Page:    req.Page,
		PerPage: req.PerPage,
	})
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}

	return response.OK(c, fmt.Sprintf("Retrieved %d repositories", len(repos)), lo.Map(repos, newRepositoryResponse))
}

//	@Summary		List branches in a repository
//	@Tags			github
//	@Produce		json
//	@Param			repo	path		string	true	"Repository name"
//	@Success		200		{object}	response.Envelope{data=[]BranchResponse}
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Failure		412		{object}	fiberfx.ErrorResponse
//	@Router			/github/list-branches/{repo} [get]
func (h *Handler) listBranches(c *fiber.Ctx) error {
	repo := c.Params("repo")

	branches, err := h.client.ListBranches(c.Context(), repo)
	if err != nil {
		return fmt.Errorf("failed to list branches: %w", err)
	}

	return response.OK(c, fmt.Sprintf("Retrieved branches for %s", repo), lo.Map(branches, newBranchResponse))
}

//	@Summary		Create an issue
//	@Tags			github
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateIssueRequest	true	"Issue"
//	@Success		201		{object}	response.Envelope{data=IssueResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Failure		412		{object}	fiberfx.ErrorResponse
//	@Router			/github/create-issue [post]
func (h *Handler) createIssue(c *fiber.Ctx, req *CreateIssueRequest) error {
	issue, err := h.client.CreateIssue(c.Context(), github.CreateIssueRequest{
		Repo:   req.RepoName,
		Title:  req.Title,
		Body:   req.Body,
		Labels: req.Labels,
	})
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}

	return response.Created(c, fmt.Sprintf("Issue created in %s", req.RepoName), IssueResponse{
		Number:  issue.Number,
		Title:   issue.Title,
		State:   issue.State,
		HTMLURL: issue.HTMLURL,
		Labels:  issue.Labels,
	})
}

//	@Summary		List pull requests
//	@Tags			github
//	@Produce		json
//	@Param			repo	path		string	true	"Repository name"
//	@Param			state	query		string	false	"open, closed or all"	default(open)
//	@Success		200		{object}	response.Envelope{data=[]PullRequestResponse}
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Failure		412		{object}	fiberfx.ErrorResponse
//	@Router			/github/list-prs/{repo} [get]
func (h *Handler) listPRs(c *fiber.Ctx, req *ListPRsQuery) error {
	repo := c.Params("repo")

	prs, err := h.client.ListPullRequests(c.Context(), repo, req.State)
	if err != nil {
		return fmt.Errorf("failed to list pull requests: %w", err)
	}

	return response.OK(c, fmt.Sprintf("Retrieved %d pull requests for %s", len(prs), repo),
		lo.Map(prs, newPullRequestResponse))
}

//	@Summary		Create a pull request
//	@Tags			github
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreatePRRequest	true	"Pull request"
//	@Success		201		{object}	response.Envelope{data=PullRequestResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		412		{object}	fiberfx.ErrorResponse
//	@Failure		502		{object}	fiberfx.ErrorResponse
//	@Router			/github/create-pr [post]
func (h *Handler) createPR(c *fiber.Ctx, req *CreatePRRequest) error {
	pr, err := h.client.CreatePullRequest(c.Context(), github.CreatePullRequestRequest{
		Repo:  req.RepoName,
		Head:  req.Head,
		Base:  req.Base,
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to create pull request: %w", err)
	}

	return response.Created(c, "Pull request created", newPullRequestResponse(pr, 0))
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, github.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, credentials.ErrNotConfigured):
		return fiber.NewError(fiber.StatusPreconditionFailed, err.Error())
	case errors.Is(err, github.ErrAPI):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
