package repos

import (
	"errors"
	"fmt"

	"github.com/gitpilot/gitpilot/internal/credentials"
	"github.com/gitpilot/gitpilot/internal/git"
	"github.com/gitpilot/gitpilot/internal/github"
	"github.com/gitpilot/gitpilot/internal/history"
	"github.com/gitpilot/gitpilot/internal/repos"
	"github.com/gitpilot/gitpilot/internal/scaffold"
	"github.com/gitpilot/gitpilot/internal/server/response"
	"github.com/gitpilot/gitpilot/internal/server/validation"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Handler struct {
	reposSvc    *repos.Service
	scaffoldSvc *scaffold.Service
	historySvc  *history.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	reposSvc *repos.Service,
	scaffoldSvc *scaffold.Service,
	historySvc *history.Service,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		reposSvc:    reposSvc,
		scaffoldSvc: scaffoldSvc,
		historySvc:  historySvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/repos")

	r.Use(h.errorsHandler)
	r.Post("/init", validation.DecorateWithBodyEx(h.validator, h.init))
	r.Post("/create-branch", validation.DecorateWithBodyEx(h.validator, h.createBranch))
	r.Post("/ensure-main", validation.DecorateWithBodyEx(h.validator, h.ensureMain))
	r.Post("/add-all", validation.DecorateWithBodyEx(h.validator, h.addAll))
	r.Post("/commit", validation.DecorateWithBodyEx(h.validator, h.commit))
	r.Post("/push", validation.DecorateWithBodyEx(h.validator, h.push))
	r.Post("/merge", validation.DecorateWithBodyEx(h.validator, h.merge))
	r.Post("/add-file", validation.DecorateWithBodyEx(h.validator, h.addFile))
	r.Post("/add-files", validation.DecorateWithBodyEx(h.validator, h.addFiles))
	r.Post("/generate-gitignore", validation.DecorateWithBodyEx(h.validator, h.generateGitignore))
	r.Post("/download-gitignore", validation.DecorateWithBodyEx(h.validator, h.downloadGitignore))
	r.Post("/create-pr", validation.DecorateWithBodyEx(h.validator, h.createPR))
	r.Get("/status", validation.DecorateWithQueryEx(h.validator, h.status))
	r.Get("/list-files", validation.DecorateWithQueryEx(h.validator, h.listFiles))
	r.Get("/read-file", validation.DecorateWithQueryEx(h.validator, h.readFile))
	r.Get("/detect-project-type", validation.DecorateWithQueryEx(h.validator, h.detectProjectType))
}

//	@Summary		Initialize a local Git repository
//	@Description	Creates the directory and repository metadata if missing and points origin at the account's repository
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PathRequest	true	"Repository path"
//	@Success		200		{object}	response.Envelope{data=InitResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Router			/repos/init [post]
func (h *Handler) init(c *fiber.Ctx, req *PathRequest) error {
	result, err := h.reposSvc.Init(c.Context(), req.RepoPath)
	h.record(c, "init", req.RepoPath, err, "repository initialized")
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}

	return response.OK(c, fmt.Sprintf("Repository initialized at %s", result.Path), InitResponse{
		RepoPath:  result.Path,
		Created:   result.Created,
		RemoteURL: result.RemoteURL,
		Warning:   result.Warning,
	})
}

//	@Summary		Create a new branch
//	@Description	Creates a branch at HEAD and checks it out; an existing branch is only checked out
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		BranchRequest	true	"Branch to create"
//	@Success		200		{object}	response.Envelope{data=BranchResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Failure		409		{object}	fiberfx.ErrorResponse
//	@Router			/repos/create-branch [post]
func (h *Handler) createBranch(c *fiber.Ctx, req *BranchRequest) error {
	result, err := h.reposSvc.CreateBranch(c.Context(), req.RepoPath, req.BranchName)
	h.record(c, "create_branch", req.RepoPath, err, req.BranchName)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}

	message := fmt.Sprintf("Branch %s created and checked out", result.Branch)
	if result.Outcome == repos.BranchAlreadyExisted {
		message = fmt.Sprintf("Branch %s already exists, checked out", result.Branch)
	}

	return response.OK(c, message, BranchResponse{
		Branch:  result.Branch,
		Outcome: string(result.Outcome),
	})
}

//	@Summary		Ensure the default branch
//	@Description	Makes the default branch exist and be checked out, renaming the legacy branch when present
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PathRequest	true	"Repository path"
//	@Success		200		{object}	response.Envelope{data=DefaultBranchResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/repos/ensure-main [post]
func (h *Handler) ensureMain(c *fiber.Ctx, req *PathRequest) error {
	result, err := h.reposSvc.EnsureDefaultBranch(c.Context(), req.RepoPath)
	h.record(c, "ensure_default_branch", req.RepoPath, err, string(result.Action))
	if err != nil {
		return fmt.Errorf("failed to ensure default branch: %w", err)
	}

	return response.OK(c, fmt.Sprintf("Branch %s is checked out (%s)", result.Branch, result.Action), DefaultBranchResponse{
		Branch:   result.Branch,
		Action:   string(result.Action),
		Upstream: result.Upstream,
		Warning:  result.Warning,
	})
}

//	@Summary		Stage all changes
//	@Description	Equivalent to git add -A, or git add . when include_untracked is false
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddAllRequest	true	"Staging options"
//	@Success		200		{object}	response.Envelope{data=StageResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/repos/add-all [post]
func (h *Handler) addAll(c *fiber.Ctx, req *AddAllRequest) error {
	includeUntracked := lo.FromPtrOr(req.IncludeUntracked, true)

	result, err := h.reposSvc.StageAll(c.Context(), req.RepoPath, includeUntracked)
	h.record(c, "stage_all", req.RepoPath, err, fmt.Sprintf("%d paths staged", len(result.Paths)))
	if err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}

	message := "Added all changes including untracked files (-A)"
	if !includeUntracked {
		message = "Added current directory changes (.)"
	}

	return response.OK(c, message, StageResponse{StagedFiles: result.Paths})
}

//	@Summary		Stage and commit changes
//	@Description	Stages everything and commits; a clean tree reports nothing_to_commit with success=false
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CommitRequest	true	"Commit message"
//	@Success		200		{object}	response.Envelope{data=CommitResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/repos/commit [post]
func (h *Handler) commit(c *fiber.Ctx, req *CommitRequest) error {
	result, err := h.reposSvc.Commit(c.Context(), req.RepoPath, req.CommitMessage)
	h.record(c, "commit", req.RepoPath, err, string(result.Outcome))
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	if !result.Committed() {
		return response.Send(c, fiber.StatusOK, false, "Nothing to commit", newCommitResponse(result))
	}

	return response.OK(c, fmt.Sprintf("Changes committed with message: %s", result.Message), newCommitResponse(result))
}

//	@Summary		Push to remote
//	@Description	Commits outstanding changes and pushes the branch with the configured token
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PushRequest	true	"Push target"
//	@Success		200		{object}	response.Envelope{data=PushResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		412		{object}	fiberfx.ErrorResponse
//	@Router			/repos/push [post]
func (h *Handler) push(c *fiber.Ctx, req *PushRequest) error {
	result, err := h.reposSvc.Push(c.Context(), repos.PushRequest{
		Path:   req.RepoPath,
		Remote: req.RemoteName,
		Branch: req.Branch,
	})
	h.record(c, "push", req.RepoPath, err, fmt.Sprintf("%s/%s", result.Remote, result.Branch))
	if err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}

	resp := PushResponse{
		Remote:        result.Remote,
		Branch:        result.Branch,
		RemoteURL:     result.RemoteURL,
		RemoteCreated: result.RemoteCreated,
		BranchCreated: result.BranchCreated,
		Upstream:      result.Upstream,
	}
	if result.Commit.Outcome != "" {
		resp.Commit = lo.ToPtr(newCommitResponse(result.Commit))
	}

	return response.OK(c, "Pushed changes successfully", resp)
}

//	@Summary		Merge branches
//	@Description	Merges source into target; on conflict the merge is aborted and success is false
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		MergeRequest	true	"Branches to merge"
//	@Success		200		{object}	response.Envelope{data=MergeResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/repos/merge [post]
func (h *Handler) merge(c *fiber.Ctx, req *MergeRequest) error {
	result, err := h.reposSvc.Merge(c.Context(), repos.MergeRequest{
		Path:   req.RepoPath,
		Source: req.SourceBranch,
		Target: req.TargetBranch,
	})
	if err == nil && !result.Merged() {
		h.record(c, "merge", req.RepoPath, errors.New("merge aborted"), result.Output)
	} else {
		h.record(c, "merge", req.RepoPath, err, fmt.Sprintf("%s into %s", result.Source, result.Target))
	}
	if err != nil {
		return fmt.Errorf("failed to merge: %w", err)
	}

	resp := MergeResponse{
		SourceBranch: result.Source,
		TargetBranch: result.Target,
		State:        string(result.State),
		RestoredTo:   result.RestoredTo,
		Output:       result.Output,
	}

	if !result.Merged() {
		return response.Send(c, fiber.StatusOK, false,
			fmt.Sprintf("Merge of %s into %s aborted", result.Source, result.Target), resp)
	}

	return response.OK(c, fmt.Sprintf("Merged %s into %s successfully", result.Source, result.Target), resp)
}

//	@Summary		Add a file with content
//	@Description	Writes a file inside the repository, creating parent directories; nothing is staged
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		FileRequest	true	"File to write"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/repos/add-file [post]
func (h *Handler) addFile(c *fiber.Ctx, req *FileRequest) error {
	err := h.reposSvc.WriteFile(c.Context(), req.RepoPath, req.FileName, req.Content)
	h.record(c, "write_file", req.RepoPath, err, req.FileName)
	if err != nil {
		return fmt.Errorf("failed to add file: %w", err)
	}

	return response.OK(c, fmt.Sprintf("File %s written", req.FileName), nil)
}

//	@Summary		Add multiple files
//	@Description	Writes every file independently; success is true only if none failed
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		BatchFileRequest	true	"Files to write"
//	@Success		200		{object}	response.Envelope{data=WriteFilesResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/repos/add-files [post]
func (h *Handler) addFiles(c *fiber.Ctx, req *BatchFileRequest) error {
	files := lo.Map(req.Files, func(f FileContent, _ int) repos.FileEntry {
		return repos.FileEntry{Path: f.Path, Content: f.Content}
	})

	result, err := h.reposSvc.WriteFiles(c.Context(), req.RepoPath, files)
	if err == nil && !result.Success() {
		h.record(c, "write_files", req.RepoPath, errors.New("partial failure"),
			fmt.Sprintf("%d written, %d failed", len(result.Written), len(result.Failed)))
	} else {
		h.record(c, "write_files", req.RepoPath, err, fmt.Sprintf("%d written", len(result.Written)))
	}
	if err != nil {
		return fmt.Errorf("failed to add files: %w", err)
	}

	resp := WriteFilesResponse{
		CreatedFiles: result.Written,
		Errors: lo.Map(result.Failed, func(f repos.FileError, _ int) FileError {
			return FileError{Path: f.Path, Error: f.Error}
		}),
	}

	if !result.Success() {
		return response.Send(c, fiber.StatusOK, false,
			fmt.Sprintf("Created %d files, %d failed", len(result.Written), len(result.Failed)), resp)
	}

	return response.OK(c, fmt.Sprintf("Created %d files", len(result.Written)), resp)
}

//	@Summary		Generate .gitignore
//	@Description	Synthesizes .gitignore from the built-in templates of every detected project type and commits it
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PathRequest	true	"Repository path"
//	@Success		200		{object}	response.Envelope{data=IgnoreResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/repos/generate-gitignore [post]
func (h *Handler) generateGitignore(c *fiber.Ctx, req *PathRequest) error {
	result, err := h.scaffoldSvc.GenerateIgnoreFile(c.Context(), req.RepoPath)
	h.record(c, "generate_gitignore", req.RepoPath, err, result.CommitMessage)
	if err != nil {
		return fmt.Errorf("failed to generate gitignore: %w", err)
	}

	return response.OK(c, fmt.Sprintf("Gitignore file generated at %s", result.Path), newIgnoreResponse(result))
}

//	@Summary		Download .gitignore template
//	@Description	Downloads the published template for the project type, falling back to local synthesis
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GitignoreRequest	true	"Repository path and optional template name"
//	@Success		200		{object}	response.Envelope{data=IgnoreResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/repos/download-gitignore [post]
func (h *Handler) downloadGitignore(c *fiber.Ctx, req *GitignoreRequest) error {
	result, err := h.scaffoldSvc.DownloadIgnoreTemplate(c.Context(), req.RepoPath, req.ProjectType)
	h.record(c, "download_gitignore", req.RepoPath, err, result.CommitMessage)
	if err != nil {
		return fmt.Errorf("failed to download gitignore: %w", err)
	}

	message := fmt.Sprintf("GitHub gitignore template downloaded to %s", result.Path)
	if result.Origin == scaffold.OriginLocal {
		message = fmt.Sprintf("Template unavailable, gitignore file generated at %s", result.Path)
	}

	return response.OK(c, message, newIgnoreResponse(result))
}

//	@Summary		Create a pull request
//	@Description	Opens a pull request from the branch into the default branch of the repository named after the path
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PullRequestRequest	true	"Pull request"
//	@Success		201		{object}	response.Envelope{data=PullRequestResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		412		{object}	fiberfx.ErrorResponse
//	@Failure		502		{object}	fiberfx.ErrorResponse
//	@Router			/repos/create-pr [post]
func (h *Handler) createPR(c *fiber.Ctx, req *PullRequestRequest) error {
	pr, err := h.reposSvc.CreatePullRequest(c.Context(), repos.PullRequestRequest{
		Path:   req.RepoPath,
		Branch: req.BranchName,
		Title:  req.Title,
		Body:   req.Body,
	})
	h.record(c, "create_pull_request", req.RepoPath, err, pr.HTMLURL)
	if err != nil {
		return fmt.Errorf("failed to create pull request: %w", err)
	}

	return response.Created(c, "Pull request created", PullRequestResponse{
		Number:  pr.Number,
		Title:   pr.Title,
		State:   pr.State,
		HTMLURL: pr.HTMLURL,
		Head:    pr.Head,
		Base:    pr.Base,
	})
}

//	@Summary		Get repository status
//	@Tags			repos
//	@Produce		json
//	@Param			repo_path	query		string	true	"Repository path"
//	@Success		200			{object}	response.Envelope{data=StatusResponse}
//	@Failure		404			{object}	fiberfx.ErrorResponse
//	@Router			/repos/status [get]
func (h *Handler) status(c *fiber.Ctx, req *PathQuery) error {
	status, err := h.reposSvc.Status(c.Context(), req.RepoPath)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	return response.OK(c, "Repository status retrieved", newStatusResponse(status))
}

//	@Summary		List directory contents
//	@Tags			repos
//	@Produce		json
//	@Param			repo_path	query		string	true	"Repository path"
//	@Success		200			{object}	response.Envelope{data=ContentsResponse}
//	@Failure		404			{object}	fiberfx.ErrorResponse
//	@Router			/repos/list-files [get]
func (h *Handler) listFiles(c *fiber.Ctx, req *PathQuery) error {
	names, err := h.reposSvc.ListFiles(c.Context(), req.RepoPath)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	return response.OK(c, fmt.Sprintf("Contents of %s", req.RepoPath), ContentsResponse{Contents: names})
}

//	@Summary		Read file contents
//	@Tags			repos
//	@Produce		json
//	@Param			repo_path	query		string	true	"Repository path"
//	@Param			file_name	query		string	true	"File path relative to the repository"
//	@Success		200			{object}	response.Envelope{data=ContentsResponse}
//	@Failure		404			{object}	fiberfx.ErrorResponse
//	@Router			/repos/read-file [get]
func (h *Handler) readFile(c *fiber.Ctx, req *ReadFileQuery) error {
	content, err := h.reposSvc.ReadFile(c.Context(), req.RepoPath, req.FileName)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	return response.OK(c, fmt.Sprintf("Contents of %s", req.FileName), ContentsResponse{Contents: content})
}

//	@Summary		Detect project type
//	@Tags			repos
//	@Produce		json
//	@Param			repo_path	query		string	true	"Repository path"
//	@Success		200			{object}	response.Envelope{data=ProjectTypesResponse}
//	@Router			/repos/detect-project-type [get]
func (h *Handler) detectProjectType(c *fiber.Ctx, req *PathQuery) error {
	types, err := h.scaffoldSvc.DetectProjectType(c.Context(), req.RepoPath)
	if err != nil {
		return fmt.Errorf("failed to detect project type: %w", err)
	}

	return response.OK(c, "Project type detected", ProjectTypesResponse{ProjectTypes: types})
}

// record journals a mutating call under its resolved repository path.
func (h *Handler) record(c *fiber.Ctx, operation, path string, err error, message string) {
	if resolved, resolveErr := h.reposSvc.ResolvePath(path); resolveErr == nil {
		path = resolved
	}

	draft := history.EntryDraft{
		Operation: operation,
		RepoPath:  path,
		Success:   err == nil,
		Message:   message,
	}
	if err != nil {
		draft.Message = err.Error()
	}

	h.historySvc.Record(c.Context(), draft)
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, repos.ErrInvalidRequest),
		errors.Is(err, git.ErrInvalidRepository),
		errors.Is(err, credentials.ErrInvalid):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, git.ErrRepositoryNotFound),
		errors.Is(err, git.ErrBranchNotFound),
		errors.Is(err, git.ErrFileNotFound),
		errors.Is(err, git.ErrRemoteNotFound),
		errors.Is(err, github.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, git.ErrBranchExists),
		errors.Is(err, git.ErrNoCommits),
		errors.Is(err, git.ErrUncommittedChanges):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, credentials.ErrNotConfigured):
		return fiber.NewError(fiber.StatusPreconditionFailed, err.Error())
	case errors.Is(err, github.ErrAPI):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
