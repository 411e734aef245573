package history

import (
	"fmt"

	"github.com/gitpilot/gitpilot/internal/history"
	"github.com/gitpilot/gitpilot/internal/repos"
	"github.com/gitpilot/gitpilot/internal/server/response"
	"github.com/gitpilot/gitpilot/internal/server/validation"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Handler struct {
	historySvc *history.Service
	reposSvc   *repos.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	historySvc *history.Service,
	reposSvc *repos.Service,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		historySvc: historySvc,
		reposSvc:   reposSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/history", validation.DecorateWithQueryEx(h.validator, h.list))
}

//	@Summary		List operation history
//	@Description	Returns journaled workflow operations, most recent first
//	@Tags			history
//	@Produce		json
//	@Param			repo_path	query		string	false	"Only entries for this repository"
//	@Param			limit		query		int		false	"Maximum number of entries"	default(50)
//	@Success		200			{object}	response.Envelope{data=[]EntryResponse}
//	@Failure		400			{object}	fiberfx.ErrorResponse
//	@Router			/history [get]
func (h *Handler) list(c *fiber.Ctx, req *ListQuery) error {
	filter := history.Filter{Limit: req.Limit}
	if req.RepoPath != "" {
		path, err := h.reposSvc.ResolvePath(req.RepoPath)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		filter.RepoPath = path
	}

	entries, err := h.historySvc.List(c.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	return response.OK(c, fmt.Sprintf("Retrieved %d entries", len(entries)), lo.Map(entries, newEntryResponse))
}
