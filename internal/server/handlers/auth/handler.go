package auth

import (
	"errors"
	"fmt"

	"github.com/gitpilot/gitpilot/internal/credentials"
	"github.com/gitpilot/gitpilot/internal/server/response"
	"github.com/gitpilot/gitpilot/internal/server/validation"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	store *credentials.Store

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(store *credentials.Store, validator *validator.Validate, logger *zap.Logger) handler.Handler {
	return &Handler{
		store: store,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/auth")

	r.Use(h.errorsHandler)
	r.Post("/credentials", validation.DecorateWithBodyEx(h.validator, h.post))
	r.Get("/credentials", h.get)
}

//	@Summary		Save credentials
//	@Description	Persists the account identity to the credentials file and the process environment
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CredentialsRequest	true	"Username and token"
//	@Success		200		{object}	response.Envelope{data=SaveResponse}
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Router			/auth/credentials [post]
func (h *Handler) post(c *fiber.Ctx, req *CredentialsRequest) error {
	err := h.store.Save(credentials.Credentials{Username: req.Username, Token: req.Token})
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	return response.OK(c, "Credentials saved", SaveResponse{EnvPath: h.store.Path()})
}

//	@Summary		Verify credentials
//	@Description	Reports the configured username and whether a token is set; the token itself is never returned
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=CredentialsResponse}
//	@Router			/auth/credentials [get]
func (h *Handler) get(c *fiber.Ctx) error {
	creds, err := h.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	return response.OK(c, "Credentials status", CredentialsResponse{
		Username:    creds.Username,
		TokenExists: creds.Token != "",
	})
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	if errors.Is(err, credentials.ErrInvalid) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
