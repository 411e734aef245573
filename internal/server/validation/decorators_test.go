package validation_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gitpilot/gitpilot/internal/server/validation"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bodyRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r *bodyRequest) Validate() error {
	if r.Name == "forbidden" {
		return errors.New("name is forbidden")
	}
	return nil
}

type queryRequest struct {
	Page int `query:"page" validate:"min=0"`
}

func newApp() *fiber.App {
	v := validator.New()
	app := fiber.New()

	app.Post("/body", validation.DecorateWithBodyEx(v, func(c *fiber.Ctx, req *bodyRequest) error {
		return c.SendString(req.Name)
	}))
	app.Get("/query", validation.DecorateWithQueryEx(v, func(c *fiber.Ctx, req *queryRequest) error {
		return c.JSON(req.Page)
	}))

	return app
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func postJSON(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/body", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestDecorateWithBodyEx(t *testing.T) {
	app := newApp()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "valid", body: `{"name":"repo"}`, wantStatus: fiber.StatusOK, wantBody: "repo"},
		{name: "missing field", body: `{}`, wantStatus: fiber.StatusBadRequest},
		{name: "malformed", body: `{"name":`, wantStatus: fiber.StatusBadRequest},
		{name: "custom rule", body: `{"name":"forbidden"}`, wantStatus: fiber.StatusBadRequest, wantBody: "name is forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := send(t, app, postJSON(tt.body))
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, body)
			}
		})
	}
}

func TestDecorateWithQueryEx(t *testing.T) {
	app := newApp()

	status, body := send(t, app, httptest.NewRequest(http.MethodGet, "/query?page=3", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "3", body)

	status, _ = send(t, app, httptest.NewRequest(http.MethodGet, "/query?page=-1", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
}
