package scaffold

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var ErrTemplateUnavailable = errors.New("template unavailable")

// TemplateSource fetches ignore templates by name, e.g. "Python".
type TemplateSource interface {
	Fetch(ctx context.Context, name string) (string, error)
}

type httpSource struct {
	config Config
}

func NewTemplateSource(config Config) TemplateSource {
	if config.TemplateBaseURL == "" {
		config.TemplateBaseURL = defaultTemplateBaseURL
	}

	return &httpSource{config: config}
}

// Fetch performs a GET for <base>/<name>.gitignore. Any status other than 200
// is reported as ErrTemplateUnavailable.
func (s *httpSource) Fetch(_ context.Context, name string) (string, error) {
	url := fmt.Sprintf("%s/%s.gitignore", strings.TrimSuffix(s.config.TemplateBaseURL, "/"), name)

	agent := fiber.Get(url)
	if s.config.Timeout > 0 {
		agent.Timeout(s.config.Timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("%w: %s: %w", ErrTemplateUnavailable, url, errors.Join(errs...))
	}
	if code != http.StatusOK {
		return "", fmt.Errorf("%w: %s: HTTP %d", ErrTemplateUnavailable, url, code)
	}

	return string(body), nil
}
