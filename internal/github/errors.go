package github

import (
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v68/github"
)

var (
	ErrAPI      = errors.New("github api error")
	ErrNotFound = errors.New("github resource not found")
)

// wrapError classifies a go-github failure. A response with status 404 maps to
// ErrNotFound; everything else is ErrAPI.
func wrapError(action string, resp *gh.Response, err error) error {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, action, err)
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		return fmt.Errorf("%w: %s: %s", ErrAPI, action, ghErr.Message)
	}

	return fmt.Errorf("%w: %s: %w", ErrAPI, action, err)
}
