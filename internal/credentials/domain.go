package credentials

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("credentials not configured")
	ErrInvalid       = errors.New("invalid credentials")
)

type Credentials struct {
	Username string
	Token    string
}

func (c Credentials) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalid)
	}
	if c.Token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalid)
	}
	return nil
}

// RequireUsername returns ErrNotConfigured when no account identity is set.
func (c Credentials) RequireUsername() error {
	if c.Username == "" {
		return fmt.Errorf("%w: %s is not set", ErrNotConfigured, EnvUsername)
	}
	return nil
}

// RequireToken returns ErrNotConfigured when no token is set.
func (c Credentials) RequireToken() error {
	if c.Token == "" {
		return fmt.Errorf("%w: %s is not set", ErrNotConfigured, EnvToken)
	}
	return nil
}
