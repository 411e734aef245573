package repos

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
)
