package git

import "time"

type AuthorConfig struct {
	Name  string
	Email string
}

type Config struct {
	// Timeout bounds network operations (push). Local operations are not bounded.
	Timeout time.Duration
	// Binary is the git executable used for merges. Defaults to "git".
	Binary string
	Author AuthorConfig
}
