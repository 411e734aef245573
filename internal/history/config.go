package history

import "time"

type Config struct {
	// Retention is how long entries are kept. Zero keeps them forever.
	Retention time.Duration
	// DefaultLimit applies when a listing does not ask for a limit.
	DefaultLimit int
}
