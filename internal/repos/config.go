package repos

type Config struct {
	// WorkspaceDir anchors relative repository paths.
	WorkspaceDir string
	// DefaultBranch is the canonical branch merges and pushes target.
	DefaultBranch string
	// LegacyBranch is renamed to DefaultBranch instead of being duplicated.
	LegacyBranch string
	// RemoteName is the remote derived from the account identity.
	RemoteName string
	// RemoteHost is the host used to derive remote URLs.
	RemoteHost string
}

func (c Config) withDefaults() Config {
	if c.WorkspaceDir == "" {
		c.WorkspaceDir = "."
	}
	if c.DefaultBranch == "" {
		c.DefaultBranch = "main"
	}
	if c.LegacyBranch == "" {
		c.LegacyBranch = "master"
	}
	if c.RemoteName == "" {
		c.RemoteName = "origin"
	}
	if c.RemoteHost == "" {
		c.RemoteHost = "github.com"
	}
	return c
}
