package scaffold

// Origin tells where the written ignore file came from.
type Origin string

const (
	OriginLocal    Origin = "local"
	OriginDownload Origin = "download"
)

const IgnoreFileName = ".gitignore"

type IgnoreResult struct {
	// Path of the written ignore file.
	Path   string
	Types  []string
	Origin Origin
	// Template is the downloaded template name; empty for local synthesis.
	Template string
	// Committed is false when the commit failed; the file is still written.
	Committed     bool
	CommitMessage string
	// Warning describes a swallowed failure: a download or commit error.
	Warning string
}
