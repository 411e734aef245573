package history

import (
	"time"

	"github.com/google/uuid"
)

// EntryDraft describes a completed workflow operation.
type EntryDraft struct {
	Operation string
	RepoPath  string
	Success   bool
	Message   string
}

// Entry is a journaled operation.
type Entry struct {
	EntryDraft

	ID        uuid.UUID
	CreatedAt time.Time
}

// Filter narrows List results. Zero values mean no filtering.
type Filter struct {
	RepoPath string
	Limit    int
}
