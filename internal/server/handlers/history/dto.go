package history

import (
	"time"

	"github.com/gitpilot/gitpilot/internal/history"
	"github.com/google/uuid"
)

type ListQuery struct {
	RepoPath string `query:"repo_path"`
	Limit    int    `query:"limit"     validate:"omitempty,min=1,max=1000"`
}

type EntryResponse struct {
	ID        uuid.UUID `json:"id"`
	Operation string    `json:"operation"`
	RepoPath  string    `json:"repo_path"`
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newEntryResponse(e history.Entry, _ int) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		Operation: e.Operation,
		RepoPath:  e.RepoPath,
		Success:   e.Success,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
}
