package history

import (
	"encoding/json"
	"net/url"

	"github.com/gitpilot/gitpilot/internal/storage"
	"github.com/gitpilot/gitpilot/pkg/badgerfx"
)

const (
	prefix = "history:"

	prefixByID   = prefix + "id:"
	prefixByRepo = prefix + "repo:"
)

type entryModel struct {
	storage.Record

	Operation string `json:"operation"`
	RepoPath  string `json:"repo_path"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
}

func newEntryModel(draft EntryDraft) *entryModel {
	return &entryModel{
		Record:    storage.NewRecord(),
		Operation: draft.Operation,
		RepoPath:  draft.RepoPath,
		Success:   draft.Success,
		Message:   draft.Message,
	}
}

func newEntry(model *entryModel) Entry {
	return Entry{
		EntryDraft: EntryDraft{
			Operation: model.Operation,
			RepoPath:  model.RepoPath,
			Success:   model.Success,
			Message:   model.Message,
		},
		ID:        model.ID,
		CreatedAt: model.CreatedAt,
	}
}

func repoPrefix(repoPath string) string {
	return prefixByRepo + url.QueryEscape(repoPath) + ":"
}

// StorageKey implements badgerfx.Entity. UUIDv7 keys keep entries in creation order.
func (m *entryModel) StorageKey() string {
	return prefixByID + m.ID.String()
}

func (m *entryModel) StorageIndexes() []string {
	if m.RepoPath == "" {
		return nil
	}
	return []string{repoPrefix(m.RepoPath) + m.ID.String()}
}

func (m *entryModel) MarshalStorage() ([]byte, error) {
	return json.Marshal(m)
}

func (m *entryModel) UnmarshalStorage(data []byte) error {
	return json.Unmarshal(data, m)
}

var _ badgerfx.Entity = (*entryModel)(nil)
