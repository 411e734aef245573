package history

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/gitpilot/gitpilot/pkg/badgerfx"
)

type Repository struct {
	db      *badger.DB
	entries *badgerfx.Repository[*entryModel]
}

func NewRepository(db *badger.DB, config Config) *Repository {
	return &Repository{
		db: db,
		entries: badgerfx.NewRepository[*entryModel](func() *entryModel { return new(entryModel) }).
			WithTTL(config.Retention),
	}
}

func (r *Repository) Create(_ context.Context, draft EntryDraft) (Entry, error) {
	model := newEntryModel(draft)

	if err := r.db.Update(func(txn *badger.Txn) error {
		return r.entries.Write(txn, model)
	}); err != nil {
		return Entry{}, fmt.Errorf("failed to create history entry: %w", err)
	}

	return newEntry(model), nil
}

// List returns entries newest first.
func (r *Repository) List(_ context.Context, filter Filter) ([]Entry, error) {
	var models []*entryModel

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		var err error
		if filter.RepoPath != "" {
			models, err = r.entries.ListByIndex(txn, repoPrefix(filter.RepoPath), opts, filter.Limit)
		} else {
			models, err = r.entries.List(txn, prefixByID, opts, filter.Limit)
		}

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}

	entries := make([]Entry, 0, len(models))
	for _, m := range models {
		entries = append(entries, newEntry(m))
	}

	return entries, nil
}
