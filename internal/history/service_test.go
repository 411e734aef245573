package history

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/gitpilot/gitpilot/pkg/badgerfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, config Config) *Service {
	t.Helper()

	db, err := badger.Open(badgerfx.Config{InMemory: true}.Build().WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewService(config, NewRepository(db, config), zaptest.NewLogger(t))
}

func TestService_RecordAndList(t *testing.T) {
	service := newTestService(t, Config{})
	ctx := context.Background()

	service.Record(ctx, EntryDraft{Operation: "init", RepoPath: "/tmp/a", Success: true, Message: "first"})
	service.Record(ctx, EntryDraft{Operation: "commit", RepoPath: "/tmp/b", Success: false, Message: "second"})
	service.Record(ctx, EntryDraft{Operation: "merge", RepoPath: "/tmp/a", Success: true, Message: "third"})

	entries, err := service.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Message)
	assert.Equal(t, "first", entries[2].Message)
	assert.NotZero(t, entries[0].ID)
	assert.False(t, entries[0].CreatedAt.IsZero())

	entries, err = service.List(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[1].Message)
}

func TestService_ListByRepo(t *testing.T) {
	service := newTestService(t, Config{})
	ctx := context.Background()

	service.Record(ctx, EntryDraft{Operation: "init", RepoPath: "/tmp/a"})
	service.Record(ctx, EntryDraft{Operation: "init", RepoPath: "/tmp/a:b"})
	service.Record(ctx, EntryDraft{Operation: "commit", RepoPath: "/tmp/a"})

	entries, err := service.List(ctx, Filter{RepoPath: "/tmp/a"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "commit", entries[0].Operation)
	assert.Equal(t, "init", entries[1].Operation)
	for _, e := range entries {
		assert.Equal(t, "/tmp/a", e.RepoPath)
	}
}

func TestService_DefaultLimit(t *testing.T) {
	service := newTestService(t, Config{DefaultLimit: 1})
	ctx := context.Background()

	service.Record(ctx, EntryDraft{Operation: "a"})
	service.Record(ctx, EntryDraft{Operation: "b"})

	entries, err := service.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].Operation)
}
