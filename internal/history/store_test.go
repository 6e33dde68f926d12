package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/anisearch/internal/search"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordSearch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	err := store.RecordSearch(ctx, search.Outcome{
		Query:    "naruto",
		Results:  2,
		Duration: 150 * time.Millisecond,
		At:       at,
	})
	require.NoError(t, err)

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.NotZero(t, e.ID)
	assert.Equal(t, "naruto", e.Query)
	assert.Equal(t, StatusSuccess, e.Status)
	assert.Equal(t, 2, e.Results)
	assert.Empty(t, e.Error)
	assert.Equal(t, 150*time.Millisecond, e.Duration)
	assert.True(t, at.Equal(e.SearchedAt), "got %v", e.SearchedAt)
}

func TestStore_RecordSearch_Statuses(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordSearch(ctx, search.Outcome{Query: "ok", At: base}))
	require.NoError(t, store.RecordSearch(ctx, search.Outcome{Query: "bad", Err: errors.New("fetch failed: 500"), At: base.Add(time.Second)}))
	require.NoError(t, store.RecordSearch(ctx, search.Outcome{Query: "old", Stale: true, At: base.Add(2 * time.Second)}))

	entries, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "old", entries[0].Query)
	assert.Equal(t, StatusStale, entries[0].Status)
	assert.Equal(t, "bad", entries[1].Query)
	assert.Equal(t, StatusFailed, entries[1].Status)
	assert.Equal(t, "fetch failed: 500", entries[1].Error)
	assert.Equal(t, "ok", entries[2].Query)
	assert.Equal(t, StatusSuccess, entries[2].Status)
}

func TestStore_RecordSearch_DefaultsTimestamp(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	require.NoError(t, store.RecordSearch(ctx, search.Outcome{Query: "bleach"}))

	entries, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].SearchedAt.After(before))
}

func TestStore_Recent_Limit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordSearch(ctx, search.Outcome{
			Query: fmt.Sprintf("q%d", i),
			At:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "q4", entries[0].Query)
	assert.Equal(t, "q3", entries[1].Query)
}

func TestStore_Recent_Empty(t *testing.T) {
	store := setupTestStore(t)

	entries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_Prune(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.RecordSearch(ctx, search.Outcome{Query: "ancient", At: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.RecordSearch(ctx, search.Outcome{Query: "recent", At: now.Add(-time.Minute)}))

	n, err := store.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	entries, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "recent", entries[0].Query)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.RecordSearch(context.Background(), search.Outcome{Query: "naruto"}))
	require.NoError(t, store.Close())

	// Reopening keeps data and re-applies the schema without error.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "naruto", entries[0].Query)
}

func TestStore_SatisfiesRecorder(t *testing.T) {
	var _ search.Recorder = (*Store)(nil)
}
