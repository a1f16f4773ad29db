package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *CorpusStore {
	t.Helper()
	store, err := NewCorpusStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInsertAndRead(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	stored, err := store.Insert(ctx, "hw1", "a.txt", []byte("alpha"), "hash-a")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", stored)

	exists, err := store.Exists(ctx, "hw1", "hash-a")
	require.NoError(t, err)
	assert.True(t, exists)

	content, err := store.Content(ctx, "hw1", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha"), content)

	// Bytes are stored verbatim on disk under the assignment directory.
	raw, err := os.ReadFile(filepath.Join(store.dataDir, "assignments", "hw1", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha"), raw)
}

func TestInsert_DuplicateHash(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Insert(ctx, "hw1", "a.txt", []byte("alpha"), "hash-a")
	require.NoError(t, err)

	_, err = store.Insert(ctx, "hw1", "b.txt", []byte("alpha"), "hash-a")
	assert.ErrorIs(t, err, domain.ErrDuplicateContent)
}

func TestInsert_FilenameCollision(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Insert(ctx, "hw1", "essay.txt", []byte("one"), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "essay.txt", first)

	second, err := store.Insert(ctx, "hw1", "essay.txt", []byte("two"), "hash-2")
	require.NoError(t, err)
	assert.Equal(t, "essay (1).txt", second)

	for name, want := range map[string]string{
		"essay.txt":     "one",
		"essay (1).txt": "two",
	} {
		content, err := store.Content(ctx, "hw1", name)
		require.NoError(t, err)
		assert.Equal(t, want, string(content))
	}
}

func TestInsert_SanitizesPathTraversal(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	stored, err := store.Insert(ctx, "hw1", "../../escape.txt", []byte("x"), "hash-x")
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", stored)

	_, err = os.Stat(filepath.Join(store.dataDir, "assignments", "hw1", "escape.txt"))
	assert.NoError(t, err)
}

func TestList_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Insert(ctx, "hw1", "first.txt", []byte("1"), "h1")
	require.NoError(t, err)
	_, err = store.Insert(ctx, "hw1", "second.txt", []byte("2"), "h2")
	require.NoError(t, err)

	entries, err := store.List(ctx, "hw1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first.txt", entries[0].Filename)
	assert.Equal(t, "h1", entries[0].ContentHash)
	assert.Equal(t, "second.txt", entries[1].Filename)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestAssignmentsIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Insert(ctx, "hw1", "a.txt", []byte("alpha"), "hash-a")
	require.NoError(t, err)

	exists, err := store.Exists(ctx, "hw2", "hash-a")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Insert(ctx, "hw2", "a.txt", []byte("alpha"), "hash-a")
	assert.NoError(t, err)
}

func TestContent_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Content(context.Background(), "hw1", "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReopenKeepsLedger(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	store, err := NewCorpusStore(dataDir)
	require.NoError(t, err)
	_, err = store.Insert(ctx, "hw1", "a.txt", []byte("alpha"), "hash-a")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewCorpusStore(dataDir)
	require.NoError(t, err)
	defer reopened.Close()

	exists, err := reopened.Exists(ctx, "hw1", "hash-a")
	require.NoError(t, err)
	assert.True(t, exists)

	entries, err := reopened.List(ctx, "hw1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Filename)
}
