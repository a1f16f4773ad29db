package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
)

func TestInsertAndRead(t *testing.T) {
	ctx := context.Background()
	store := NewCorpusStore()

	stored, err := store.Insert(ctx, "hw1", "a.txt", []byte("alpha"), "hash-a")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", stored)

	exists, err := store.Exists(ctx, "hw1", "hash-a")
	require.NoError(t, err)
	assert.True(t, exists)

	content, err := store.Content(ctx, "hw1", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha"), content)
}

func TestInsert_DuplicateHash(t *testing.T) {
	ctx := context.Background()
	store := NewCorpusStore()

	_, err := store.Insert(ctx, "hw1", "a.txt", []byte("alpha"), "hash-a")
	require.NoError(t, err)

	_, err = store.Insert(ctx, "hw1", "b.txt", []byte("alpha"), "hash-a")
	assert.ErrorIs(t, err, domain.ErrDuplicateContent)
}

func TestInsert_FilenameCollision(t *testing.T) {
	ctx := context.Background()
	store := NewCorpusStore()

	first, err := store.Insert(ctx, "hw1", "essay.txt", []byte("one"), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "essay.txt", first)

	second, err := store.Insert(ctx, "hw1", "essay.txt", []byte("two"), "hash-2")
	require.NoError(t, err)
	assert.Equal(t, "essay (1).txt", second)

	third, err := store.Insert(ctx, "hw1", "essay.txt", []byte("three"), "hash-3")
	require.NoError(t, err)
	assert.Equal(t, "essay (2).txt", third)

	// All three remain retrievable under their stored names.
	for name, want := range map[string]string{
		"essay.txt":     "one",
		"essay (1).txt": "two",
		"essay (2).txt": "three",
	} {
		content, err := store.Content(ctx, "hw1", name)
		require.NoError(t, err)
		assert.Equal(t, want, string(content))
	}
}

func TestList_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewCorpusStore()

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
}

func TestAssignmentsIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewCorpusStore()

	_, err := store.Insert(ctx, "hw1", "a.txt", []byte("alpha"), "hash-a")
	require.NoError(t, err)

	exists, err := store.Exists(ctx, "hw2", "hash-a")
	require.NoError(t, err)
	assert.False(t, exists)

	entries, err := store.List(ctx, "hw2")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Same hash under another assignment is not a duplicate.
	_, err = store.Insert(ctx, "hw2", "a.txt", []byte("alpha"), "hash-a")
	assert.NoError(t, err)
}

func TestContent_NotFound(t *testing.T) {
	store := NewCorpusStore()
	_, err := store.Content(context.Background(), "hw1", "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFailInsert(t *testing.T) {
	ctx := context.Background()
	store := NewCorpusStore()
	store.FailInsert = true

	_, err := store.Insert(ctx, "hw1", "a.txt", []byte("alpha"), "hash-a")
	assert.Error(t, err)

	exists, err := store.Exists(ctx, "hw1", "hash-a")
	require.NoError(t, err)
	assert.False(t, exists)
}
