// Package memory provides in-memory storage adapters, used primarily
// for testing services without touching the filesystem.
package memory

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
	"github.com/veriscan-labs/veriscan-cli/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore.
type CorpusStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.CorpusEntry // assignment -> ordered entries
	content map[string]map[string][]byte    // assignment -> filename -> bytes
	hashes  map[string]map[string]struct{}  // assignment -> content hash set

	// FailInsert forces Insert to fail, for storage-failure tests.
	FailInsert bool
}

// NewCorpusStore creates a new in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{
		entries: make(map[string][]domain.CorpusEntry),
		content: make(map[string]map[string][]byte),
		hashes:  make(map[string]map[string]struct{}),
	}
}

// Exists reports whether the assignment corpus contains the hash.
func (s *CorpusStore) Exists(_ context.Context, assignment, contentHash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.hashes[assignment][contentHash]
	return ok, nil
}

// List returns the corpus entries in insertion order.
func (s *CorpusStore) List(_ context.Context, assignment string) ([]domain.CorpusEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]domain.CorpusEntry, len(s.entries[assignment]))
	copy(entries, s.entries[assignment])
	return entries, nil
}

// Content returns the stored bytes of an entry.
func (s *CorpusStore) Content(_ context.Context, assignment, filename string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.content[assignment][filename]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Insert adds an entry, disambiguating colliding filenames.
func (s *CorpusStore) Insert(_ context.Context, assignment, filename string, content []byte, contentHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailInsert {
		return "", fmt.Errorf("insert disabled")
	}
	if _, ok := s.hashes[assignment][contentHash]; ok {
		return "", domain.ErrDuplicateContent
	}

	if s.content[assignment] == nil {
		s.content[assignment] = make(map[string][]byte)
		s.hashes[assignment] = make(map[string]struct{})
	}

	stored := filename
	for i := 1; ; i++ {
		if _, taken := s.content[assignment][stored]; !taken {
			break
		}
		ext := filepath.Ext(filename)
		stored = fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(filename, ext), i, ext)
	}

	data := make([]byte, len(content))
	copy(data, content)
	s.content[assignment][stored] = data
	s.hashes[assignment][contentHash] = struct{}{}
	s.entries[assignment] = append(s.entries[assignment], domain.CorpusEntry{
		Filename:    stored,
		ContentHash: contentHash,
		CreatedAt:   time.Now(),
	})
	return stored, nil
}
