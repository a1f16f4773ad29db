package driven

import (
	"context"

	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
)

// CorpusStore is the durable, append-only collection of accepted
// documents, scoped per assignment. Entries are only ever added;
// no submission removes a previously accepted document.
type CorpusStore interface {
	// Exists reports whether the assignment corpus already contains an
	// entry with the given content hash.
	Exists(ctx context.Context, assignment, contentHash string) (bool, error)

	// List returns the corpus entries for an assignment in insertion
	// order. An unknown assignment yields an empty list, not an error.
	List(ctx context.Context, assignment string) ([]domain.CorpusEntry, error)

	// Content returns the stored raw bytes of a corpus entry.
	Content(ctx context.Context, assignment, filename string) ([]byte, error)

	// Insert adds an accepted document to the assignment corpus and
	// returns the name it was stored under. When the filename collides
	// with an existing entry a disambiguating suffix is appended;
	// insertion never overwrites. The hash ledger is updated only after
	// the document bytes are durably written.
	Insert(ctx context.Context, assignment, filename string, content []byte, contentHash string) (string, error)
}
