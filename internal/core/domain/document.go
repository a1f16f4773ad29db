package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Document is the fully segmented representation of a submission.
// It is built once per submission (or per corpus member load) and is
// immutable after segmentation.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Assignment is the corpus scope this document belongs to.
	Assignment string

	// Filename is the original submission filename.
	Filename string

	// ContentHash is the SHA-256 hex digest of the raw bytes.
	ContentHash string

	// RawText is the extracted plain text before normalisation.
	// Sentence splitting operates on this form.
	RawText string

	// NormalizedText is the lower-cased, punctuation-stripped,
	// whitespace-collapsed text. All scoring operates on this form.
	NormalizedText string

	// Chunks are consecutive fixed-size word windows of NormalizedText.
	Chunks []string

	// Shingles is the set of contiguous k-word sequences of NormalizedText.
	Shingles map[string]struct{}

	// Sentences are the natural-language sentences of RawText,
	// used only for explainability.
	Sentences []string

	// CreatedAt is when the document entered the system.
	CreatedAt time.Time
}

// HasContent reports whether the document has anything comparable.
func (d *Document) HasContent() bool {
	return d.NormalizedText != ""
}

// CorpusEntry is a previously accepted document as recorded by the
// corpus store. Content is re-extracted (or served from cache) when a
// new submission is compared against it.
type CorpusEntry struct {
	// Filename is the stored name, unique within the assignment.
	Filename string

	// ContentHash is the SHA-256 hex digest of the stored bytes.
	ContentHash string

	// CreatedAt is when the entry was accepted into the corpus.
	CreatedAt time.Time
}

// HashBytes returns the SHA-256 hex digest used as document identity.
func HashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
