package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file format no extractor can handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrDuplicateContent indicates a submission whose content hash is
	// already present in the assignment corpus.
	ErrDuplicateContent = errors.New("duplicate content")

	// ErrVectorizerUnavailable indicates the semantic similarity provider
	// is not configured or not reachable. Lexical comparison still works.
	ErrVectorizerUnavailable = errors.New("vectorizer unavailable")
)
