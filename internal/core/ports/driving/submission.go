package driving

import (
	"context"

	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
)

// SubmissionService is the single synchronous boundary between the
// engine and its callers. Submit always returns a well-formed Verdict
// for every recoverable condition; a non-nil error is reserved for
// storage-unavailable faults where no meaningful verdict exists.
type SubmissionService interface {
	// Submit checks the document at path against the assignment corpus
	// and, on acceptance, admits it under its original filename.
	Submit(ctx context.Context, path, assignment, filename string) (*domain.Verdict, error)
}
