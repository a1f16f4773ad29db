// Package plaintext extracts text from plain-text documents.
package plaintext

import (
	"context"

	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
	"github.com/veriscan-labs/veriscan-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles plain text documents. It is also the registry
// fallback for unknown but textual content.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt", ".text", ".md"}
}

// Extract returns the raw bytes interpreted as UTF-8 text.
func (e *Extractor) Extract(_ context.Context, _ string, content []byte) (string, error) {
	if content == nil {
		return "", domain.ErrInvalidInput
	}
	return string(content), nil
}
