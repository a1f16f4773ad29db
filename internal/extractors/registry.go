package extractors

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
	"github.com/veriscan-labs/veriscan-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// sniffLen is how many leading bytes are inspected for binary content.
const sniffLen = 8192

// Registry maps file extensions to extractors.
type Registry struct {
	byExtension map[string]driven.TextExtractor
	fallback    driven.TextExtractor
}

// NewRegistry creates a registry over the given extractors. The
// fallback, when non-nil, is used for unknown extensions whose content
// looks textual.
func NewRegistry(fallback driven.TextExtractor, extractors ...driven.TextExtractor) *Registry {
	r := &Registry{
		byExtension: make(map[string]driven.TextExtractor),
		fallback:    fallback,
	}
	if fallback != nil {
		r.register(fallback)
	}
	for _, e := range extractors {
		r.register(e)
	}
	return r
}

func (r *Registry) register(e driven.TextExtractor) {
	for _, ext := range e.Extensions() {
		r.byExtension[strings.ToLower(ext)] = e
	}
}

// ForFile returns the extractor for the file, or ErrUnsupportedType.
// Unknown extensions fall back to plain text only when the content has
// no NUL bytes in its leading window.
func (r *Registry) ForFile(filename string, content []byte) (driven.TextExtractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if e, ok := r.byExtension[ext]; ok {
		return e, nil
	}
	if r.fallback != nil && looksTextual(content) {
		return r.fallback, nil
	}
	return nil, domain.ErrUnsupportedType
}

func looksTextual(content []byte) bool {
	if len(content) > sniffLen {
		content = content[:sniffLen]
	}
	return !bytes.ContainsRune(content, 0)
}
