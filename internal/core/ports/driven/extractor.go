package driven

import "context"

// TextExtractor converts a document's raw bytes into plain text.
// Each extractor handles specific file extensions (e.g., .pdf, .docx).
type TextExtractor interface {
	// Extensions returns the lowercased file extensions this extractor
	// handles, including the leading dot.
	Extensions() []string

	// Extract produces plain text from the raw bytes of a document.
	// The filename is provided for diagnostics only.
	Extract(ctx context.Context, filename string, content []byte) (string, error)
}

// ExtractorRegistry selects a TextExtractor for a given filename.
type ExtractorRegistry interface {
	// ForFile returns the extractor responsible for the file, or
	// domain.ErrUnsupportedType when no extractor can handle it.
	ForFile(filename string, content []byte) (TextExtractor, error)
}
