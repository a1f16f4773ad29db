// Package extractors provides text extraction from submitted document
// formats. Each subpackage handles specific file extensions; the
// registry selects the right extractor for a filename and refuses
// binary content no extractor understands.
package extractors
