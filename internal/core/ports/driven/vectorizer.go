package driven

import "context"

// Vectorizer turns texts into fixed-length numeric vectors whose cosine
// similarity approximates semantic similarity.
//
// All vectors returned by a single Vectorize call are mutually
// comparable. This contract is what makes the two observed provider
// designs interchangeable: embedding models produce vectors in a fixed
// model space, while TF-IDF builds a vector space relative to exactly
// the texts of the call. Callers must therefore vectorize every text
// that participates in one comparison in one call, and must never
// compare vectors across calls.
//
// Implementations may include:
//   - TF-IDF over the call's texts (no external service required)
//   - OpenAI embeddings (text-embedding-3-small, ...)
//   - Ollama embeddings (nomic-embed-text, all-minilm, ...)
type Vectorizer interface {
	// Name returns the identifier of this vectorizer implementation.
	Name() string

	// Vectorize returns one vector per input text, in input order.
	// All returned vectors have identical length.
	Vectorize(ctx context.Context, texts []string) ([][]float64, error)
}
