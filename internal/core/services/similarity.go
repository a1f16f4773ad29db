package services

import (
	"context"
	"math"

	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
	"github.com/veriscan-labs/veriscan-cli/internal/core/ports/driven"
	"github.com/veriscan-labs/veriscan-cli/internal/logger"
)

// Signal thresholds shared by both operating modes.
const (
	// DefaultChunkThreshold is the chunk-pair cosine above which a pair
	// counts as a patchwork hit.
	DefaultChunkThreshold = 0.85

	// DefaultSentenceThreshold is the minimum sentence-pair similarity
	// retained as explainability evidence.
	DefaultSentenceThreshold = 0.80
)

// EngineConfig tunes the similarity engine.
type EngineConfig struct {
	// ChunkThreshold is the cosine above which a chunk pair is a hit.
	ChunkThreshold float64

	// SentenceGate is the document-level semantic score a member must
	// reach before sentence-level evidence is computed for it.
	SentenceGate float64

	// SentenceThreshold is the minimum similarity for retained
	// sentence pairs.
	SentenceThreshold float64

	// ChunkSignal enables the localized chunk-matrix signal. It is
	// disabled in TF-IDF mode, whose policy does not consume it.
	ChunkSignal bool
}

// Engine computes similarity signals between a new document and every
// member of the assignment corpus. All comparisons are symmetric and
// side-effect free; the engine never exits early, since multiple
// members may independently cross thresholds.
type Engine struct {
	vectorizer driven.Vectorizer
	cfg        EngineConfig
}

// NewEngine creates a similarity engine backed by the given vectorizer.
// A nil vectorizer degrades the engine to lexical signals only.
func NewEngine(vectorizer driven.Vectorizer, cfg EngineConfig) *Engine {
	if cfg.ChunkThreshold == 0 {
		cfg.ChunkThreshold = DefaultChunkThreshold
	}
	if cfg.SentenceThreshold == 0 {
		cfg.SentenceThreshold = DefaultSentenceThreshold
	}
	return &Engine{vectorizer: vectorizer, cfg: cfg}
}

// Compare produces one report per corpus member, in corpus order.
// A zero-size corpus yields no reports.
func (e *Engine) Compare(ctx context.Context, doc *domain.Document, corpus []*domain.Document) []domain.SimilarityReport {
	if len(corpus) == 0 {
		return nil
	}

	reports := make([]domain.SimilarityReport, len(corpus))
	for i, member := range corpus {
		reports[i] = domain.SimilarityReport{
			Filename:     member.Filename,
			LexicalScore: Jaccard(doc.Shingles, member.Shingles),
		}
	}

	docVectors := e.vectorize(ctx, documentTexts(doc, corpus))
	if docVectors != nil {
		for i := range corpus {
			reports[i].SemanticScore = Cosine(docVectors[0], docVectors[i+1])
		}
	}

	if e.cfg.ChunkSignal && len(doc.Chunks) > 0 {
		for i, member := range corpus {
			hits, maxScore := e.chunkSignal(ctx, doc.Chunks, member.Chunks)
			reports[i].ChunkHits = hits
			reports[i].MaxChunkScore = maxScore
		}
	}

	// Sentence evidence is bounded to the single best-matching member,
	// and only once its document score clears the gate.
	best := -1
	for i := range reports {
		if best < 0 || reports[i].SemanticScore > reports[best].SemanticScore {
			best = i
		}
	}
	if best >= 0 && reports[best].SemanticScore >= e.cfg.SentenceGate {
		reports[best].SentenceMatches = e.sentenceMatches(ctx, doc.Sentences, corpus[best].Sentences)
	}

	return reports
}

// chunkSignal computes the pairwise chunk cosine matrix for one member
// and reduces it to a hit count and maximum.
func (e *Engine) chunkSignal(ctx context.Context, newChunks, memberChunks []string) (int, float64) {
	if len(memberChunks) == 0 {
		return 0, 0
	}
	vectors := e.vectorize(ctx, append(append([]string{}, newChunks...), memberChunks...))
	if vectors == nil {
		return 0, 0
	}

	hits := 0
	maxScore := 0.0
	for i := range newChunks {
		for j := range memberChunks {
			score := Cosine(vectors[i], vectors[len(newChunks)+j])
			if score > e.cfg.ChunkThreshold {
				hits++
			}
			if score > maxScore {
				maxScore = score
			}
		}
	}
	return hits, maxScore
}

// sentenceMatches pairs every sentence of the new document with its
// closest sentence in the matched member, keeping pairs at or above the
// sentence threshold in new-document order.
func (e *Engine) sentenceMatches(ctx context.Context, newSentences, memberSentences []string) []domain.SentenceMatch {
	if len(newSentences) == 0 || len(memberSentences) == 0 {
		return nil
	}
	vectors := e.vectorize(ctx, append(append([]string{}, newSentences...), memberSentences...))
	if vectors == nil {
		return nil
	}

	var matches []domain.SentenceMatch
	for i := range newSentences {
		bestScore := 0.0
		bestIdx := -1
		for j := range memberSentences {
			score := Cosine(vectors[i], vectors[len(newSentences)+j])
			if score > bestScore {
				bestScore = score
				bestIdx = j
			}
		}
		if bestIdx >= 0 && bestScore >= e.cfg.SentenceThreshold {
			matches = append(matches, domain.SentenceMatch{
				SourceSentence:  newSentences[i],
				MatchedSentence: memberSentences[bestIdx],
				Similarity:      domain.Percent(bestScore),
			})
		}
	}
	return matches
}

// vectorize wraps the provider call. Provider failures degrade the
// semantic signals to zero instead of aborting the submission; the
// lexical signal still catches exact copies.
func (e *Engine) vectorize(ctx context.Context, texts []string) [][]float64 {
	if e.vectorizer == nil {
		return nil
	}
	vectors, err := e.vectorizer.Vectorize(ctx, texts)
	if err != nil {
		logger.Warn("vectorizer %s failed, semantic signals degraded: %v", e.vectorizer.Name(), err)
		return nil
	}
	if len(vectors) != len(texts) {
		logger.Warn("vectorizer %s returned %d vectors for %d texts", e.vectorizer.Name(), len(vectors), len(texts))
		return nil
	}
	return vectors
}

func documentTexts(doc *domain.Document, corpus []*domain.Document) []string {
	texts := make([]string, 0, len(corpus)+1)
	texts = append(texts, doc.NormalizedText)
	for _, member := range corpus {
		texts = append(texts, member.NormalizedText)
	}
	return texts
}

// Jaccard returns |a ∩ b| / |a ∪ b|, defined as 0 when either set is
// empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for shingle := range a {
		if _, ok := b[shingle]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// Cosine returns the cosine similarity of two vectors, defined as 0
// when either has zero magnitude or the lengths differ.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
