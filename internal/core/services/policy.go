package services

import (
	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
	"github.com/veriscan-labs/veriscan-cli/internal/logger"
)

// Mode selects which fusion rules the policy applies. The two modes are
// calibrated for different vector scales and are never combined.
type Mode string

const (
	// ModeEmbedding fuses shingle Jaccard, whole-document embedding
	// cosine, and the chunk-matrix patchwork signal.
	ModeEmbedding Mode = "embedding"

	// ModeTFIDF uses the coarser document-level TF-IDF cosine plus the
	// sentence-match count.
	ModeTFIDF Mode = "tfidf"
)

// Default thresholds for ModeEmbedding.
const (
	DefaultExactJaccard    = 0.20
	DefaultNearExactCosine = 0.95
	DefaultMinChunkHits    = 2
)

// Default thresholds for ModeTFIDF.
const (
	DefaultTFIDFDocCosine     = 0.30
	DefaultMinSentenceMatches = 3
)

// PolicyConfig tunes the decision policy.
type PolicyConfig struct {
	Mode Mode

	// ExactJaccard rejects when lexical overlap reaches it (ModeEmbedding).
	ExactJaccard float64

	// NearExactCosine rejects when the whole-document semantic score
	// reaches it (ModeEmbedding).
	NearExactCosine float64

	// MinChunkHits rejects when a single member accumulates this many
	// chunk hits (ModeEmbedding, evaluated after the exact rule).
	MinChunkHits int

	// DocCosine rejects when the best document-level score reaches it
	// (ModeTFIDF).
	DocCosine float64

	// MinSentenceMatches rejects when at least this many sentence pairs
	// matched (ModeTFIDF).
	MinSentenceMatches int
}

// DefaultPolicyConfig returns the calibrated thresholds for a mode.
func DefaultPolicyConfig(mode Mode) PolicyConfig {
	return PolicyConfig{
		Mode:               mode,
		ExactJaccard:       DefaultExactJaccard,
		NearExactCosine:    DefaultNearExactCosine,
		MinChunkHits:       DefaultMinChunkHits,
		DocCosine:          DefaultTFIDFDocCosine,
		MinSentenceMatches: DefaultMinSentenceMatches,
	}
}

// Policy fuses similarity reports into an accept/reject verdict.
type Policy struct {
	cfg PolicyConfig
}

// NewPolicy creates a decision policy. Zero thresholds fall back to the
// defaults for the configured mode.
func NewPolicy(cfg PolicyConfig) *Policy {
	defaults := DefaultPolicyConfig(cfg.Mode)
	if cfg.ExactJaccard == 0 {
		cfg.ExactJaccard = defaults.ExactJaccard
	}
	if cfg.NearExactCosine == 0 {
		cfg.NearExactCosine = defaults.NearExactCosine
	}
	if cfg.MinChunkHits == 0 {
		cfg.MinChunkHits = defaults.MinChunkHits
	}
	if cfg.DocCosine == 0 {
		cfg.DocCosine = defaults.DocCosine
	}
	if cfg.MinSentenceMatches == 0 {
		cfg.MinSentenceMatches = defaults.MinSentenceMatches
	}
	return &Policy{cfg: cfg}
}

// SentenceGate returns the document-level score above which sentence
// evidence is worth computing for this mode.
func (p *Policy) SentenceGate() float64 {
	if p.cfg.Mode == ModeTFIDF {
		return p.cfg.DocCosine
	}
	return p.cfg.NearExactCosine
}

// ChunkSignal reports whether this mode consumes the chunk matrix.
func (p *Policy) ChunkSignal() bool {
	return p.cfg.Mode != ModeTFIDF
}

// Decide fuses the reports into a verdict. Reports must be in corpus
// order; the first member to trip a rule is named in the verdict.
// An empty report list accepts with zero similarity.
func (p *Policy) Decide(reports []domain.SimilarityReport) *domain.Verdict {
	if p.cfg.Mode == ModeTFIDF {
		return p.decideTFIDF(reports)
	}
	return p.decideEmbedding(reports)
}

func (p *Policy) decideEmbedding(reports []domain.SimilarityReport) *domain.Verdict {
	// Exact/near-exact rule first: it is the cheaper check and
	// short-circuits the patchwork rule for the whole submission.
	for i := range reports {
		r := &reports[i]
		if r.LexicalScore >= p.cfg.ExactJaccard || r.SemanticScore >= p.cfg.NearExactCosine {
			logger.Debug("exact/near-exact copy of %s: jaccard=%.2f cosine=%.2f",
				r.Filename, r.LexicalScore, r.SemanticScore)
			return reject(r, domain.MsgPlagiarism, maxFloat(r.LexicalScore, r.SemanticScore))
		}
	}

	for i := range reports {
		r := &reports[i]
		if r.ChunkHits >= p.cfg.MinChunkHits {
			logger.Debug("mixed copying from %s: %d chunk hits, max chunk sim %.2f",
				r.Filename, r.ChunkHits, r.MaxChunkScore)
			return reject(r, domain.MsgMixedCopying, r.MaxChunkScore)
		}
	}

	highest := 0.0
	for i := range reports {
		r := &reports[i]
		highest = maxFloat(highest, maxFloat(r.LexicalScore, maxFloat(r.SemanticScore, r.MaxChunkScore)))
	}
	return accept(highest)
}

func (p *Policy) decideTFIDF(reports []domain.SimilarityReport) *domain.Verdict {
	best := -1
	for i := range reports {
		if best < 0 || reports[i].SemanticScore > reports[best].SemanticScore {
			best = i
		}
	}
	if best < 0 {
		return accept(0)
	}

	r := &reports[best]
	if r.SemanticScore >= p.cfg.DocCosine || len(r.SentenceMatches) >= p.cfg.MinSentenceMatches {
		logger.Debug("document-level match with %s: cosine=%.2f, %d sentence matches",
			r.Filename, r.SemanticScore, len(r.SentenceMatches))
		return reject(r, domain.MsgPlagiarism, r.SemanticScore)
	}
	return accept(r.SemanticScore)
}

func reject(r *domain.SimilarityReport, message string, score float64) *domain.Verdict {
	matched := r.Filename
	matches := r.SentenceMatches
	if matches == nil {
		// sentence_matches is always a JSON array, never null.
		matches = []domain.SentenceMatch{}
	}
	return &domain.Verdict{
		Accepted:             false,
		DocumentSimilarity:   domain.Percent(score),
		MatchedWith:          &matched,
		SentenceMatches:      matches,
		TotalSentenceMatches: len(matches),
		Message:              message,
	}
}

func accept(highest float64) *domain.Verdict {
	// MatchedWith stays unset on acceptance: reporting the nearest
	// member under the threshold would read as an accusation.
	return &domain.Verdict{
		Accepted:           true,
		DocumentSimilarity: domain.Percent(highest),
		SentenceMatches:    []domain.SentenceMatch{},
		Message:            domain.MsgAccepted,
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
