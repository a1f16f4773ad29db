package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
)

func TestNewPolicy_DefaultsPerMode(t *testing.T) {
	embedding := NewPolicy(PolicyConfig{Mode: ModeEmbedding})
	assert.Equal(t, DefaultNearExactCosine, embedding.SentenceGate())
	assert.True(t, embedding.ChunkSignal())

	tfidf := NewPolicy(PolicyConfig{Mode: ModeTFIDF})
	assert.Equal(t, DefaultTFIDFDocCosine, tfidf.SentenceGate())
	assert.False(t, tfidf.ChunkSignal())
}

func TestDecide_EmptyReportsAccept(t *testing.T) {
	for _, mode := range []Mode{ModeEmbedding, ModeTFIDF} {
		verdict := NewPolicy(PolicyConfig{Mode: mode}).Decide(nil)
		assert.True(t, verdict.Accepted)
		assert.Zero(t, verdict.DocumentSimilarity)
		assert.Nil(t, verdict.MatchedWith)
	}
}

func TestDecideEmbedding_ExactLexicalCopy(t *testing.T) {
	policy := NewPolicy(PolicyConfig{Mode: ModeEmbedding})
	verdict := policy.Decide([]domain.SimilarityReport{
		{Filename: "a.txt", LexicalScore: 0.25, SemanticScore: 0.10},
	})

	assert.False(t, verdict.Accepted)
	assert.Equal(t, domain.MsgPlagiarism, verdict.Message)
	require.NotNil(t, verdict.MatchedWith)
	assert.Equal(t, "a.txt", *verdict.MatchedWith)
	assert.InDelta(t, 25.0, verdict.DocumentSimilarity, 1e-6)
}

func TestDecideEmbedding_NearExactSemanticCopy(t *testing.T) {
	policy := NewPolicy(PolicyConfig{Mode: ModeEmbedding})
	verdict := policy.Decide([]domain.SimilarityReport{
		{Filename: "a.txt", LexicalScore: 0.05, SemanticScore: 0.96},
	})

	assert.False(t, verdict.Accepted)
	assert.Equal(t, domain.MsgPlagiarism, verdict.Message)
	assert.InDelta(t, 96.0, verdict.DocumentSimilarity, 1e-6)
}

func TestDecideEmbedding_Patchwork(t *testing.T) {
	policy := NewPolicy(PolicyConfig{Mode: ModeEmbedding})
	matches := []domain.SentenceMatch{
		{SourceSentence: "s1", MatchedSentence: "m1", Similarity: 91.5},
	}
	verdict := policy.Decide([]domain.SimilarityReport{
		{Filename: "a.txt", LexicalScore: 0.05, SemanticScore: 0.50,
			ChunkHits: 2, MaxChunkScore: 0.90, SentenceMatches: matches},
	})

	assert.False(t, verdict.Accepted)
	assert.Equal(t, domain.MsgMixedCopying, verdict.Message)
	require.NotNil(t, verdict.MatchedWith)
	assert.Equal(t, "a.txt", *verdict.MatchedWith)
	assert.InDelta(t, 90.0, verdict.DocumentSimilarity, 1e-6)
	assert.Equal(t, matches, verdict.SentenceMatches)
	assert.Equal(t, 1, verdict.TotalSentenceMatches)
}

func TestDecideEmbedding_ExactRuleBeatsPatchwork(t *testing.T) {
	// The exact rule is checked for every member before the patchwork
	// rule is considered, even if a patchwork member comes first.
	policy := NewPolicy(PolicyConfig{Mode: ModeEmbedding})
	verdict := policy.Decide([]domain.SimilarityReport{
		{Filename: "patchwork.txt", LexicalScore: 0.05, ChunkHits: 3, MaxChunkScore: 0.90},
		{Filename: "verbatim.txt", LexicalScore: 0.50},
	})

	assert.False(t, verdict.Accepted)
	assert.Equal(t, domain.MsgPlagiarism, verdict.Message)
	require.NotNil(t, verdict.MatchedWith)
	assert.Equal(t, "verbatim.txt", *verdict.MatchedWith)
}

func TestDecideEmbedding_Accept(t *testing.T) {
	policy := NewPolicy(PolicyConfig{Mode: ModeEmbedding})
	verdict := policy.Decide([]domain.SimilarityReport{
		{Filename: "a.txt", LexicalScore: 0.10, SemanticScore: 0.40, ChunkHits: 1},
		{Filename: "b.txt", LexicalScore: 0.02, SemanticScore: 0.62},
	})

	assert.True(t, verdict.Accepted)
	assert.Equal(t, domain.MsgAccepted, verdict.Message)
	assert.Nil(t, verdict.MatchedWith)
	assert.Empty(t, verdict.SentenceMatches)
	assert.InDelta(t, 62.0, verdict.DocumentSimilarity, 1e-6)
}

func TestDecideEmbedding_AcceptIncludesChunkScore(t *testing.T) {
	// Below-threshold chunk similarity is still an observed score and
	// can be the highest one.
	policy := NewPolicy(PolicyConfig{Mode: ModeEmbedding})
	verdict := policy.Decide([]domain.SimilarityReport{
		{Filename: "a.txt", LexicalScore: 0.10, SemanticScore: 0.40, ChunkHits: 1, MaxChunkScore: 0.70},
	})

	assert.True(t, verdict.Accepted)
	assert.InDelta(t, 70.0, verdict.DocumentSimilarity, 1e-6)
}

func TestDecide_SentenceMatchesNeverNull(t *testing.T) {
	policy := NewPolicy(PolicyConfig{Mode: ModeEmbedding})
	verdicts := []*domain.Verdict{
		policy.Decide(nil),
		policy.Decide([]domain.SimilarityReport{{Filename: "a.txt", SemanticScore: 0.10}}),
		policy.Decide([]domain.SimilarityReport{{Filename: "a.txt", LexicalScore: 0.50}}),
	}

	for _, verdict := range verdicts {
		data, err := json.Marshal(verdict)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"sentence_matches":[]`)
	}
}

func TestDecideTFIDF_DocumentCosine(t *testing.T) {
	policy := NewPolicy(PolicyConfig{Mode: ModeTFIDF})
	verdict := policy.Decide([]domain.SimilarityReport{
		{Filename: "low.txt", SemanticScore: 0.10},
		{Filename: "high.txt", SemanticScore: 0.35},
	})

	assert.False(t, verdict.Accepted)
	assert.Equal(t, domain.MsgPlagiarism, verdict.Message)
	require.NotNil(t, verdict.MatchedWith)
	assert.Equal(t, "high.txt", *verdict.MatchedWith)
	assert.InDelta(t, 35.0, verdict.DocumentSimilarity, 1e-6)
}

func TestDecideTFIDF_SentenceCount(t *testing.T) {
	policy := NewPolicy(PolicyConfig{Mode: ModeTFIDF})
	matches := []domain.SentenceMatch{
		{SourceSentence: "s1", MatchedSentence: "m1", Similarity: 85},
		{SourceSentence: "s2", MatchedSentence: "m2", Similarity: 82},
		{SourceSentence: "s3", MatchedSentence: "m3", Similarity: 81},
	}
	verdict := policy.Decide([]domain.SimilarityReport{
		{Filename: "a.txt", SemanticScore: 0.15, SentenceMatches: matches},
	})

	assert.False(t, verdict.Accepted)
	assert.Equal(t, 3, verdict.TotalSentenceMatches)
	assert.Equal(t, matches, verdict.SentenceMatches)
}

func TestDecideTFIDF_Accept(t *testing.T) {
	policy := NewPolicy(PolicyConfig{Mode: ModeTFIDF})
	verdict := policy.Decide([]domain.SimilarityReport{
		{Filename: "a.txt", SemanticScore: 0.20},
	})

	assert.True(t, verdict.Accepted)
	assert.Nil(t, verdict.MatchedWith)
	assert.InDelta(t, 20.0, verdict.DocumentSimilarity, 1e-6)
}

func TestDecideTFIDF_IgnoresChunkHits(t *testing.T) {
	policy := NewPolicy(PolicyConfig{Mode: ModeTFIDF})
	verdict := policy.Decide([]domain.SimilarityReport{
		{Filename: "a.txt", SemanticScore: 0.10, ChunkHits: 5, MaxChunkScore: 0.99},
	})
	assert.True(t, verdict.Accepted)
}

func TestDecide_CustomThresholds(t *testing.T) {
	policy := NewPolicy(PolicyConfig{Mode: ModeEmbedding, ExactJaccard: 0.50})
	verdict := policy.Decide([]domain.SimilarityReport{
		{Filename: "a.txt", LexicalScore: 0.30},
	})
	assert.True(t, verdict.Accepted)
}
