package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(0))
	assert.Equal(t, 100.0, Percent(1))
	assert.Equal(t, 95.13, Percent(0.95128))
	assert.Equal(t, 33.33, Percent(0.333333))
}

func TestVerdict_JSONFieldNames(t *testing.T) {
	matched := "essay.pdf"
	v := Verdict{
		Accepted:           false,
		DocumentSimilarity: 97.5,
		MatchedWith:        &matched,
		SentenceMatches: []SentenceMatch{
			{SourceSentence: "A sentence.", MatchedSentence: "A sentence.", Similarity: 100},
		},
		TotalSentenceMatches: 1,
		Message:              MsgPlagiarism,
	}

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	for _, key := range []string{
		"accepted", "document_similarity", "matched_with",
		"sentence_matches", "total_sentence_matches", "message",
	} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "essay.pdf", fields["matched_with"])
}

func TestVerdict_NullMatchedWith(t *testing.T) {
	v := Verdict{Accepted: true, Message: MsgAccepted}

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"matched_with":null`)
}

func TestSentenceMatch_JSONFieldNames(t *testing.T) {
	m := SentenceMatch{SourceSentence: "a", MatchedSentence: "b", Similarity: 81.25}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "source_sentence")
	assert.Contains(t, fields, "matched_sentence")
	assert.Contains(t, fields, "similarity")
}
