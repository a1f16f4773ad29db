package domain

import "math"

// Verdict classification messages returned to callers.
const (
	MsgFirstSubmission = "First submission for this assignment"
	MsgDuplicate       = "Duplicate submission detected"
	MsgPlagiarism      = "Plagiarism detected"
	MsgMixedCopying    = "Plagiarism detected (mixed copying)"
	MsgAccepted        = "Submission accepted"
	MsgNoContent       = "Submission accepted (no comparable content)"
	MsgUnsupported     = "Unsupported file type"
	MsgStorageFailure  = "Storage failure"
)

// SentenceMatch is one piece of human-readable evidence: a sentence of
// the new document paired with its closest sentence in the matched
// corpus member.
type SentenceMatch struct {
	// SourceSentence is the sentence from the new document.
	SourceSentence string `json:"source_sentence"`

	// MatchedSentence is the closest sentence from the corpus member.
	MatchedSentence string `json:"matched_sentence"`

	// Similarity is a 0-100 percentage, rounded to two decimals.
	Similarity float64 `json:"similarity"`
}

// SimilarityReport holds every signal computed for one
// (new document, corpus member) pair. Reports are transient: they are
// produced fresh per submission and never persisted.
type SimilarityReport struct {
	// Filename identifies the corpus member.
	Filename string

	// LexicalScore is the Jaccard similarity of the shingle sets, in [0,1].
	LexicalScore float64

	// SemanticScore is the whole-document cosine similarity, in [0,1].
	SemanticScore float64

	// ChunkHits counts chunk pairs whose cosine similarity exceeded the
	// chunk threshold. This surfaces patchwork copying.
	ChunkHits int

	// MaxChunkScore is the maximum of the chunk similarity matrix.
	MaxChunkScore float64

	// SentenceMatches is the ordered explainability evidence. Only
	// populated for the best-matching member when its document-level
	// score crossed the document threshold.
	SentenceMatches []SentenceMatch
}

// Verdict is the outcome of a submission. It is always well-formed:
// every recoverable failure is folded into a rejecting verdict rather
// than surfaced as an error.
type Verdict struct {
	// Accepted reports whether the document entered the corpus.
	Accepted bool `json:"accepted"`

	// DocumentSimilarity is the representative similarity as a 0-100
	// percentage rounded to two decimals. On acceptance it is the
	// highest similarity observed even though no threshold was crossed.
	DocumentSimilarity float64 `json:"document_similarity"`

	// MatchedWith names the corpus member that triggered rejection.
	// It stays null on acceptance so a borderline score does not read
	// as an accusation.
	MatchedWith *string `json:"matched_with"`

	// SentenceMatches is the evidence list for the matched member.
	SentenceMatches []SentenceMatch `json:"sentence_matches"`

	// TotalSentenceMatches is len(SentenceMatches).
	TotalSentenceMatches int `json:"total_sentence_matches"`

	// Message is a short classification tag, one of the Msg constants.
	Message string `json:"message"`
}

// Percent converts a [0,1] score to a 0-100 percentage rounded to two
// decimal places, the display form used in verdicts.
func Percent(score float64) float64 {
	return math.Round(score*100*100) / 100
}
