package services

import (
	"regexp"
	"strings"
	"unicode"
)

// Segmentation defaults.
const (
	// DefaultChunkSize is the number of words per chunk.
	DefaultChunkSize = 150

	// DefaultShingleSize is the number of words per shingle.
	DefaultShingleSize = 3
)

// sentencePattern matches a run of text up to and including terminal
// punctuation. Used for explainability only, never for scoring.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// Normalize lower-cases the text, collapses every run of
// non-alphanumeric characters into a single space, and trims the
// result. It is idempotent: Normalize(Normalize(x)) == Normalize(x).
// An empty result is valid and means the document has no usable
// content.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	space := true // swallow leading whitespace
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// WordChunks splits normalized text into consecutive windows of size
// words. The final chunk may be shorter; input shorter than one chunk
// yields exactly one chunk; empty input yields none.
func WordChunks(normalized string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	words := strings.Fields(normalized)
	if len(words) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(words)+size-1)/size)
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// Shingles returns the set of all contiguous k-word sequences of the
// normalized text. Texts shorter than k words yield an empty set,
// which by definition overlaps nothing.
func Shingles(normalized string, k int) map[string]struct{} {
	if k <= 0 {
		k = DefaultShingleSize
	}
	words := strings.Fields(normalized)
	if len(words) < k {
		return map[string]struct{}{}
	}
	set := make(map[string]struct{}, len(words)-k+1)
	for i := 0; i+k <= len(words); i++ {
		set[strings.Join(words[i:i+k], " ")] = struct{}{}
	}
	return set
}

// SplitSentences returns the ordered sentences of the original
// (non-normalized) text. Text without terminal punctuation is returned
// as a single sentence.
func SplitSentences(text string) []string {
	raw := sentencePattern.FindAllString(text, -1)
	if len(raw) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
