// Package tfidf provides a corpus-relative TF-IDF vectorizer.
// It needs no external service: the vector space is rebuilt from
// exactly the texts of each Vectorize call, which satisfies the
// mutual-comparability contract of the port.
package tfidf

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/veriscan-labs/veriscan-cli/internal/core/ports/driven"
)

// Ensure Vectorizer implements the interface.
var _ driven.Vectorizer = (*Vectorizer)(nil)

// Vectorizer computes L2-normalised TF-IDF vectors with smoothed IDF
// over the vocabulary of each call.
type Vectorizer struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// New creates a TF-IDF vectorizer with the default English stopword
// list.
func New() *Vectorizer {
	return &Vectorizer{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`),
		stopwords:    defaultStopwords(),
	}
}

// Name returns the identifier of this vectorizer implementation.
func (v *Vectorizer) Name() string { return "tfidf" }

// Vectorize builds a vocabulary and IDF weights from the given texts
// and returns one TF-IDF vector per text, in input order. Texts with
// no in-vocabulary tokens yield zero vectors.
func (v *Vectorizer) Vectorize(_ context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	tokenized := make([][]string, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		tokenized[i] = v.tokenize(text)
		seen := make(map[string]struct{})
		for _, tok := range tokenized[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	// Stable vocabulary ordering.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(texts))
	for i, term := range terms {
		vocabulary[term] = i
		// Smoothed IDF keeps terms present in every text from zeroing out.
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	vectors := make([][]float64, len(texts))
	for i, tokens := range tokenized {
		vectors[i] = v.embed(tokens, vocabulary, idf)
	}
	return vectors, nil
}

func (v *Vectorizer) embed(tokens []string, vocabulary map[string]int, idf []float64) []float64 {
	vec := make([]float64, len(idf))
	if len(tokens) == 0 {
		return vec
	}

	tf := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		if idx, ok := vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * idf[idx]
	}

	// L2 normalise.
	norm := 0.0
	for _, x := range vec {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func (v *Vectorizer) tokenize(text string) []string {
	raw := v.tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(raw) == 0 {
		return nil
	}
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if _, isStop := v.stopwords[t]; isStop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again",
		"further", "than", "so", "such", "into", "about", "between",
		"through", "during", "before", "after", "above", "below", "out",
		"off", "own", "same", "too", "very", "can", "will", "just",
		"should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
