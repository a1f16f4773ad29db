package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
	"github.com/veriscan-labs/veriscan-cli/internal/core/ports/driven"
	"github.com/veriscan-labs/veriscan-cli/internal/core/ports/driving"
	"github.com/veriscan-labs/veriscan-cli/internal/logger"
)

// Ensure SubmissionService implements the interface.
var _ driving.SubmissionService = (*SubmissionService)(nil)

// SubmissionConfig tunes segmentation of submitted documents.
type SubmissionConfig struct {
	// ChunkSize is the words-per-chunk window (default 150).
	ChunkSize int

	// ShingleSize is the words-per-shingle k (default 3).
	ShingleSize int
}

// SubmissionService runs the full pipeline for one submission:
// extract, normalize, segment, compare against the assignment corpus,
// decide, and admit on acceptance.
//
// Submissions to distinct assignments run concurrently. For one
// assignment the sequence duplicate-check / load / compare / decide /
// insert is a critical section guarded by a per-assignment lock, so
// two near-identical concurrent submissions can never both observe a
// corpus without the other and both be accepted.
type SubmissionService struct {
	store      driven.CorpusStore
	extractors driven.ExtractorRegistry
	engine     *Engine
	policy     *Policy

	chunkSize   int
	shingleSize int

	// locks holds one mutex per assignment scope.
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// cache holds segmented corpus member representations keyed by
	// content hash, to avoid re-extracting unchanged members on every
	// submission. Bounded by corpus size; entries are never invalidated
	// because stored content is immutable.
	cacheMu sync.RWMutex
	cache   map[string]*domain.Document
}

// NewSubmissionService creates a submission service.
func NewSubmissionService(
	store driven.CorpusStore,
	extractors driven.ExtractorRegistry,
	engine *Engine,
	policy *Policy,
	cfg SubmissionConfig,
) *SubmissionService {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ShingleSize <= 0 {
		cfg.ShingleSize = DefaultShingleSize
	}
	return &SubmissionService{
		store:       store,
		extractors:  extractors,
		engine:      engine,
		policy:      policy,
		chunkSize:   cfg.ChunkSize,
		shingleSize: cfg.ShingleSize,
		locks:       make(map[string]*sync.Mutex),
		cache:       make(map[string]*domain.Document),
	}
}

// Submit checks the document at path against the assignment corpus.
// Every recoverable condition returns a well-formed verdict; a non-nil
// error means the submission file or the corpus store is unavailable.
func (s *SubmissionService) Submit(ctx context.Context, path, assignment, filename string) (*domain.Verdict, error) {
	logger.Section("Submission")
	logger.Debug("file=%s assignment=%s", filename, assignment)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading submission: %w", err)
	}

	// Extraction and segmentation are the CPU-heavy part of the
	// pipeline; they run before the per-assignment lock is taken.
	doc, err := s.buildDocument(ctx, assignment, filename, content)
	if err != nil {
		logger.Warn("cannot extract %s: %v", filename, err)
		return rejectWith(domain.MsgUnsupported), nil
	}
	logger.Debug("words=%d chunks=%d shingles=%d sentences=%d",
		len(doc.Chunks)*s.chunkSize, len(doc.Chunks), len(doc.Shingles), len(doc.Sentences))

	lock := s.assignmentLock(assignment)
	lock.Lock()
	defer lock.Unlock()

	duplicate, err := s.store.Exists(ctx, assignment, doc.ContentHash)
	if err != nil {
		return nil, fmt.Errorf("checking corpus for duplicate: %w", err)
	}
	if duplicate {
		logger.Debug("content hash already present, skipping similarity engine")
		return rejectWith(domain.MsgDuplicate), nil
	}

	entries, err := s.store.List(ctx, assignment)
	if err != nil {
		return nil, fmt.Errorf("listing corpus: %w", err)
	}
	corpus := s.loadCorpus(ctx, assignment, entries)
	logger.Debug("corpus: %d entries, %d comparable", len(entries), len(corpus))

	verdict := s.decide(ctx, doc, entries, corpus)
	if verdict.Accepted {
		verdict = s.admit(ctx, doc, content, verdict)
	}
	return verdict, nil
}

// decide runs the engine and policy, handling the empty-content and
// first-submission short circuits.
func (s *SubmissionService) decide(ctx context.Context, doc *domain.Document, entries []domain.CorpusEntry, corpus []*domain.Document) *domain.Verdict {
	if !doc.HasContent() {
		// Nothing comparable in the submission itself.
		if len(corpus) == 0 {
			return firstSubmission(len(entries) == 0)
		}
		logger.Debug("no usable content after normalization, treating as non-match")
		return acceptWith(domain.MsgNoContent)
	}

	if len(entries) == 0 {
		return firstSubmission(true)
	}

	reports := s.engine.Compare(ctx, doc, corpus)
	if logger.IsVerbose() {
		for _, r := range reports {
			logger.Debug("%s: jaccard=%.2f cosine=%.2f chunk_hits=%d max_chunk=%.2f",
				r.Filename, r.LexicalScore, r.SemanticScore, r.ChunkHits, r.MaxChunkScore)
		}
	}
	return s.policy.Decide(reports)
}

// admit persists an accepted document. Storage failures leave no
// partial state and convert the verdict into a rejection.
func (s *SubmissionService) admit(ctx context.Context, doc *domain.Document, content []byte, verdict *domain.Verdict) *domain.Verdict {
	storedName, err := s.store.Insert(ctx, doc.Assignment, doc.Filename, content, doc.ContentHash)
	if err != nil {
		logger.Warn("insert failed for %s: %v", doc.Filename, err)
		return rejectWith(domain.MsgStorageFailure)
	}
	logger.Debug("admitted to corpus as %s", storedName)

	// Cache under the stored name, which may carry a collision suffix.
	admitted := *doc
	admitted.Filename = storedName
	s.cacheMu.Lock()
	s.cache[doc.ContentHash] = &admitted
	s.cacheMu.Unlock()
	return verdict
}

// loadCorpus materialises the comparable corpus members, serving
// unchanged members from the representation cache. Members that can no
// longer be extracted are skipped, not fatal.
func (s *SubmissionService) loadCorpus(ctx context.Context, assignment string, entries []domain.CorpusEntry) []*domain.Document {
	corpus := make([]*domain.Document, 0, len(entries))
	for _, entry := range entries {
		s.cacheMu.RLock()
		cached, ok := s.cache[entry.ContentHash]
		s.cacheMu.RUnlock()
		if ok {
			if cached.HasContent() {
				corpus = append(corpus, relabel(cached, assignment, entry.Filename))
			}
			continue
		}

		content, err := s.store.Content(ctx, assignment, entry.Filename)
		if err != nil {
			logger.Warn("skipping corpus member %s: %v", entry.Filename, err)
			continue
		}
		member, err := s.buildDocument(ctx, assignment, entry.Filename, content)
		if err != nil {
			logger.Warn("skipping corpus member %s: %v", entry.Filename, err)
			continue
		}

		s.cacheMu.Lock()
		s.cache[entry.ContentHash] = member
		s.cacheMu.Unlock()

		if member.HasContent() {
			corpus = append(corpus, member)
		}
	}
	return corpus
}

// buildDocument extracts and segments raw bytes into the immutable
// document representation.
func (s *SubmissionService) buildDocument(ctx context.Context, assignment, filename string, content []byte) (*domain.Document, error) {
	extractor, err := s.extractors.ForFile(filename, content)
	if err != nil {
		return nil, err
	}
	raw, err := extractor.Extract(ctx, filename, content)
	if err != nil {
		return nil, err
	}

	normalized := Normalize(raw)
	return &domain.Document{
		ID:             uuid.New().String(),
		Assignment:     assignment,
		Filename:       filename,
		ContentHash:    domain.HashBytes(content),
		RawText:        raw,
		NormalizedText: normalized,
		Chunks:         WordChunks(normalized, s.chunkSize),
		Shingles:       Shingles(normalized, s.shingleSize),
		Sentences:      SplitSentences(raw),
		CreatedAt:      time.Now(),
	}, nil
}

// relabel returns the document under the identity recorded in the
// ledger entry. The cache is keyed by content hash alone, so one
// representation can serve several assignments or a collision-suffixed
// stored name; the comparison labels must come from the entry, not
// from whoever populated the cache.
func relabel(doc *domain.Document, assignment, filename string) *domain.Document {
	if doc.Assignment == assignment && doc.Filename == filename {
		return doc
	}
	relabeled := *doc
	relabeled.Assignment = assignment
	relabeled.Filename = filename
	return &relabeled
}

// assignmentLock returns the mutex serialising one assignment's
// compare-decide-insert sequence.
func (s *SubmissionService) assignmentLock(assignment string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[assignment]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[assignment] = lock
	}
	return lock
}

func firstSubmission(emptyCorpus bool) *domain.Verdict {
	message := domain.MsgFirstSubmission
	if !emptyCorpus {
		message = domain.MsgNoContent
	}
	return acceptWith(message)
}

func acceptWith(message string) *domain.Verdict {
	return &domain.Verdict{
		Accepted:        true,
		SentenceMatches: []domain.SentenceMatch{},
		Message:         message,
	}
}

func rejectWith(message string) *domain.Verdict {
	return &domain.Verdict{
		SentenceMatches: []domain.SentenceMatch{},
		Message:         message,
	}
}
