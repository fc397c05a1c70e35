// Package search provides a BM25 keyword index over the faculty
// directory. It backs "did you mean" suggestions when an exact
// directory lookup comes up empty.
package search

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/go-ego/gse"
	bm25 "github.com/iwilltry42/bm25-go/bm25"

	"github.com/askdsu/campus-assistant-go/internal/logger"
	"github.com/askdsu/campus-assistant-go/internal/storage"
)

// Suggestion is a ranked faculty match with a rank-derived confidence.
// Confidence is a proxy from BM25 rank position, not semantic similarity.
type Suggestion struct {
	Name        string
	Department  string
	CabinNumber string
	Confidence  float32 // Rank-based confidence (0-1), higher = more relevant
}

// Index provides keyword-based faculty lookup using the BM25 algorithm.
// Each directory record becomes one document built from the member's
// name and department.
type Index struct {
	mu          sync.RWMutex
	bm25Okapi   *bm25.BM25Okapi
	docs        []storage.Faculty
	seg         gse.Segmenter
	logger      *logger.Logger
	initialized bool
}

// NewIndex creates an empty faculty index.
// Call Build before querying.
func NewIndex(log *logger.Logger) (*Index, error) {
	idx := &Index{logger: log}
	if err := idx.seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("failed to load segmenter dictionary: %w", err)
	}
	return idx, nil
}

// Build (re)builds the index from the full faculty directory.
// BM25 needs the whole corpus for IDF calculation, so updates after
// seeding rebuild from scratch.
func (idx *Index) Build(members []storage.Faculty) error {
	if idx == nil {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(members) == 0 {
		idx.docs = nil
		idx.bm25Okapi = nil
		idx.initialized = true
		return nil
	}

	corpus := make([]string, 0, len(members))
	docs := make([]storage.Faculty, 0, len(members))
	for _, member := range members {
		content := strings.TrimSpace(member.Name + " " + member.Department)
		if content == "" {
			continue
		}
		corpus = append(corpus, content)
		docs = append(docs, member)
	}

	// k1=1.5, b=0.75 are standard BM25 parameters
	bm25Okapi, err := bm25.NewBM25Okapi(corpus, idx.tokenize, 1.5, 0.75, nil)
	if err != nil {
		return fmt.Errorf("failed to build faculty index: %w", err)
	}

	idx.docs = docs
	idx.bm25Okapi = bm25Okapi
	idx.initialized = true

	idx.logger.WithField("docs", len(docs)).Info("Faculty suggestion index built")
	return nil
}

// Suggest returns up to topN ranked directory matches for a query.
// Returns nil when the index is empty or nothing scores above zero.
func (idx *Index) Suggest(query string, topN int) ([]Suggestion, error) {
	if idx == nil {
		return nil, nil
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.initialized || idx.bm25Okapi == nil {
		return nil, nil
	}

	tokens := idx.tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	scores, err := idx.bm25Okapi.GetScores(tokens)
	if err != nil {
		return nil, fmt.Errorf("faculty index scoring failed: %w", err)
	}

	type scoredDoc struct {
		docID int
		score float64
	}
	var scored []scoredDoc
	for docID, score := range scores {
		if score > 0 {
			scored = append(scored, scoredDoc{docID: docID, score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}

	results := make([]Suggestion, 0, len(scored))
	for rank, sd := range scored {
		member := idx.docs[sd.docID]
		results = append(results, Suggestion{
			Name:        member.Name,
			Department:  member.Department,
			CabinNumber: member.CabinNumber,
			Confidence:  rankConfidence(rank + 1),
		})
	}

	return results, nil
}

// IsEnabled reports whether the index has been built.
func (idx *Index) IsEnabled() bool {
	if idx == nil {
		return false
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.initialized && idx.bm25Okapi != nil
}

// Count returns the number of indexed directory records.
func (idx *Index) Count() int {
	if idx == nil {
		return 0
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// rankConfidence converts a BM25 rank into a confidence proxy.
// BM25 scores are unbounded and query-dependent, so rank is used instead.
//
// Formula: 1 / (1 + 0.05 * rank)
//   - rank 1 → 0.95
//   - rank 5 → 0.80
//   - rank 10 → 0.67
func rankConfidence(rank int) float32 {
	if rank <= 0 {
		return 0
	}
	return float32(1.0 / (1.0 + 0.05*float64(rank)))
}

// tokenize lowercases and segments text, dropping punctuation tokens.
func (idx *Index) tokenize(text string) []string {
	cut := idx.seg.CutSearch(strings.ToLower(text), true)

	tokens := make([]string, 0, len(cut))
	for _, tok := range cut {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
