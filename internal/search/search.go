// Package search finds record fields by name or description, optionally
// re-ranking them by embedding similarity.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pders01/modeldrift/internal/embeddings"
	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/registry"
)

// MinSimilarity is the cosine similarity a field needs to be returned on
// semantic grounds alone
const MinSimilarity = 0.5

// Hit is one matching field
type Hit struct {
	Model         string       `json:"model"`
	Module        string       `json:"module,omitempty"`
	Field         models.Field `json:"field"`
	Score         float64      `json:"score"`
	KeywordScore  int          `json:"keyword_score"`
	SemanticScore float64      `json:"semantic_score,omitempty"`
	Semantic      bool         `json:"semantic"`
}

// Searcher runs field queries against a provider
type Searcher struct {
	Records registry.Provider
	// Embedder enables hybrid ranking when set
	Embedder       embeddings.Embedder
	KeywordWeight  float64
	SemanticWeight float64
}

// Fields returns fields whose name or description contains query, case
// insensitively, in provider order. A non-empty model restricts the
// search to that record and fails when it is unknown.
func (s *Searcher) Fields(ctx context.Context, query, model string) ([]Hit, error) {
	records, err := s.records(ctx, model)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	hits := []Hit{}
	for _, r := range records {
		for _, f := range r.Fields {
			if strings.Contains(strings.ToLower(f.Name), q) ||
				(f.Description != "" && strings.Contains(strings.ToLower(f.Description), q)) {
				hits = append(hits, Hit{Model: r.Name, Module: r.Module, Field: f})
			}
		}
	}
	return hits, nil
}

// Rank scores every field against the query and returns the relevant
// ones, best first. Without an Embedder only keyword scores count.
func (s *Searcher) Rank(ctx context.Context, query, model string) ([]Hit, error) {
	records, err := s.records(ctx, model)
	if err != nil {
		return nil, err
	}
	words := strings.Fields(strings.ToLower(query))

	var qvec []float32
	if s.Embedder != nil {
		qvec, err = s.Embedder.Embed(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to embed query: %w", err)
		}
	}

	hits := []Hit{}
	for _, r := range records {
		for _, f := range r.Fields {
			h := Hit{Model: r.Name, Module: r.Module, Field: f}
			h.KeywordScore = Relevance(words, r.Name, f)
			h.Score = float64(h.KeywordScore)

			sim := -1.0
			if qvec != nil {
				fvec, err := s.Embedder.Embed(ctx, FieldText(r.Name, f))
				if err != nil {
					return nil, fmt.Errorf("failed to embed %s.%s: %w", r.Name, f.Name, err)
				}
				if sim, err = embeddings.CosineSimilarity(qvec, fvec); err == nil {
					h.Semantic = true
					h.SemanticScore = embeddings.Percent(sim)
					h.Score = s.KeywordWeight*keywordPercent(h.KeywordScore) + s.SemanticWeight*h.SemanticScore
				}
			}

			if h.KeywordScore > 0 || sim >= MinSimilarity {
				hits = append(hits, h)
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits, nil
}

func (s *Searcher) records(ctx context.Context, model string) ([]models.RecordDescriptor, error) {
	if model != "" {
		r, err := registry.Lookup(ctx, s.Records, model)
		if err != nil {
			return nil, err
		}
		return []models.RecordDescriptor{*r}, nil
	}
	return s.Records.ListRecords(ctx)
}

// Relevance counts query words in the field text (10 each) plus 50 when
// a word is in the field name and 30 when it is in the record name
func Relevance(words []string, model string, f models.Field) int {
	text := strings.ToLower(f.Name + " " + f.Type + " " + f.Description)
	name := strings.ToLower(f.Name)
	owner := strings.ToLower(model)
	score := 0
	for _, w := range words {
		score += strings.Count(text, w) * 10
		if strings.Contains(name, w) {
			score += 50
		}
		if strings.Contains(owner, w) {
			score += 30
		}
	}
	return score
}

// FieldText is the text embedded for a field
func FieldText(model string, f models.Field) string {
	parts := []string{model + "." + f.Name, f.Type}
	if f.Description != "" {
		parts = append(parts, f.Description)
	}
	return strings.Join(parts, " ")
}

// keywordPercent halves a keyword score and caps it at 100 so it sits on
// the same scale as the semantic percentage
func keywordPercent(score int) float64 {
	v := float64(score) / 2
	if v > 100 {
		return 100
	}
	return v
}
