// Package search re-ranks the candidates of a document search service by
// combining rank, keyword overlap, keyword density and passage length.
package search

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"ai-admissions-be/internal/pkg/logger"

	"golang.org/x/sync/singleflight"
)

const logModule = "RETRIEVER"

type Config struct {
	TopK      int
	FinalK    int
	Threshold float64
	Weights   Weights
	Boost     float64
	Timeout   time.Duration
}

func DefaultConfig() Config {
	return Config{
		TopK:      10,
		FinalK:    4,
		Threshold: 0,
		Weights:   DefaultWeights(),
		Boost:     1.1,
		Timeout:   10 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.TopK <= 0 || c.FinalK <= 0 {
		return fmt.Errorf("top_k and final_k must be positive (top_k=%d, final_k=%d)", c.TopK, c.FinalK)
	}
	if c.FinalK >= c.TopK {
		return fmt.Errorf("final_k (%d) must be lower than top_k (%d)", c.FinalK, c.TopK)
	}
	if c.Boost < 1 {
		return fmt.Errorf("boost must be at least 1, got %.2f", c.Boost)
	}
	return c.Weights.Validate()
}

type Retriever struct {
	searcher DocumentSearcher
	cfg      Config
	logger   logger.ILogger
	group    singleflight.Group
}

func NewRetriever(searcher DocumentSearcher, cfg Config, log logger.ILogger) (*Retriever, error) {
	if searcher == nil {
		return nil, fmt.Errorf("document searcher is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retriever config: %w", err)
	}
	return &Retriever{searcher: searcher, cfg: cfg, logger: log}, nil
}

// Retrieve fetches TopK candidates for the normalized query and returns the
// FinalK best after re-ranking. Identical in-flight queries share one call.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]ScoredDocument, error) {
	normalized := Normalize(query)
	if normalized == "" {
		return nil, nil
	}

	key := strconv.Itoa(r.cfg.TopK) + "|" + normalized
	// the shared search must outlive any single caller; each caller still
	// gives up on its own context
	ch := r.group.DoChan(key, func() (interface{}, error) {
		searchCtx := context.WithoutCancel(ctx)
		if r.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			searchCtx, cancel = context.WithTimeout(searchCtx, r.cfg.Timeout)
			defer cancel()
		}
		return r.searcher.Search(searchCtx, normalized, r.cfg.TopK)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		res = singleflight.Result{Err: ctx.Err()}
	}
	if res.Err != nil {
		r.logger.Error(logModule, "Document search failed", map[string]interface{}{
			"query": normalized,
			"error": res.Err.Error(),
		})
		return nil, fmt.Errorf("document search: %w", res.Err)
	}
	result, shared := res.Val, res.Shared

	candidates, _ := result.([]Document)
	ranked := Rank(r.cfg, query, candidates)

	r.logger.Debug(logModule, "Candidates re-ranked", map[string]interface{}{
		"query":      normalized,
		"candidates": len(candidates),
		"kept":       len(ranked),
		"shared":     shared,
	})
	return ranked, nil
}

// Rank is the pure scoring step: identical inputs give identical output.
func Rank(cfg Config, query string, candidates []Document) []ScoredDocument {
	keywords := Keywords(query)
	queryWords := len(strings.Fields(query))

	scored := make([]ScoredDocument, 0, len(candidates))
	for rank, doc := range candidates {
		s := Scores{Vector: VectorScore(rank)}
		if s.Vector < cfg.Threshold {
			continue
		}
		s.Lexical = LexicalScore(keywords, doc.Content)
		s.Density = DensityScore(keywords, doc.Content)
		s.Length = LengthScore(len(strings.Fields(doc.Content)), queryWords)

		combined := cfg.Weights.combine(s)
		if containsAll(keywords, doc.Content) {
			combined *= cfg.Boost
		}

		scored = append(scored, ScoredDocument{
			Document: doc,
			Rank:     rank,
			Scores: Scores{
				Vector:   round4(s.Vector),
				Lexical:  round4(s.Lexical),
				Density:  round4(s.Density),
				Length:   round4(s.Length),
				Combined: round4(combined),
			},
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Scores.Combined > scored[j].Scores.Combined
	})

	if cfg.FinalK > 0 && len(scored) > cfg.FinalK {
		scored = scored[:cfg.FinalK]
	}
	return scored
}
