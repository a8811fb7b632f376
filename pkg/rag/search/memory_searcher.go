package search

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// MemorySearcher ranks an in-memory corpus by keyword overlap. It backs the
// offline mode and tests.
type MemorySearcher struct {
	docs []Document
}

func NewMemorySearcher(docs []Document) *MemorySearcher {
	return &MemorySearcher{docs: docs}
}

// LoadCorpus reads a JSON array of {content, metadata} documents.
func LoadCorpus(path string) ([]Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", path, err)
	}
	return docs, nil
}

func (m *MemorySearcher) Len() int { return len(m.docs) }

func (m *MemorySearcher) Search(ctx context.Context, query string, topK int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := strings.Fields(Normalize(query))
	type hit struct {
		idx   int
		score int
	}
	var hits []hit
	for i, d := range m.docs {
		content := Normalize(d.Content)
		score := 0
		for _, t := range terms {
			if len(t) > 2 && strings.Contains(content, t) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{idx: i, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}

	out := make([]Document, 0, len(hits))
	for _, h := range hits {
		out = append(out, m.docs[h.idx])
	}
	return out, nil
}

var _ DocumentSearcher = &MemorySearcher{}
