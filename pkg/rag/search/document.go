package search

import "context"

// Document is one candidate passage returned by the document search service.
type Document struct {
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
}

// DocumentSearcher returns up to topK passages, best first. Scores are not
// assumed comparable across calls, only the order is used.
type DocumentSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]Document, error)
}

// Scores holds the four component signals and their weighted combination.
type Scores struct {
	Vector   float64 `json:"vector"`
	Lexical  float64 `json:"lexical"`
	Density  float64 `json:"density"`
	Length   float64 `json:"length"`
	Combined float64 `json:"final"`
}

type ScoredDocument struct {
	Document
	Rank   int    `json:"rank"` // position in the searcher's output
	Scores Scores `json:"scores"`
}

// Source returns the metadata "source" (or "url") value, if any.
func (d Document) Source() string {
	for _, key := range []string{"source", "url"} {
		if v, ok := d.Metadata[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
