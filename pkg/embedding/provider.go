package embedding

import "context"

// EmbeddingProvider turns text into a unit-length vector. Query and passage
// embeddings must come from the same model.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
