package contract

import (
	"context"

	"ai-admissions-be/internal/model"
)

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*model.DocumentChunk) error
	Count(ctx context.Context) (int64, error)
	// SearchNearest returns chunks ordered by cosine distance, nearest first.
	SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*model.DocumentChunk, error)
}
