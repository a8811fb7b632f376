package implementation

import (
	"context"

	"ai-admissions-be/internal/model"
	"ai-admissions-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentChunkRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentChunkRepository(db *gorm.DB) contract.DocumentChunkRepository {
	return &DocumentChunkRepositoryImpl{db: db}
}

func (r *DocumentChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*model.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(chunks, 100).Error
}

func (r *DocumentChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentChunk{}).Count(&count).Error
	return count, err
}

func (r *DocumentChunkRepositoryImpl) SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*model.DocumentChunk, error) {
	var chunks []*model.DocumentChunk
	vec := pgvector.NewVector(embedding)

	// pgvector cosine distance, smallest first

	err := r.db.WithContext(ctx).
		Order(gorm.Expr("embedding_value <=> ?", vec)).
		Limit(limit).
		Find(&chunks).Error
	if err != nil {
		return nil, err
	}
	return chunks, nil
}
