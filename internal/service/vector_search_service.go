package service

import (
	"context"
	"fmt"

	"ai-admissions-be/internal/mapper"
	"ai-admissions-be/internal/repository/contract"
	"ai-admissions-be/pkg/embedding"
	"ai-admissions-be/pkg/rag/search"
)

// vectorSearchService embeds the query and asks pgvector for the nearest
// chunks. It is the production document searcher.
type vectorSearchService struct {
	embedder  embedding.EmbeddingProvider
	chunkRepo contract.DocumentChunkRepository
	mapper    *mapper.DocumentChunkMapper
}

func NewVectorSearchService(embedder embedding.EmbeddingProvider, chunkRepo contract.DocumentChunkRepository) search.DocumentSearcher {
	return &vectorSearchService{
		embedder:  embedder,
		chunkRepo: chunkRepo,
		mapper:    mapper.NewDocumentChunkMapper(),
	}
}

func (s *vectorSearchService) Search(ctx context.Context, query string, topK int) ([]search.Document, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := s.chunkRepo.SearchNearest(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("nearest chunks: %w", err)
	}

	docs := make([]search.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, s.mapper.ToDocument(c))
	}
	return docs, nil
}
