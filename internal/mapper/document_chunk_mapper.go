package mapper

import (
	"ai-admissions-be/internal/model"
	"ai-admissions-be/pkg/rag/search"

	"github.com/goccy/go-json"
	"github.com/pgvector/pgvector-go"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

// ToDocument exposes a chunk as a retrieval candidate. The chunk source is
// always present in the metadata under "source".
func (m *DocumentChunkMapper) ToDocument(c *model.DocumentChunk) search.Document {
	meta := make(map[string]interface{})
	if len(c.Metadata) > 0 {
		_ = json.Unmarshal(c.Metadata, &meta)
	}
	if c.Source != "" {
		meta["source"] = c.Source
	}
	meta["chunk_id"] = c.Id

	return search.Document{Content: c.Content, Metadata: meta}
}

// ToModel builds the row stored for a corpus document and its embedding.
func (m *DocumentChunkMapper) ToModel(d search.Document, embedding []float32) (*model.DocumentChunk, error) {
	meta, err := json.Marshal(d.Metadata)
	if err != nil {
		return nil, err
	}
	return &model.DocumentChunk{
		Content:        d.Content,
		Source:         d.Source(),
		Metadata:       meta,
		EmbeddingValue: pgvector.NewVector(embedding),
	}, nil
}
