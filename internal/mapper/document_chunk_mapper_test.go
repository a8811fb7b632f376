package mapper

import (
	"testing"

	"ai-admissions-be/internal/model"
	"ai-admissions-be/pkg/rag/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentChunkMapper_ModelAndBack(t *testing.T) {
	m := NewDocumentChunkMapper()
	doc := search.Document{
		Content:  "Le cycle ingénieur dure trois ans.",
		Metadata: map[string]interface{}{"url": "https://example.edu/cycle", "title": "Cycle ingénieur"},
	}

	row, err := m.ToModel(doc, []float32{0.1, 0.2})
	require.NoError(t, err)
	assert.Equal(t, "https://example.edu/cycle", row.Source)
	assert.Equal(t, []float32{0.1, 0.2}, row.EmbeddingValue.Slice())

	row.Id = 7
	back := m.ToDocument(row)
	assert.Equal(t, doc.Content, back.Content)
	assert.Equal(t, "https://example.edu/cycle", back.Source())
	assert.Equal(t, "Cycle ingénieur", back.Metadata["title"])
	assert.Equal(t, int64(7), back.Metadata["chunk_id"])
}

func TestDocumentChunkMapper_ToDocumentWithoutMetadata(t *testing.T) {
	back := NewDocumentChunkMapper().ToDocument(&model.DocumentChunk{Id: 1, Content: "x"})
	assert.Equal(t, "", back.Source())
	assert.Equal(t, int64(1), back.Metadata["chunk_id"])
}
