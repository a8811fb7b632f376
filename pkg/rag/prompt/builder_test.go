package prompt

import (
	"testing"

	"ai-admissions-be/pkg/rag/search"

	"github.com/stretchr/testify/assert"
)

func TestBuildContext_NumbersPassages(t *testing.T) {
	docs := []search.ScoredDocument{
		{Document: search.Document{Content: " Frais : 8000 €. ", Metadata: map[string]interface{}{"source": "https://ecole.fr/frais"}}},
		{Document: search.Document{Content: "Campus à Paris."}},
	}

	assert.Equal(t,
		"[1] (https://ecole.fr/frais) Frais : 8000 €.\n\n[2] (document) Campus à Paris.",
		BuildContext(docs))

	p := Build("Quels sont les frais ?", docs)
	assert.Contains(t, p, "QUESTION : Quels sont les frais ?")
	assert.Contains(t, p, "[2] (document) Campus à Paris.")
	assert.Contains(t, p, "UNIQUEMENT")
}
