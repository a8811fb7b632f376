// Package prompt assembles the grounded question-answering prompt.
package prompt

import (
	"fmt"
	"strings"

	"ai-admissions-be/pkg/rag/search"
)

const systemInstructions = `Tu es l'assistant virtuel du service des admissions de l'école.

Règles :
1. Utilise UNIQUEMENT les informations des documents du CONTEXTE.
2. Cite chaque information utilisée avec le numéro du document entre crochets, par exemple [1] ou [2].
3. Si l'information n'est pas dans les documents, réponds "Je n'ai pas cette information dans ma documentation" et ne cite rien.
4. N'invente jamais d'information et ne mentionne pas les documents dans le texte ("Selon le document..."), seulement [n].
5. Reste professionnel et chaleureux. Réponds en français sauf si la question est en anglais.`

// BuildContext numbers the passages from 1: "[1] (source) content".
func BuildContext(docs []search.ScoredDocument) string {
	parts := make([]string, 0, len(docs))
	for i, d := range docs {
		source := d.Source()
		if source == "" {
			source = "document"
		}
		parts = append(parts, fmt.Sprintf("[%d] (%s) %s", i+1, source, strings.TrimSpace(d.Content)))
	}
	return strings.Join(parts, "\n\n")
}

// Build returns the full prompt for a question over the given passages.
func Build(question string, docs []search.ScoredDocument) string {
	var b strings.Builder
	b.WriteString(systemInstructions)
	b.WriteString("\n\nCONTEXTE :\n")
	b.WriteString(BuildContext(docs))
	b.WriteString("\n\n---\n\nQUESTION : ")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\nRÉPONSE (avec citations [1], [2], etc.) :")
	return b.String()
}
