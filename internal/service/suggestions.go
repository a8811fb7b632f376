package service

import "strings"

var suggestionsByContext = map[string][]string{
	"welcome": {
		"Quels sont les programmes disponibles ?",
		"Comment s'inscrire ?",
		"Je souhaite être contacté",
		"Informations sur la Cybersécurité",
	},
	"programs": {
		"Data & IA",
		"Cybersécurité",
		"FinTech",
		"Systèmes Embarqués",
	},
	"admissions": {
		"Quelles sont les dates du concours ?",
		"Admission parallèle",
		"Frais de scolarité",
	},
	"contact": {
		"Oui, contactez-moi",
		"Voir d'autres programmes",
	},
	"default": {
		"Les programmes",
		"Les admissions",
		"Être contacté",
	},
}

var (
	contactHints   = []string{"contact", "appel", "rappel"}
	programHints   = []string{"programme", "formation", "cursus"}
	admissionHints = []string{"admission", "concours", "candidat", "parcoursup"}
)

// suggestionsFor picks follow-up questions from the visitor message first,
// then from the reply. An open form gets no suggestions.
func suggestionsFor(message, reply string, formOpen bool) []string {
	if formOpen {
		return []string{}
	}
	m := strings.ToLower(message)
	r := strings.ToLower(reply)

	switch {
	case reply == smalltalkGreeting:
		return suggestionsByContext["welcome"]
	case hasAny(m, contactHints):
		return suggestionsByContext["contact"]
	case hasAny(m, admissionHints):
		return suggestionsByContext["admissions"]
	case hasAny(m, programHints):
		return suggestionsByContext["programs"]
	case hasAny(r, contactHints):
		return suggestionsByContext["contact"]
	case hasAny(r, programHints):
		return suggestionsByContext["programs"]
	default:
		return suggestionsByContext["default"]
	}
}

func hasAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
