package router

import "strings"

// InformationTerms signal a knowledge-base question.
var InformationTerms = []string{
	"programme", "programmes", "formation", "formations",
	"admission", "admissions", "concours",
	"cours", "matière", "matières",
	"frais", "coût", "coûts", "prix", "tarif",
	"stage", "stages", "alternance",
	"spécialisation", "spécialisations",
	"esilv", "école", "campus",
	"étudiant", "étudiants",
	"diplôme", "diplômes",
	"débouché", "débouchés", "métier", "métiers",
	"quoi", "quel", "quelle", "quels", "quelles",
	"comment", "où", "pourquoi",
	"info", "information", "informations",
}

// ContactTerms signal a wish to be contacted.
var ContactTerms = []string{
	"contact", "contacter", "contacté", "contactez",
	"rappel", "rappeler", "rappelez",
	"appel", "appeler", "appelez",
	"brochure", "documentation",
	"inscription", "inscrire", "candidature",
	"rendez-vous", "rdv",
	"email", "mail", "téléphone", "tel",
	"recontacter", "recontacté",
}

// ClassifyByKeywords is the deterministic fallback classifier. A list counts
// as present when any of its terms is a case-insensitive substring of the
// message; how many terms match does not matter.
func ClassifyByKeywords(message string, infoTerms, contactTerms []string) Intent {
	lower := strings.ToLower(message)
	info := countPresent(lower, infoTerms)
	contact := countPresent(lower, contactTerms)

	switch {
	case info > 0 && contact > 0:
		return IntentMixed
	case info > 0:
		return IntentInformation
	case contact > 0:
		return IntentContact
	default:
		return IntentSmalltalk
	}
}

func countPresent(lower string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			n++
		}
	}
	return n
}
