package contact

import (
	"strings"

	"ai-admissions-be/pkg/store"
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmYes
	confirmNo
	confirmField
)

// kept folded
var (
	affirmatives = []string{"oui", "yes", "ok", "okay", "confirme", "confirmer", "valider", "je confirme", "d'accord", "c'est correct", "c'est bon"}
	negatives    = []string{"non", "no", "non merci", "annuler", "modifier", "corriger"}
)

type confirmation struct {
	kind  confirmKind
	field store.Field
}

func parseConfirmation(message string) confirmation {
	key := strings.Trim(fold(message), " \t\n.,!?;:")

	if matchesAnswer(key, affirmatives) {
		return confirmation{kind: confirmYes}
	}
	if matchesAnswer(key, negatives) {
		return confirmation{kind: confirmNo}
	}
	if f, ok := ResolveField(message); ok {
		return confirmation{kind: confirmField, field: f}
	}
	return confirmation{kind: confirmNone}
}

// matchesAnswer accepts the answer alone or followed by more words
// ("oui merci", "non, le téléphone").
func matchesAnswer(key string, answers []string) bool {
	for _, a := range answers {
		if key == a {
			return true
		}
		if rest, ok := strings.CutPrefix(key, a); ok && (strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, ",")) {
			return true
		}
	}
	return false
}
