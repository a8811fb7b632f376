package contact

import (
	"fmt"
	"strings"

	"ai-admissions-be/pkg/store"
)

const (
	missingFieldPrefix = "Pour continuer, j'aurais besoin de"
	currentValueMarker = "(Actuel :"

	MessageSaved         = "Parfait ! Votre demande a bien été enregistrée. Un conseiller vous contactera bientôt."
	MessageModify        = "D'accord, quel champ souhaitez-vous modifier ? (nom, email, téléphone, programme, message)"
	MessageSaveFailed    = "Désolé, je n'ai pas pu enregistrer votre demande pour le moment. Pouvez-vous réessayer en répondant \"oui\" ?"
	MessageNotUnderstood = "Je n'ai pas bien compris votre réponse. Veuillez :\n" +
		"- Donner le nom du champ à modifier (nom, email, téléphone, programme, message)\n" +
		"- Ou répondre 'oui' pour confirmer\n" +
		"- Ou 'non' pour modifier"
)

func missingFieldPrompt(f store.Field) string {
	return fmt.Sprintf("%s %s :", missingFieldPrefix, fieldLabels[f])
}

func editPrompt(f store.Field, current string) string {
	if current == "" {
		current = "non renseigné"
	}
	return fmt.Sprintf("Quelle est la nouvelle valeur pour %s ? %s %s)", fieldLabels[f], currentValueMarker, current)
}

// Summary renders the confirmation recap for the current contact fields.
func Summary(s *store.Session) string {
	var b strings.Builder
	b.WriteString("Récapitulatif de vos informations :\n\n")

	icons := map[store.Field]string{
		store.FieldName:    "📝",
		store.FieldEmail:   "📧",
		store.FieldPhone:   "📱",
		store.FieldProgram: "🎓",
	}
	for _, f := range store.RequiredFields {
		v, ok := s.Value(f)
		if !ok {
			v = "Non fourni"
		}
		fmt.Fprintf(&b, "%s **%s** : %s\n", icons[f], summaryLabels[f], v)
	}
	if note, ok := s.Value(store.FieldNote); ok {
		fmt.Fprintf(&b, "💬 **%s** : %s\n", summaryLabels[store.FieldNote], note)
	}

	b.WriteString("\nCes informations sont-elles correctes ? Répondez \"oui\" pour confirmer, \"non\" pour modifier, " +
		"ou donnez directement le nom du champ à corriger (nom, email, téléphone, programme, message).")
	return b.String()
}

// IsFieldPrompt reports whether an assistant message is one of the form's
// own questions, meaning the next visitor message is an answer to it.
func IsFieldPrompt(text string) bool {
	if strings.HasPrefix(text, missingFieldPrefix) || strings.Contains(text, currentValueMarker) {
		return true
	}
	if text == MessageModify {
		return true
	}
	for _, msg := range validationMessages {
		if text == msg {
			return true
		}
	}
	return false
}
