package service

import "strings"

const (
	smalltalkGreeting = "Bonjour ! 👋\n\n" +
		"Je suis l'assistant virtuel du service des admissions. Je peux vous aider à :\n" +
		"- 📚 Obtenir des informations sur nos programmes et formations\n" +
		"- 📞 Être mis en contact avec notre équipe\n\n" +
		"Comment puis-je vous aider ?"
	smalltalkThanks  = "Je vous en prie ! N'hésitez pas si vous avez d'autres questions. 😊"
	smalltalkGoodbye = "Au revoir ! N'hésitez pas à revenir si vous avez des questions. Bonne journée ! 👋"
	smalltalkDefault = "Je ne suis pas sûr de comprendre votre demande.\n\n" +
		"Pourriez-vous préciser si vous souhaitez :\n" +
		"- Des informations sur nos programmes ?\n" +
		"- Être contacté par notre équipe ?"
)

var (
	greetingWords = []string{"bonjour", "salut", "hello", "coucou", "bonsoir", "hi", "hey"}
	thanksWords   = []string{"merci", "thanks", "thank"}
	goodbyeWords  = []string{"revoir", "bye", "ciao", "adieu"}
)

// smalltalkReply answers greetings, thanks and goodbyes with fixed texts.
// Goodbye wins over thanks ("merci, au revoir").
func smalltalkReply(message string) string {
	words := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r > 127)
	})
	switch {
	case containsWord(words, goodbyeWords):
		return smalltalkGoodbye
	case containsWord(words, thanksWords):
		return smalltalkThanks
	case containsWord(words, greetingWords):
		return smalltalkGreeting
	default:
		return smalltalkDefault
	}
}

func containsWord(words, candidates []string) bool {
	for _, w := range words {
		for _, c := range candidates {
			if w == c {
				return true
			}
		}
	}
	return false
}
