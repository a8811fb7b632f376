package response

const (
	MessageNoDocuments = "Je n'ai pas trouvé d'informations pertinentes dans ma documentation.\n\n" +
		"📞 Souhaitez-vous être contacté par notre équipe pour obtenir plus de détails ?"

	MessageNoAnswer = "Je n'ai pas cette information dans ma documentation.\n\n" +
		"📞 Souhaitez-vous être contacté par un conseiller qui pourra vous répondre ?"

	MessageUnavailable = "Le service de réponse est momentanément indisponible.\n\n" +
		"📞 Souhaitez-vous être contacté par un conseiller ?"

	sourcesHeader = "📚 Sources :"
)

// noAnswerPhrases are matched lower-cased against an uncited answer.
var noAnswerPhrases = []string{
	"je n'ai pas cette information",
	"je ne dispose pas de cette information",
	"je ne sais pas",
	"aucune information",
	"i don't know",
}
