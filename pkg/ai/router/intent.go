package router

import "strings"

// Intent is the router's four-way classification of a message.
type Intent string

const (
	IntentInformation Intent = "information"
	IntentContact     Intent = "contact"
	IntentMixed       Intent = "mixed"
	IntentSmalltalk   Intent = "smalltalk"
)

// labels the classifier is asked to answer with
const (
	LabelRAG         = "RAG"
	LabelForm        = "FORMULAIRE"
	LabelMixed       = "MIXED"
	LabelInteraction = "INTERACTION"
)

var labelIntents = map[string]Intent{
	LabelRAG:         IntentInformation,
	LabelForm:        IntentContact,
	LabelMixed:       IntentMixed,
	LabelInteraction: IntentSmalltalk,
	// tolerated spellings
	"CONTACT":   IntentContact,
	"FORM":      IntentContact,
	"MIXTE":     IntentMixed,
	"SMALLTALK": IntentSmalltalk,
}

// ParseLabel normalizes a raw classifier answer: upper-case, first line,
// first token, trailing punctuation stripped.
func ParseLabel(raw string) (Intent, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", false
	}
	token := strings.Trim(fields[0], "*\"'`")
	token = strings.TrimRight(token, ".,!?;:")
	intent, ok := labelIntents[token]
	return intent, ok
}
