package contact

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"ai-admissions-be/pkg/store"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Extraction is one field value found in a message, not yet validated.
type Extraction struct {
	Field store.Field
	Value string
}

// Extractor looks for a single field in a message. found holds what the
// extractors earlier in the chain already produced for this message.
type Extractor interface {
	Name() string
	Extract(message string, s *store.Session, found []Extraction) (Extraction, bool)
}

// DefaultExtractors is the precedence order for collection turns.
func DefaultExtractors() []Extractor {
	return []Extractor{
		emailExtractor{},
		phoneExtractor{},
		programKeywordExtractor{},
		nameHeuristicExtractor{},
		programFallbackExtractor{},
	}
}

// ExtractAll runs the extractors in order and keeps the first match per field.
func ExtractAll(extractors []Extractor, message string, s *store.Session) []Extraction {
	var found []Extraction
	seen := make(map[store.Field]bool)
	for _, ex := range extractors {
		e, ok := ex.Extract(message, s, found)
		if !ok || seen[e.Field] {
			continue
		}
		seen[e.Field] = true
		found = append(found, e)
	}
	return found
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	// something address-shaped that the pattern rejected; validation reports it
	emailAttempt = regexp.MustCompile(`\S*@\S*`)

	phonePattern = regexp.MustCompile(`(?:\+33[\s.\-]?|0)[1-9](?:[\s.\-]?\d{2}){4}`)
	phoneAttempt = regexp.MustCompile(`\+?\d(?:[\s.\-]?\d){7,}`)

	digitRun = regexp.MustCompile(`\d`)
)

type emailExtractor struct{}

func (emailExtractor) Name() string { return "email" }

func (emailExtractor) Extract(message string, _ *store.Session, _ []Extraction) (Extraction, bool) {
	if m := emailPattern.FindString(message); m != "" {
		return Extraction{Field: store.FieldEmail, Value: m}, true
	}
	if m := emailAttempt.FindString(message); len(m) > 1 {
		return Extraction{Field: store.FieldEmail, Value: m}, true
	}
	return Extraction{}, false
}

type phoneExtractor struct{}

func (phoneExtractor) Name() string { return "phone" }

func (phoneExtractor) Extract(message string, _ *store.Session, found []Extraction) (Extraction, bool) {
	// digits inside an address are not a phone number
	scan := message
	for _, e := range found {
		if e.Field == store.FieldEmail {
			scan = strings.ReplaceAll(scan, e.Value, " ")
		}
	}
	if m := phonePattern.FindString(scan); m != "" {
		return Extraction{Field: store.FieldPhone, Value: m}, true
	}
	if m := phoneAttempt.FindString(scan); m != "" {
		return Extraction{Field: store.FieldPhone, Value: m}, true
	}
	return Extraction{}, false
}

type programKeyword struct {
	keyword   string
	canonical string
}

// programKeywords is ordered longest/most specific first.
var programKeywords = []programKeyword{
	{"intelligence artificielle", "Intelligence Artificielle"},
	{"systèmes embarqués", "Systèmes Embarqués"},
	{"data science", "Data Science"},
	{"cybersécurité", "Cybersécurité"},
	{"embarqués", "Systèmes Embarqués"},
	{"embarqué", "Systèmes Embarqués"},
	{"fintech", "FinTech"},
	{"finance", "Finance"},
	{"cyber", "Cybersécurité"},
	{"ia", "Intelligence Artificielle"},
}

var programMatchers = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(programKeywords))
	for i, k := range programKeywords {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(fold(k.keyword)) + `\b`)
	}
	return out
}()

// MatchProgram returns the canonical program named in the message, if any.
func MatchProgram(message string) (string, bool) {
	folded := fold(message)
	for i, re := range programMatchers {
		if re.MatchString(folded) {
			return programKeywords[i].canonical, true
		}
	}
	return "", false
}

type programKeywordExtractor struct{}

func (programKeywordExtractor) Name() string { return "program-keyword" }

func (programKeywordExtractor) Extract(message string, _ *store.Session, _ []Extraction) (Extraction, bool) {
	if p, ok := MatchProgram(message); ok {
		return Extraction{Field: store.FieldProgram, Value: p}, true
	}
	return Extraction{}, false
}

// nonNameStems also reject longer words built on them ("contactez").
var nonNameStems = []string{
	"contact", "appel", "rappel", "information", "brochure", "renseignement", "inscription",
}

// nonNamePhrases only match as whole words, so "Mercier" stays a name.
var nonNamePhrases = []string{
	"je veux", "je souhaite", "je voudrais", "je vais",
	"contacte", "contacté",
	"bonjour", "salut", "coucou", "bonsoir", "bon matin",
	"s'il vous plaît", "stp", "svp", "merci", "cordialement",
}

var nonNameMatchers = func() []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, p := range nonNameStems {
		out = append(out, regexp.MustCompile(`\b`+regexp.QuoteMeta(fold(p))))
	}
	for _, p := range nonNamePhrases {
		out = append(out, regexp.MustCompile(`\b`+regexp.QuoteMeta(fold(p))+`\b`))
	}
	return out
}()

// LooksLikeName applies the name heuristic to a whole message.
func LooksLikeName(message string) bool {
	v := strings.TrimSpace(message)
	n := utf8.RuneCountInString(v)
	if n < 2 || n > 100 {
		return false
	}
	if digitRun.MatchString(v) || strings.ContainsAny(v, "?@") {
		return false
	}
	folded := fold(v)
	for _, re := range nonNameMatchers {
		if re.MatchString(folded) {
			return false
		}
	}
	return true
}

// TitleName capitalizes each whitespace-separated token.
func TitleName(message string) string {
	caser := cases.Title(language.French)
	tokens := strings.Fields(message)
	for i, tok := range tokens {
		tokens[i] = caser.String(tok)
	}
	return strings.Join(tokens, " ")
}

type nameHeuristicExtractor struct{}

func (nameHeuristicExtractor) Name() string { return "name-heuristic" }

func (nameHeuristicExtractor) Extract(message string, s *store.Session, found []Extraction) (Extraction, bool) {
	if len(found) > 0 {
		return Extraction{}, false
	}
	if _, filled := s.Value(store.FieldName); filled {
		return Extraction{}, false
	}
	if !LooksLikeName(message) {
		return Extraction{}, false
	}
	return Extraction{Field: store.FieldName, Value: TitleName(message)}, true
}

type programFallbackExtractor struct{}

func (programFallbackExtractor) Name() string { return "program-fallback" }

func (programFallbackExtractor) Extract(message string, s *store.Session, found []Extraction) (Extraction, bool) {
	if len(found) > 0 {
		return Extraction{}, false
	}
	if _, filled := s.Value(store.FieldProgram); filled {
		return Extraction{}, false
	}
	if _, named := s.Value(store.FieldName); !named {
		return Extraction{}, false
	}
	v := strings.TrimSpace(message)
	if v == "" || !strings.ContainsFunc(v, unicode.IsLetter) {
		return Extraction{}, false
	}
	return Extraction{Field: store.FieldProgram, Value: v}, true
}
