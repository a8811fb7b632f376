package contact

import (
	"fmt"
	"strings"
	"unicode"

	"ai-admissions-be/pkg/store"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fieldLabels are used in prompts ("j'aurais besoin de {label}").
var fieldLabels = map[store.Field]string{
	store.FieldName:    "votre nom complet",
	store.FieldEmail:   "votre adresse email",
	store.FieldPhone:   "votre numéro de téléphone",
	store.FieldProgram: "le programme qui vous intéresse",
	store.FieldNote:    "votre message",
}

// summaryLabels are used in the confirmation summary.
var summaryLabels = map[store.Field]string{
	store.FieldName:    "Nom",
	store.FieldEmail:   "Email",
	store.FieldPhone:   "Téléphone",
	store.FieldProgram: "Programme d'intérêt",
	store.FieldNote:    "Message",
}

// fieldAliases maps what a visitor may type to the canonical field. Keys are
// stored already folded (lower-case, no accents).
var fieldAliases = map[string]store.Field{
	"telephone": store.FieldPhone,
	"tel":       store.FieldPhone,
	"phone":     store.FieldPhone,
	"numero":    store.FieldPhone,
	"portable":  store.FieldPhone,
	"nom":       store.FieldName,
	"name":      store.FieldName,
	"prenom":    store.FieldName,
	"email":     store.FieldEmail,
	"mail":      store.FieldEmail,
	"e-mail":    store.FieldEmail,
	"courriel":  store.FieldEmail,
	"programme": store.FieldProgram,
	"program":   store.FieldProgram,
	"formation": store.FieldProgram,
	"cours":     store.FieldProgram,
	"message":   store.FieldNote,
	"note":      store.FieldNote,
}

// ValidateAliases checks the alias table against the field set. Called once
// at startup; a failure is a programming error.
func ValidateAliases() error {
	covered := make(map[store.Field]bool)
	for alias, f := range fieldAliases {
		if !f.Valid() {
			return fmt.Errorf("alias %q points to unknown field %q", alias, f)
		}
		if fold(alias) != alias {
			return fmt.Errorf("alias %q is not stored in folded form", alias)
		}
		covered[f] = true
	}
	for _, f := range store.AllFields {
		if !covered[f] {
			return fmt.Errorf("field %q has no alias", f)
		}
		if _, ok := fieldLabels[f]; !ok {
			return fmt.Errorf("field %q has no prompt label", f)
		}
		if _, ok := summaryLabels[f]; !ok {
			return fmt.Errorf("field %q has no summary label", f)
		}
	}
	return nil
}

// ResolveField maps a visitor message to a field name, ignoring case,
// accents, surrounding punctuation and a leading article ("le téléphone").
func ResolveField(message string) (store.Field, bool) {
	key := strings.Trim(fold(message), " \t\n.,!?;:'\"")
	if f, ok := fieldAliases[key]; ok {
		return f, true
	}
	for _, prefix := range []string{"le ", "la ", "l'", "mon ", "ma "} {
		if rest, found := strings.CutPrefix(key, prefix); found {
			if f, ok := fieldAliases[strings.TrimSpace(rest)]; ok {
				return f, true
			}
		}
	}
	return "", false
}

// fold lower-cases and strips diacritics. Transformers carry state, so one
// is built per call.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
