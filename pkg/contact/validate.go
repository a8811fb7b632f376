package contact

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"ai-admissions-be/pkg/store"
)

var (
	emailStrictRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneSeparators   = regexp.MustCompile(`[\s\-.]`)
	phoneNationalForm = regexp.MustCompile(`^0[1-9]\d{8}$`)
	phoneIntlForm     = regexp.MustCompile(`^\+33[1-9]\d{8}$`)
)

// ValidationError carries the visitor-facing correction request.
type ValidationError struct {
	Field   store.Field
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

var validationMessages = map[store.Field]string{
	store.FieldEmail:   "L'adresse email semble incorrecte. Pouvez-vous vérifier et me la donner à nouveau ? (exemple : votre.nom@email.com)",
	store.FieldPhone:   "Le numéro de téléphone n'est pas au bon format. Merci de le fournir au format : 06 12 34 56 78 ou +33 6 12 34 56 78",
	store.FieldName:    "Le nom semble trop court. Pourriez-vous me donner votre nom complet ?",
	store.FieldProgram: "Pouvez-vous préciser le programme qui vous intéresse ?",
	store.FieldNote:    "Votre message est vide. Que souhaitez-vous nous transmettre ?",
}

func invalid(f store.Field) *ValidationError {
	return &ValidationError{Field: f, Message: validationMessages[f]}
}

// ValidateEmail returns the lower-cased address.
func ValidateEmail(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if !emailStrictRegex.MatchString(v) {
		return "", invalid(store.FieldEmail)
	}
	return strings.ToLower(v), nil
}

// NormalizePhone returns the +33XXXXXXXXX form. Idempotent on its output.
func NormalizePhone(raw string) (string, error) {
	v := phoneSeparators.ReplaceAllString(strings.TrimSpace(raw), "")
	switch {
	case phoneNationalForm.MatchString(v):
		return "+33" + v[1:], nil
	case phoneIntlForm.MatchString(v):
		return v, nil
	default:
		return "", invalid(store.FieldPhone)
	}
}

func ValidateName(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if utf8.RuneCountInString(v) < 2 {
		return "", invalid(store.FieldName)
	}
	return v, nil
}

func ValidateProgram(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", invalid(store.FieldProgram)
	}
	return v, nil
}

func ValidateNote(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", invalid(store.FieldNote)
	}
	return v, nil
}

// Validate dispatches on the field.
func Validate(f store.Field, raw string) (string, error) {
	switch f {
	case store.FieldEmail:
		return ValidateEmail(raw)
	case store.FieldPhone:
		return NormalizePhone(raw)
	case store.FieldName:
		return ValidateName(raw)
	case store.FieldProgram:
		return ValidateProgram(raw)
	case store.FieldNote:
		return ValidateNote(raw)
	default:
		return "", fmt.Errorf("unknown field %q", f)
	}
}
