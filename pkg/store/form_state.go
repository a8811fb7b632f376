package store

import (
	"fmt"

	"github.com/goccy/go-json"
)

// FormKind discriminates the contact form state.
type FormKind string

const (
	FormCollecting           FormKind = "collecting"
	FormAwaitingConfirmation FormKind = "awaiting_confirmation"
	FormEditingField         FormKind = "editing_field"
	FormCompleted            FormKind = "completed"
)

// FormState is a tagged variant: field is only carried by EditingField, so
// awaiting confirmation and editing a field cannot both be active.
// Build values with the constructors below.
type FormState struct {
	kind  FormKind
	field Field
}

func Collecting() FormState { return FormState{kind: FormCollecting} }

func AwaitingConfirmation() FormState { return FormState{kind: FormAwaitingConfirmation} }

func EditingField(f Field) FormState { return FormState{kind: FormEditingField, field: f} }

func Completed() FormState { return FormState{kind: FormCompleted} }

// Kind returns the state tag. The zero value reads as collecting.
func (s FormState) Kind() FormKind {
	if s.kind == "" {
		return FormCollecting
	}
	return s.kind
}

func (s FormState) AwaitingConfirmation() bool { return s.kind == FormAwaitingConfirmation }

func (s FormState) EditingField() (Field, bool) {
	if s.kind != FormEditingField {
		return "", false
	}
	return s.field, true
}

func (s FormState) FormCompleted() bool { return s.kind == FormCompleted }

func (s FormState) String() string {
	if f, ok := s.EditingField(); ok {
		return fmt.Sprintf("%s(%s)", s.Kind(), f)
	}
	return string(s.Kind())
}

type formStateJSON struct {
	Kind  FormKind `json:"kind"`
	Field Field    `json:"field,omitempty"`
}

func (s FormState) MarshalJSON() ([]byte, error) {
	return json.Marshal(formStateJSON{Kind: s.Kind(), Field: s.field})
}

func (s *FormState) UnmarshalJSON(data []byte) error {
	var raw formStateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case FormCollecting, "":
		*s = Collecting()
	case FormAwaitingConfirmation:
		*s = AwaitingConfirmation()
	case FormCompleted:
		*s = Completed()
	case FormEditingField:
		if !raw.Field.Valid() {
			return fmt.Errorf("editing_field state with unknown field %q", raw.Field)
		}
		*s = EditingField(raw.Field)
	default:
		return fmt.Errorf("unknown form state %q", raw.Kind)
	}
	return nil
}
