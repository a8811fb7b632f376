package store

import "time"

// Field is a canonical contact field name.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldProgram Field = "program"
	FieldNote    Field = "note"
)

// RequiredFields is also the order in which missing fields are prompted.
var RequiredFields = []Field{FieldName, FieldEmail, FieldPhone, FieldProgram}

// AllFields lists every field a session may hold.
var AllFields = []Field{FieldName, FieldEmail, FieldPhone, FieldProgram, FieldNote}

func (f Field) Valid() bool {
	for _, known := range AllFields {
		if f == known {
			return true
		}
	}
	return false
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one history entry.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session represents one conversation held in memory
type Session struct {
	ID string `json:"id"`

	// Contact holds only filled fields; a missing key means null.
	Contact map[Field]string `json:"contact"`

	// ContactStarted marks the form as opened even with no field filled yet
	// (set after a mixed answer invited the visitor to leave details).
	ContactStarted bool `json:"contact_started"`

	Form    FormState `json:"form"`
	History []Turn    `json:"history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Contact:   make(map[Field]string),
		Form:      Collecting(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) Value(f Field) (string, bool) {
	v, ok := s.Contact[f]
	return v, ok
}

// SetValue stores a field; an empty value clears it.
func (s *Session) SetValue(f Field, v string) {
	if v == "" {
		delete(s.Contact, f)
		return
	}
	s.Contact[f] = v
}

// HasContactData reports whether the form is "active": any field filled or
// the form explicitly opened.
func (s *Session) HasContactData() bool {
	return s.ContactStarted || len(s.Contact) > 0
}

// MissingRequired returns required fields not filled yet, in prompt order.
func (s *Session) MissingRequired() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if _, ok := s.Contact[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

func (s *Session) ClearContact() {
	s.Contact = make(map[Field]string)
	s.ContactStarted = false
}

// Append adds a history entry. History is never rewritten.
func (s *Session) Append(role, content string, at time.Time) {
	s.History = append(s.History, Turn{Role: role, Content: content, Timestamp: at})
}

// LastAssistantTurn returns the most recent assistant message, if any.
func (s *Session) LastAssistantTurn() (Turn, bool) {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == RoleAssistant {
			return s.History[i], true
		}
	}
	return Turn{}, false
}

// RecentTurns returns up to n trailing history entries.
func (s *Session) RecentTurns(n int) []Turn {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	start := len(s.History) - n
	if start < 0 {
		start = 0
	}
	out := make([]Turn, len(s.History)-start)
	copy(out, s.History[start:])
	return out
}
