package entity

import "time"

const (
	ContactStatusNew    = "new"
	ContactSourceChat   = "chatbot"
	ContactSessionIdLen = 8
)

// ContactRecord is a confirmed lead. Written once, never updated.
type ContactRecord struct {
	Id        int64
	Name      string
	Email     string
	Phone     string
	Program   string
	Note      string
	Status    string
	Source    string
	SessionId string // truncated to ContactSessionIdLen
	Meta      map[string]interface{}
	CreatedAt time.Time
}

// TruncateSessionId keeps only the prefix stored with a contact.
func TruncateSessionId(id string) string {
	if len(id) <= ContactSessionIdLen {
		return id
	}
	return id[:ContactSessionIdLen]
}
