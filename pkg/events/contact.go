package events

import "time"

const TypeContactCreated = "contact.created"

// ContactCreated is emitted once a confirmed lead has been persisted.
func ContactCreated(id int64, name, email, phone, program, note, sessionID string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeContactCreated,
		Data: map[string]interface{}{
			"id":         id,
			"name":       name,
			"email":      email,
			"phone":      phone,
			"program":    program,
			"note":       note,
			"session_id": sessionID,
		},
		OccurredAt: at,
	}
}
