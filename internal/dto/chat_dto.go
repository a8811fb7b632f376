package dto

import "time"

type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=2000"`
	SessionId string `json:"session_id" validate:"omitempty,max=128"`
}

type ChatResponse struct {
	Response    string    `json:"response"`
	SessionId   string    `json:"session_id"`
	Route       string    `json:"route"`
	IsForm      bool      `json:"is_form"`
	Suggestions []string  `json:"suggestions"`
	Timestamp   time.Time `json:"timestamp"`
}

type SessionTurnResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionSummaryResponse struct {
	SessionId             string                `json:"session_id"`
	MessageCount          int                   `json:"message_count"`
	FormCompletionPercent int                   `json:"form_completion_percent"`
	FormState             string                `json:"form_state"`
	ContactFields         map[string]string     `json:"contact_fields"`
	History               []SessionTurnResponse `json:"history,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

type StatsResponse struct {
	ActiveSessions    int              `json:"active_sessions"`
	ContactsCollected int64            `json:"contacts_collected"`
	Routes            map[string]int64 `json:"routes"`
}

type HealthResponse struct {
	Status         string            `json:"status"`
	Checks         map[string]string `json:"checks"`
	ActiveSessions int               `json:"active_sessions"`
	Timestamp      time.Time         `json:"timestamp"`
}
