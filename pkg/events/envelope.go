package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Envelope is the wire form of an event on the in-process bus.
type Envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"timestamp"`
}

func (e Envelope) EventType() string               { return e.Type }
func (e Envelope) Payload() map[string]interface{} { return e.Data }
func (e Envelope) Timestamp() time.Time            { return e.OccurredAt }

func Encode(e Event) ([]byte, error) {
	return json.Marshal(Envelope{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()})
}

func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode event: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("decode event: missing type")
	}
	return env, nil
}

// String reads a string payload key, empty when absent.
func (e Envelope) String(key string) string {
	v, _ := e.Data[key].(string)
	return v
}
