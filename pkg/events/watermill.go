package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// WatermillPublisher puts events on a watermill topic.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

var _ Publisher = &WatermillPublisher{}

func NewWatermillPublisher(publisher message.Publisher, topic string) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher, topic: topic}
}

func (p *WatermillPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", event.EventType())

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish %s on %s: %w", event.EventType(), p.topic, err)
	}
	return nil
}
