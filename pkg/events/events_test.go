package events

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_EncodeDecode(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	raw, err := Encode(ContactCreated(7, "Jean Dupont", "jean@test.com", "+33612345678", "Data Science", "", "01234567", at))
	require.NoError(t, err)

	env, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeContactCreated, env.EventType())
	assert.Equal(t, "jean@test.com", env.String("email"))
	assert.Equal(t, float64(7), env.Payload()["id"])
	assert.True(t, at.Equal(env.Timestamp()))

	_, err = Decode([]byte(`{"payload":{}}`))
	assert.Error(t, err)
	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestWatermillPublisher_DeliversToTopic(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 1}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, "contacts")
	require.NoError(t, err)

	pub := NewWatermillPublisher(pubSub, "contacts")
	require.NoError(t, pub.Publish(ctx, ContactCreated(1, "A", "a@b.fr", "", "", "", "s", time.Now())))

	select {
	case msg := <-messages:
		assert.Equal(t, TypeContactCreated, msg.Metadata.Get("event_type"))
		env, err := Decode(msg.Payload)
		require.NoError(t, err)
		assert.Equal(t, "a@b.fr", env.String("email"))
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}
}
