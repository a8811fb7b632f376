package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-admissions-be/internal/entity"
	"ai-admissions-be/internal/pkg/logger"
	"ai-admissions-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu       sync.Mutex
	sent     []*entity.ContactRecord
	fails    int
	attempts int
}

func (m *fakeMailer) SendContactNotification(_ string, c *entity.ContactRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.fails < 0 {
		return errors.New("smtp unreachable")
	}
	if m.fails > 0 {
		m.fails--
		return errors.New("smtp timeout")
	}
	m.sent = append(m.sent, c)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) tries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestConsumerService_NotifiesAdvisorAndForwards(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	mail := &fakeMailer{fails: 1}
	forward := &capturePublisher{}
	consumer := NewConsumerService(pubSub, "contacts", mail, "admissions@ecole.fr", forward, logger.NewNopLogger(), WithNotifyRetry(3, time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	publisher := events.NewWatermillPublisher(pubSub, "contacts")
	require.NoError(t, publisher.Publish(ctx, events.ContactCreated(4, "Jean Dupont", "jean@test.com", "+33612345678", "Data Science", "", "01234567", time.Now())))

	// first attempt fails on SMTP and succeeds on retry
	assert.Eventually(t, func() bool { return mail.count() == 1 && forward.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	mail.mu.Lock()
	got := mail.sent[0]
	mail.mu.Unlock()
	assert.Equal(t, int64(4), got.Id)
	assert.Equal(t, "jean@test.com", got.Email)
	assert.Equal(t, "01234567", got.SessionId)
}

func TestConsumerService_NotifyRetryIsBounded(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
	}{
		{name: "single attempt", attempts: 1},
		{name: "three attempts", attempts: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
			defer pubSub.Close()

			mail := &fakeMailer{fails: -1}
			forward := &capturePublisher{}
			consumer := NewConsumerService(pubSub, "contacts", mail, "admissions@ecole.fr", forward, logger.NewNopLogger(),
				WithNotifyRetry(tt.attempts, time.Millisecond))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			require.NoError(t, consumer.Consume(ctx))

			publisher := events.NewWatermillPublisher(pubSub, "contacts")
			require.NoError(t, publisher.Publish(ctx, events.ContactCreated(9, "Ana", "ana@test.com", "", "", "", "s-9", time.Now())))

			// the event is acked and forwarded once the attempts run out
			assert.Eventually(t, func() bool { return forward.count() == 1 }, 2*time.Second, 5*time.Millisecond)
			time.Sleep(50 * time.Millisecond)
			assert.Equal(t, tt.attempts, mail.tries())
			assert.Equal(t, 1, forward.count())
			assert.Zero(t, mail.count())
		})
	}
}
