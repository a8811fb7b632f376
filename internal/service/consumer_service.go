package service

import (
	"context"
	"time"

	"ai-admissions-be/internal/entity"
	"ai-admissions-be/internal/pkg/logger"
	"ai-admissions-be/internal/pkg/mailer"
	"ai-admissions-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService reacts to contact events off the request path: it emails
// the admissions advisor and forwards the event to other services.
type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	emailService mailer.IEmailService
	advisorEmail string
	forwarder    events.Publisher
	logger       logger.ILogger

	notifyAttempts int
	notifyBackoff  time.Duration
}

const (
	defaultNotifyAttempts = 3
	defaultNotifyBackoff  = 500 * time.Millisecond
	maxNotifyBackoff      = 5 * time.Second
)

type ConsumerOption func(*consumerService)

// WithNotifyRetry bounds how many times the advisor email is attempted per
// event. The wait between attempts starts at backoff and doubles.
func WithNotifyRetry(attempts int, backoff time.Duration) ConsumerOption {
	return func(cs *consumerService) {
		if attempts > 0 {
			cs.notifyAttempts = attempts
		}
		if backoff >= 0 {
			cs.notifyBackoff = backoff
		}
	}
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	emailService mailer.IEmailService,
	advisorEmail string,
	forwarder events.Publisher,
	log logger.ILogger,
	opts ...ConsumerOption,
) IConsumerService {
	if forwarder == nil {
		forwarder = events.NopPublisher{}
	}
	cs := &consumerService{
		subscriber:     subscriber,
		topicName:      topicName,
		emailService:   emailService,
		advisorEmail:   advisorEmail,
		forwarder:      forwarder,
		logger:         log,
		notifyAttempts: defaultNotifyAttempts,
		notifyBackoff:  defaultNotifyBackoff,
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	env, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("EVENTS", "Dropping undecodable message", map[string]interface{}{"uuid": msg.UUID, "error": err.Error()})
		// invalid payloads would be redelivered forever
		msg.Ack()
		return
	}

	if env.EventType() != events.TypeContactCreated {
		msg.Ack()
		return
	}

	record := contactFromEvent(env)

	if cs.emailService != nil && cs.advisorEmail != "" {
		if err := cs.notifyAdvisor(ctx, record); err != nil {
			if ctx.Err() != nil {
				// shutting down, let the bus redeliver later
				msg.Nack()
				return
			}
			cs.logger.Error("EVENTS", "Giving up on advisor notification", map[string]interface{}{
				"contact_id": record.Id,
				"attempts":   cs.notifyAttempts,
				"error":      err.Error(),
			})
		}
	}

	fwdCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cs.forwarder.Publish(fwdCtx, env); err != nil {
		cs.logger.Warn("EVENTS", "Failed to forward contact event", map[string]interface{}{
			"contact_id": record.Id,
			"error":      err.Error(),
		})
	}

	cs.logger.Info("EVENTS", "Contact event processed", map[string]interface{}{"contact_id": record.Id})
	msg.Ack()
}

func (cs *consumerService) notifyAdvisor(ctx context.Context, record *entity.ContactRecord) error {
	wait := cs.notifyBackoff
	var err error
	for attempt := 1; attempt <= cs.notifyAttempts; attempt++ {
		if err = cs.emailService.SendContactNotification(cs.advisorEmail, record); err == nil {
			return nil
		}
		cs.logger.Warn("EVENTS", "Advisor notification failed", map[string]interface{}{
			"contact_id": record.Id,
			"attempt":    attempt,
			"error":      err.Error(),
		})
		if attempt == cs.notifyAttempts {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if wait *= 2; wait > maxNotifyBackoff {
			wait = maxNotifyBackoff
		}
	}
	return err
}

func contactFromEvent(env events.Envelope) *entity.ContactRecord {
	record := &entity.ContactRecord{
		Name:      env.String("name"),
		Email:     env.String("email"),
		Phone:     env.String("phone"),
		Program:   env.String("program"),
		Note:      env.String("note"),
		SessionId: env.String("session_id"),
		Status:    entity.ContactStatusNew,
		Source:    entity.ContactSourceChat,
		CreatedAt: env.Timestamp(),
	}
	if id, ok := env.Payload()["id"].(float64); ok {
		record.Id = int64(id)
	}
	return record
}
