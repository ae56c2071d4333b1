package service

import (
	"context"
	"encoding/json"
	"time"

	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/mailer"
	"airicepest-be/internal/pkg/serverutils"
	"airicepest-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const relayPublishTimeout = 5 * time.Second

// IEventPublisher emits domain events. Publishing is best effort and never
// fails the caller.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type eventPublisher struct {
	publisher message.Publisher
	topic     string
	logger    logger.ILogger
}

func NewEventPublisher(publisher message.Publisher, topic string, log logger.ILogger) IEventPublisher {
	return &eventPublisher{publisher: publisher, topic: topic, logger: log}
}

func (p *eventPublisher) Publish(ctx context.Context, event events.Event) {
	payload, err := json.Marshal(events.New(event.EventType(), event.Timestamp(), event.Payload()))
	if err != nil {
		p.logger.Error("EVENTS", "Failed to marshal event", map[string]interface{}{"error": err, "type": event.EventType()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Warn("EVENTS", "Failed to publish event", map[string]interface{}{"error": err, "type": event.EventType()})
	}
}

type nopEventPublisher struct{}

// NewNopEventPublisher discards every event.
func NewNopEventPublisher() IEventPublisher {
	return nopEventPublisher{}
}

func (nopEventPublisher) Publish(context.Context, events.Event) {}

// EventBroadcaster pushes events to connected admin consoles.
type EventBroadcaster interface {
	Broadcast(event events.Event)
}

// RemotePublisher forwards events to an external stream such as NATS.
type RemotePublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IEventRelay interface {
	Consume(ctx context.Context) error
}

type eventRelay struct {
	subscriber message.Subscriber
	topic      string
	hub        EventBroadcaster
	remote     RemotePublisher
	mail       mailer.IEmailService
	logger     logger.ILogger
}

// NewEventRelay fans bus events out to the hub, the remote stream and the
// mailer. remote and mail may be nil.
func NewEventRelay(
	subscriber message.Subscriber,
	topic string,
	hub EventBroadcaster,
	remote RemotePublisher,
	mail mailer.IEmailService,
	log logger.ILogger,
) IEventRelay {
	return &eventRelay{
		subscriber: subscriber,
		topic:      topic,
		hub:        hub,
		remote:     remote,
		mail:       mail,
		logger:     log,
	}
}

func (r *eventRelay) Consume(ctx context.Context) error {
	messages, err := r.subscriber.Subscribe(ctx, r.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			r.processMessage(ctx, msg)
		}
	}()
	return nil
}

func (r *eventRelay) processMessage(ctx context.Context, msg *message.Message) {
	// Every outcome is acked; delivery is best effort and retries would only
	// duplicate websocket pushes and emails.
	defer msg.Ack()

	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		r.logger.Error("EVENTS", "Failed to unmarshal event", map[string]interface{}{"error": err, "message_id": msg.UUID})
		return
	}

	if r.hub != nil {
		r.hub.Broadcast(event)
	}

	if r.remote != nil {
		pubCtx, cancel := context.WithTimeout(ctx, relayPublishTimeout)
		if err := r.remote.Publish(pubCtx, event); err != nil {
			r.logger.Warn("EVENTS", "Failed to forward event to NATS", map[string]interface{}{"error": err, "type": event.Type})
		}
		cancel()
	}

	if event.Type == events.FeedbackSubmitted {
		r.sendFeedbackReceipt(event)
	}
}

func (r *eventRelay) sendFeedbackReceipt(event events.BaseEvent) {
	if r.mail == nil {
		return
	}
	contact, _ := event.Data["contact"].(string)
	if !serverutils.IsEmail(contact) {
		return
	}
	username, _ := event.Data["username"].(string)
	label, _ := event.Data["type_label"].(string)

	if err := r.mail.SendFeedbackReceipt(contact, username, label); err != nil {
		r.logger.Warn("EVENTS", "Failed to send feedback receipt", map[string]interface{}{"error": err})
		return
	}
	r.logger.Info("EVENTS", "Feedback receipt sent", map[string]interface{}{"feedback_id": event.Data["id"]})
}
