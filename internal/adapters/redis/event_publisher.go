package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/philodia/gescom-core/internal/core/domain"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
)

// DefaultEventChannel is the Pub/Sub channel events are published on.
const DefaultEventChannel = "gescom.events"

// EventPublisher publishes domain events as JSON on a Redis Pub/Sub channel.
type EventPublisher struct {
	client  goredis.UniversalClient
	channel string
}

// EventPublisherOption is a functional option for configuring the publisher
type EventPublisherOption func(*EventPublisher)

// WithEventChannel sets the Pub/Sub channel name
func WithEventChannel(channel string) EventPublisherOption {
	return func(p *EventPublisher) {
		if channel != "" {
			p.channel = channel
		}
	}
}

// NewEventPublisher creates a publisher on an existing client. The caller keeps ownership of the client.
func NewEventPublisher(client goredis.UniversalClient, opts ...EventPublisherOption) *EventPublisher {
	p := &EventPublisher{client: client, channel: DefaultEventChannel}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ portssvc.EventPublisher = (*EventPublisher)(nil)

// Publish sends the event to every subscriber of the channel.
func (p *EventPublisher) Publish(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event %s on %s: %w", event.Type, p.channel, err)
	}
	return nil
}

// Subscribe delivers decoded events to handle until ctx is cancelled.
// Messages that do not decode are skipped.
func (p *EventPublisher) Subscribe(ctx context.Context, handle func(domain.Event)) error {
	pubsub := p.client.Subscribe(ctx, p.channel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", p.channel, err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			handle(event)
		}
	}
}
