package services

import (
	"context"

	"github.com/philodia/gescom-core/internal/core/domain"
)

// EventPublisher delivers post-commit notifications. Publishing is best effort:
// callers log failures and never roll back a committed change because of them.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.Event) error { return nil }
