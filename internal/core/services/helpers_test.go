package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/philodia/gescom-core/internal/core/domain"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// --- Mock EventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

var _ portssvc.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
