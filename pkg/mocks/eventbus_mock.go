// Package mocks provides testify mocks for the engine's interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/juriflow/juriflow/pkg/eventbus"
	"github.com/juriflow/juriflow/pkg/events"
)

// MockEventBus is a mock implementation of the eventbus.EventBus interface.
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, key string, event eventbus.Event) error {
	args := m.Called(ctx, key, event)

	return args.Error(0)
}

func (m *MockEventBus) Handle(eventType events.EventType, handler eventbus.EventHandler) error {
	args := m.Called(eventType, handler)

	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockEventBus) Close() error {
	args := m.Called()

	return args.Error(0)
}

func (m *MockEventBus) GenerateID() string {
	args := m.Called()

	return args.String(0)
}

// PublisherSpy records published events without expectations, for tests that
// only care about what was emitted.
type PublisherSpy struct {
	Events []eventbus.Event
	Keys   []string
}

func (s *PublisherSpy) Publish(_ context.Context, key string, event eventbus.Event) error {
	s.Keys = append(s.Keys, key)
	s.Events = append(s.Events, event)

	return nil
}
