package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nefera/internal/port"
)

// MockChatBackend is a mock implementation of port.ChatBackend.
type MockChatBackend struct {
	mock.Mock
}

func (m *MockChatBackend) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockChatBackend) Complete(ctx context.Context, req port.ChatRequest) (*port.ChatResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ChatResponse), args.Error(1)
}
