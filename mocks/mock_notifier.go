package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendInterviewInvitation(ctx context.Context, candidateName string) error {
	args := m.Called(ctx, candidateName)
	return args.Error(0)
}

func (m *MockNotifier) SendRejectionNotice(ctx context.Context, candidateName string) error {
	args := m.Called(ctx, candidateName)
	return args.Error(0)
}
