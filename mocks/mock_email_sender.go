package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"faktura/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendInvite(ctx context.Context, email port.InviteEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
