package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"faktura/internal/domain"
)

// MockStatusHistoryRepo is a mock implementation of port.StatusHistoryRepository.
type MockStatusHistoryRepo struct {
	mock.Mock
}

func (m *MockStatusHistoryRepo) Append(ctx context.Context, entry *domain.InvoiceStatusHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStatusHistoryRepo) ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]domain.InvoiceStatusHistory, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceStatusHistory), args.Error(1)
}
