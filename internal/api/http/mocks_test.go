package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"borrowhub-backend/internal/domain"
	"borrowhub-backend/internal/service"
)

// MockRentalService
type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) CreateRental(ctx context.Context, input service.CreateRentalInput) (*domain.Rental, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) ApproveRental(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, ownerID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) RejectRental(ctx context.Context, ownerID, rentalID int32, reason string) (*domain.Rental, error) {
	args := m.Called(ctx, ownerID, rentalID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) CancelRental(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, renterID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, userID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) ListRentals(ctx context.Context, userID int32, role, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, userID, role, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalService) ExpireStalePending(ctx context.Context) (service.SweepResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.SweepResult), args.Error(1)
}
