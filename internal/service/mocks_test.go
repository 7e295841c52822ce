package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"borrowhub-backend/internal/domain"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) UpdateConditional(ctx context.Context, id int32, expected domain.RentalStatus, patch *domain.RentalPatch) (bool, error) {
	args := m.Called(ctx, id, expected, patch)
	return args.Bool(0), args.Error(1)
}
func (m *MockRentalRepo) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListByUser(ctx context.Context, userID int32, role string, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, userID, role, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}

// MockDisputeRepo
type MockDisputeRepo struct {
	mock.Mock
}

func (m *MockDisputeRepo) Create(ctx context.Context, dispute *domain.Dispute) error {
	args := m.Called(ctx, dispute)
	return args.Error(0)
}
func (m *MockDisputeRepo) GetByID(ctx context.Context, id int32) (*domain.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}
func (m *MockDisputeRepo) Resolve(ctx context.Context, id int32, patch *domain.DisputePatch) (bool, error) {
	args := m.Called(ctx, id, patch)
	return args.Bool(0), args.Error(1)
}
func (m *MockDisputeRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockDisputeRepo) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Dispute, int32, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	return args.Get(0).([]domain.Dispute), args.Get(1).(int32), args.Error(2)
}

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) IncrementDisputeCount(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationRepo) DeleteReadOlderThan(ctx context.Context, days int32) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	args := m.Called(ctx, toEmail, toName, subject, body)
	return args.Error(0)
}

// recordingNotifier captures dispatched notifications without any delivery.
type recordingNotifier struct {
	dispatched []dispatchedNote
}

type dispatchedNote struct {
	UserID    int32
	Type      domain.NotificationType
	Title     string
	Message   string
	RelatedID int32
}

func (n *recordingNotifier) Dispatch(ctx context.Context, userID int32, ntype domain.NotificationType, title, message string, relatedID int32) {
	n.dispatched = append(n.dispatched, dispatchedNote{
		UserID: userID, Type: ntype, Title: title, Message: message, RelatedID: relatedID,
	})
}
func (n *recordingNotifier) List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	return nil, 0, nil
}
func (n *recordingNotifier) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return nil
}
func (n *recordingNotifier) PruneRead(ctx context.Context, retentionDays int32) (int64, error) {
	return 0, nil
}
