package repository

import (
	"context"

	"borrowhub-backend/internal/domain"
)

// RentalRepository is the persistence gateway for rental rows. Every status
// transition goes through UpdateConditional: the write applies only if the
// row's current status matches expected, which is what makes concurrent
// owner/renter/sweeper actions safe.
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	// UpdateConditional applies patch iff the rental's status equals expected.
	// Returns false (and no error) when the row exists but the status check
	// lost the race.
	UpdateConditional(ctx context.Context, id int32, expected domain.RentalStatus, patch *domain.RentalPatch) (bool, error)
	ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
	ListByUser(ctx context.Context, userID int32, role string, status string, page, pageSize int32) ([]domain.Rental, int32, error)
}

type DisputeRepository interface {
	Create(ctx context.Context, dispute *domain.Dispute) error
	GetByID(ctx context.Context, id int32) (*domain.Dispute, error)
	// Resolve applies patch iff the dispute is still OPEN. Returns false when
	// it was already resolved or cancelled.
	Resolve(ctx context.Context, id int32, patch *domain.DisputePatch) (bool, error)
	Delete(ctx context.Context, id int32) error
	ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Dispute, int32, error)
}

type ItemRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	IncrementDisputeCount(ctx context.Context, userID int32) (int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
	DeleteReadOlderThan(ctx context.Context, days int32) (int64, error)
}
