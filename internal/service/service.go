package service

import (
	"context"
	"time"

	"borrowhub-backend/internal/domain"
)

// CreateRentalInput is the renter's booking request.
type CreateRentalInput struct {
	ItemID     int32  `json:"item_id"`
	RenterID   int32  `json:"-"`
	OwnerID    int32  `json:"owner_id"`
	StartDate  string `json:"start_date"`  // yyyy-mm-dd
	EndDate    string `json:"end_date"`    // yyyy-mm-dd, end-exclusive
	PickupTime string `json:"pickup_time"` // HH:MM
}

// SweepResult summarizes one full expiration pass over pending rentals.
type SweepResult struct {
	Scanned   int
	Expired   int
	Conflicts int // conditional updates lost to a concurrent approve/reject
}

type RentalService interface {
	CreateRental(ctx context.Context, input CreateRentalInput) (*domain.Rental, error)
	ApproveRental(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error)
	RejectRental(ctx context.Context, ownerID, rentalID int32, reason string) (*domain.Rental, error)
	CancelRental(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error)
	GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error)
	ListRentals(ctx context.Context, userID int32, role, status string, page, pageSize int32) ([]domain.Rental, int32, error)

	// ExpireStalePending is the recurring sweep: every PENDING rental whose
	// pickup cutoff has passed is conditionally transitioned to EXPIRED.
	// Safe to run from concurrent replicas.
	ExpireStalePending(ctx context.Context) (SweepResult, error)
}

// OpenDisputeInput is the owner's return-time claim.
type OpenDisputeInput struct {
	RentalID    int32              `json:"rental_id"`
	IssueTypes  []domain.IssueType `json:"issue_types"`
	Observation string             `json:"observation"`
	Photos      []string           `json:"photos"`
}

type DisputeService interface {
	OpenDispute(ctx context.Context, ownerID int32, input OpenDisputeInput) (*domain.Dispute, error)
	ResolveDispute(ctx context.Context, adminID, disputeID, deductionPct int32) (*domain.Dispute, error)
	GetDispute(ctx context.Context, userID, disputeID int32) (*domain.Dispute, error)
	ListMyDisputes(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Dispute, int32, error)
}

// NotificationService is the dispatcher consumed by the lifecycle components
// plus the inbox surface behind the REST API. Dispatch is fire-and-forget:
// a delivery failure is logged and swallowed, never surfaced to the caller of
// a state transition.
type NotificationService interface {
	Dispatch(ctx context.Context, userID int32, ntype domain.NotificationType, title, message string, relatedID int32)
	List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
	PruneRead(ctx context.Context, retentionDays int32) (int64, error)
}

// EmailService is the optional email channel of the dispatcher.
type EmailService interface {
	Send(ctx context.Context, toEmail, toName, subject, body string) error
}

// RentalPolicy carries the externally supplied money/time policy.
type RentalPolicy struct {
	ServiceFeePct  int32
	DepositPct     int32
	ExpirationLead time.Duration
}

// DisputePolicy carries the externally supplied dispute policy.
type DisputePolicy struct {
	SevereKeywords    []string
	AutoFlagThreshold int32
}
