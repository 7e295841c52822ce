package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"borrowhub-backend/internal/domain"
)

func newTestRentalService(rentalRepo *MockRentalRepo, itemRepo *MockItemRepo, notifier *recordingNotifier) *rentalService {
	svc := NewRentalService(rentalRepo, itemRepo, notifier, RentalPolicy{
		ServiceFeePct:  10,
		DepositPct:     20,
		ExpirationLead: 60 * time.Minute,
	}).(*rentalService)
	return svc
}

func TestCreateRental(t *testing.T) {
	ctx := context.Background()

	item := &domain.Item{
		ID:               2,
		OwnerID:          10,
		Name:             "Cordless drill",
		PricePerDayCents: 2000,
		ValueCents:       50000,
		DiscountWeekPct:  10,
		DiscountMonthPct: 20,
	}

	t.Run("Success", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		itemRepo := new(MockItemRepo)
		svc := newTestRentalService(rentalRepo, itemRepo, &recordingNotifier{})

		itemRepo.On("GetByID", ctx, int32(2)).Return(item, nil)
		rentalRepo.On("Create", ctx, mock.AnythingOfType("*domain.Rental")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Rental).ID = 1
			}).Return(nil)

		rt, err := svc.CreateRental(ctx, CreateRentalInput{
			ItemID:     2,
			RenterID:   3,
			StartDate:  "2026-03-01",
			EndDate:    "2026-03-11",
			PickupTime: "10:00",
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.RentalStatusPending, rt.Status)
		assert.Equal(t, int32(10), rt.TotalDays)
		assert.Equal(t, int32(20000), rt.SubtotalCents)
		assert.Equal(t, int32(2000), rt.ServiceFeeCents)
		assert.Equal(t, int32(22000), rt.TotalAmountCents)
		assert.Equal(t, int32(10000), rt.DepositAmountCents)
		// The owner payout is not set until approval.
		assert.Equal(t, int32(0), rt.OwnerAmountCents)
		assert.Empty(t, rt.OwnerCode)
		assert.Empty(t, rt.RenterCode)
		rentalRepo.AssertExpectations(t)
	})

	t.Run("ReversedDates", func(t *testing.T) {
		svc := newTestRentalService(new(MockRentalRepo), new(MockItemRepo), &recordingNotifier{})
		_, err := svc.CreateRental(ctx, CreateRentalInput{
			ItemID: 2, RenterID: 3,
			StartDate: "2026-03-11", EndDate: "2026-03-01", PickupTime: "10:00",
		})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("BadPickupTime", func(t *testing.T) {
		svc := newTestRentalService(new(MockRentalRepo), new(MockItemRepo), &recordingNotifier{})
		_, err := svc.CreateRental(ctx, CreateRentalInput{
			ItemID: 2, RenterID: 3,
			StartDate: "2026-03-01", EndDate: "2026-03-02", PickupTime: "10am",
		})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("CannotRentOwnItem", func(t *testing.T) {
		itemRepo := new(MockItemRepo)
		itemRepo.On("GetByID", ctx, int32(2)).Return(item, nil)
		svc := newTestRentalService(new(MockRentalRepo), itemRepo, &recordingNotifier{})

		_, err := svc.CreateRental(ctx, CreateRentalInput{
			ItemID: 2, RenterID: item.OwnerID,
			StartDate: "2026-03-01", EndDate: "2026-03-02", PickupTime: "10:00",
		})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("OwnerMismatch", func(t *testing.T) {
		itemRepo := new(MockItemRepo)
		itemRepo.On("GetByID", ctx, int32(2)).Return(item, nil)
		svc := newTestRentalService(new(MockRentalRepo), itemRepo, &recordingNotifier{})

		_, err := svc.CreateRental(ctx, CreateRentalInput{
			ItemID: 2, RenterID: 3, OwnerID: 99,
			StartDate: "2026-03-01", EndDate: "2026-03-02", PickupTime: "10:00",
		})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("ItemNotFound", func(t *testing.T) {
		itemRepo := new(MockItemRepo)
		itemRepo.On("GetByID", ctx, int32(2)).Return(nil, domain.ErrNotFound)
		svc := newTestRentalService(new(MockRentalRepo), itemRepo, &recordingNotifier{})

		_, err := svc.CreateRental(ctx, CreateRentalInput{
			ItemID: 2, RenterID: 3,
			StartDate: "2026-03-01", EndDate: "2026-03-02", PickupTime: "10:00",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestApproveRental(t *testing.T) {
	ctx := context.Background()

	pending := &domain.Rental{
		ID: 1, ItemID: 2, OwnerID: 10, RenterID: 3,
		StartDate: "2026-03-01", EndDate: "2026-03-11", PickupTime: "10:00",
		TotalDays: 10, Status: domain.RentalStatusPending,
	}
	item := &domain.Item{
		ID: 2, OwnerID: 10, Name: "Cordless drill",
		PricePerDayCents: 2000, ValueCents: 50000,
		DiscountWeekPct: 10, DiscountMonthPct: 20,
	}

	t.Run("Success", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		itemRepo := new(MockItemRepo)
		notifier := &recordingNotifier{}
		svc := newTestRentalService(rentalRepo, itemRepo, notifier)

		approved := *pending
		approved.Status = domain.RentalStatusApproved
		approved.OwnerAmountCents = 18000

		rentalRepo.On("GetByID", ctx, int32(1)).Return(pending, nil).Once()
		itemRepo.On("GetByID", ctx, int32(2)).Return(item, nil)
		rentalRepo.On("UpdateConditional", ctx, int32(1), domain.RentalStatusPending,
			mock.MatchedBy(func(p *domain.RentalPatch) bool {
				return p.Status == domain.RentalStatusApproved &&
					p.OwnerCode != nil && len(*p.OwnerCode) == 6 &&
					p.RenterCode != nil && len(*p.RenterCode) == 6 &&
					p.OwnerAmountCents != nil && *p.OwnerAmountCents == 18000
			})).Return(true, nil)
		rentalRepo.On("GetByID", ctx, int32(1)).Return(&approved, nil).Once()

		rt, err := svc.ApproveRental(ctx, 10, 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.RentalStatusApproved, rt.Status)
		assert.Equal(t, int32(18000), rt.OwnerAmountCents)

		if assert.Len(t, notifier.dispatched, 1) {
			assert.Equal(t, int32(3), notifier.dispatched[0].UserID)
			assert.Equal(t, domain.NotificationRentalApproved, notifier.dispatched[0].Type)
		}
		rentalRepo.AssertExpectations(t)
	})

	t.Run("NotTheOwner", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		rentalRepo.On("GetByID", ctx, int32(1)).Return(pending, nil)
		svc := newTestRentalService(rentalRepo, new(MockItemRepo), &recordingNotifier{})

		_, err := svc.ApproveRental(ctx, 99, 1)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("LostRaceToSweeper", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		itemRepo := new(MockItemRepo)
		svc := newTestRentalService(rentalRepo, itemRepo, &recordingNotifier{})

		rentalRepo.On("GetByID", ctx, int32(1)).Return(pending, nil)
		itemRepo.On("GetByID", ctx, int32(2)).Return(item, nil)
		rentalRepo.On("UpdateConditional", ctx, int32(1), domain.RentalStatusPending, mock.Anything).
			Return(false, nil)

		_, err := svc.ApproveRental(ctx, 10, 1)
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	})
}

func TestRejectRental(t *testing.T) {
	ctx := context.Background()

	pending := &domain.Rental{
		ID: 1, ItemID: 2, OwnerID: 10, RenterID: 3,
		Status: domain.RentalStatusPending,
	}

	t.Run("Success", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		notifier := &recordingNotifier{}
		svc := newTestRentalService(rentalRepo, new(MockItemRepo), notifier)

		rejected := *pending
		rejected.Status = domain.RentalStatusRejected
		rejected.RejectionReason = "tool is out for repair"

		rentalRepo.On("GetByID", ctx, int32(1)).Return(pending, nil).Once()
		rentalRepo.On("UpdateConditional", ctx, int32(1), domain.RentalStatusPending,
			mock.MatchedBy(func(p *domain.RentalPatch) bool {
				return p.Status == domain.RentalStatusRejected &&
					p.RejectionReason != nil && *p.RejectionReason == "tool is out for repair"
			})).Return(true, nil)
		rentalRepo.On("GetByID", ctx, int32(1)).Return(&rejected, nil).Once()

		rt, err := svc.RejectRental(ctx, 10, 1, "tool is out for repair")
		assert.NoError(t, err)
		assert.Equal(t, domain.RentalStatusRejected, rt.Status)
		if assert.Len(t, notifier.dispatched, 1) {
			assert.Equal(t, domain.NotificationRentalRejected, notifier.dispatched[0].Type)
		}
	})

	t.Run("EmptyReason", func(t *testing.T) {
		svc := newTestRentalService(new(MockRentalRepo), new(MockItemRepo), &recordingNotifier{})
		_, err := svc.RejectRental(ctx, 10, 1, "")
		assert.True(t, domain.IsValidation(err))
	})
}

func TestCancelRental(t *testing.T) {
	ctx := context.Background()

	pending := &domain.Rental{
		ID: 1, ItemID: 2, OwnerID: 10, RenterID: 3,
		Status: domain.RentalStatusPending,
	}

	t.Run("OnlyRenterMayCancel", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		rentalRepo.On("GetByID", ctx, int32(1)).Return(pending, nil)
		svc := newTestRentalService(rentalRepo, new(MockItemRepo), &recordingNotifier{})

		_, err := svc.CancelRental(ctx, 10, 1)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("AlreadyApproved", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		rentalRepo.On("GetByID", ctx, int32(1)).Return(pending, nil)
		rentalRepo.On("UpdateConditional", ctx, int32(1), domain.RentalStatusPending, mock.Anything).
			Return(false, nil)
		svc := newTestRentalService(rentalRepo, new(MockItemRepo), &recordingNotifier{})

		_, err := svc.CancelRental(ctx, 3, 1)
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	})
}

func TestExpireStalePending(t *testing.T) {
	ctx := context.Background()

	// Pickup at 10:00 with a 60 minute lead: the rental goes stale at 09:00.
	stale := domain.Rental{
		ID: 1, ItemID: 2, OwnerID: 10, RenterID: 3,
		StartDate: "2026-03-05", PickupTime: "10:00",
		Status: domain.RentalStatusPending,
	}

	t.Run("BeforeCutoffNothingExpires", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		svc := newTestRentalService(rentalRepo, new(MockItemRepo), &recordingNotifier{})
		svc.now = func() time.Time {
			return time.Date(2026, 3, 5, 8, 59, 59, 0, time.Local)
		}

		rentalRepo.On("ListByStatus", ctx, domain.RentalStatusPending).
			Return([]domain.Rental{stale}, nil)

		res, err := svc.ExpireStalePending(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, res.Scanned)
		assert.Equal(t, 0, res.Expired)
		rentalRepo.AssertNotCalled(t, "UpdateConditional", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PastCutoffExpires", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		notifier := &recordingNotifier{}
		svc := newTestRentalService(rentalRepo, new(MockItemRepo), notifier)
		svc.now = func() time.Time {
			return time.Date(2026, 3, 5, 9, 0, 1, 0, time.Local)
		}

		rentalRepo.On("ListByStatus", ctx, domain.RentalStatusPending).
			Return([]domain.Rental{stale}, nil)
		rentalRepo.On("UpdateConditional", ctx, int32(1), domain.RentalStatusPending,
			mock.MatchedBy(func(p *domain.RentalPatch) bool {
				return p.Status == domain.RentalStatusExpired && p.RejectionReason != nil
			})).Return(true, nil)

		res, err := svc.ExpireStalePending(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, res.Scanned)
		assert.Equal(t, 1, res.Expired)
		assert.Equal(t, 0, res.Conflicts)
		if assert.Len(t, notifier.dispatched, 1) {
			assert.Equal(t, domain.NotificationRentalExpired, notifier.dispatched[0].Type)
			assert.Equal(t, int32(3), notifier.dispatched[0].UserID)
		}
	})

	t.Run("LostRaceCountsAsConflict", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		notifier := &recordingNotifier{}
		svc := newTestRentalService(rentalRepo, new(MockItemRepo), notifier)
		svc.now = func() time.Time {
			return time.Date(2026, 3, 5, 12, 0, 0, 0, time.Local)
		}

		rentalRepo.On("ListByStatus", ctx, domain.RentalStatusPending).
			Return([]domain.Rental{stale}, nil)
		rentalRepo.On("UpdateConditional", ctx, int32(1), domain.RentalStatusPending, mock.Anything).
			Return(false, nil)

		res, err := svc.ExpireStalePending(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 0, res.Expired)
		assert.Equal(t, 1, res.Conflicts)
		assert.Empty(t, notifier.dispatched)
	})

	t.Run("UnparsableScheduleIsSkipped", func(t *testing.T) {
		broken := stale
		broken.ID = 7
		broken.PickupTime = "25:99"

		rentalRepo := new(MockRentalRepo)
		svc := newTestRentalService(rentalRepo, new(MockItemRepo), &recordingNotifier{})
		svc.now = func() time.Time {
			return time.Date(2026, 3, 5, 12, 0, 0, 0, time.Local)
		}

		rentalRepo.On("ListByStatus", ctx, domain.RentalStatusPending).
			Return([]domain.Rental{broken}, nil)

		res, err := svc.ExpireStalePending(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, res.Scanned)
		assert.Equal(t, 0, res.Expired)
	})

	t.Run("CancelledContextStopsThePass", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		svc := newTestRentalService(rentalRepo, new(MockItemRepo), &recordingNotifier{})

		cancelled, cancel := context.WithCancel(context.Background())
		rentalRepo.On("ListByStatus", cancelled, domain.RentalStatusPending).
			Return([]domain.Rental{stale, stale}, nil)
		cancel()

		_, err := svc.ExpireStalePending(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("ListFailureIsDependencyError", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		svc := newTestRentalService(rentalRepo, new(MockItemRepo), &recordingNotifier{})

		rentalRepo.On("ListByStatus", ctx, domain.RentalStatusPending).
			Return(nil, errors.New("connection refused"))

		_, err := svc.ExpireStalePending(ctx)
		assert.Error(t, err)
		var depErr *domain.DependencyError
		assert.ErrorAs(t, err, &depErr)
	})
}
