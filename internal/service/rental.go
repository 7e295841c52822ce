package service

import (
	"context"
	"fmt"
	"time"

	"borrowhub-backend/internal/domain"
	"borrowhub-backend/internal/logger"
	"borrowhub-backend/internal/repository"
	"borrowhub-backend/internal/security"
	"borrowhub-backend/internal/utils"
)

const expiredReason = "owner did not respond in time"

type rentalService struct {
	rentalRepo repository.RentalRepository
	itemRepo   repository.ItemRepository
	notifier   NotificationService
	policy     RentalPolicy

	// now is the injected time source; the sweep cutoff logic must be
	// deterministic under test.
	now func() time.Time
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	itemRepo repository.ItemRepository,
	notifier NotificationService,
	policy RentalPolicy,
) RentalService {
	return &rentalService{
		rentalRepo: rentalRepo,
		itemRepo:   itemRepo,
		notifier:   notifier,
		policy:     policy,
		now:        time.Now,
	}
}

func (s *rentalService) CreateRental(ctx context.Context, input CreateRentalInput) (*domain.Rental, error) {
	if input.RenterID == 0 {
		return nil, domain.NewValidationError("renter_id", "must be set")
	}
	if input.ItemID == 0 {
		return nil, domain.NewValidationError("item_id", "must be set")
	}
	if _, err := time.Parse("15:04", input.PickupTime); err != nil {
		return nil, domain.NewValidationError("pickup_time", "must be HH:MM")
	}

	days, err := utils.RentalDays(input.StartDate, input.EndDate)
	if err != nil {
		return nil, domain.NewValidationError("dates", err.Error())
	}

	item, err := s.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if input.OwnerID != 0 && input.OwnerID != item.OwnerID {
		return nil, domain.NewValidationError("owner_id", "does not match the item's owner")
	}
	if input.RenterID == item.OwnerID {
		return nil, domain.NewValidationError("renter_id", "cannot rent your own item")
	}

	subtotal := utils.SubtotalCents(item.PricePerDayCents, days)
	fee := utils.ServiceFeeCents(subtotal, s.policy.ServiceFeePct)

	rental := &domain.Rental{
		ItemID:             item.ID,
		OwnerID:            item.OwnerID,
		RenterID:           input.RenterID,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		PickupTime:         input.PickupTime,
		TotalDays:          days,
		SubtotalCents:      subtotal,
		ServiceFeeCents:    fee,
		TotalAmountCents:   subtotal + fee,
		DepositAmountCents: utils.DepositCents(item.ValueCents, s.policy.DepositPct),
		Status:             domain.RentalStatusPending,
	}

	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, domain.NewDependencyError("create rental", err)
	}

	logger.Info("Rental request created",
		"rental_id", rental.ID, "item_id", rental.ItemID,
		"renter_id", rental.RenterID, "total_cents", rental.TotalAmountCents)
	return rental, nil
}

func (s *rentalService) ApproveRental(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}

	item, err := s.itemRepo.GetByID(ctx, rt.ItemID)
	if err != nil {
		return nil, err
	}

	ownerCode, err := security.GenerateHandoffCode()
	if err != nil {
		return nil, domain.NewDependencyError("generate owner code", err)
	}
	renterCode, err := security.GenerateHandoffCode()
	if err != nil {
		return nil, domain.NewDependencyError("generate renter code", err)
	}

	// Owner payout is computed once here and is immutable afterwards; later
	// pricing-policy changes never touch an already approved rental.
	ownerAmount := utils.OwnerAmountCents(item.PricePerDayCents, rt.TotalDays, item.DiscountWeekPct, item.DiscountMonthPct)

	patch := &domain.RentalPatch{
		Status:           domain.RentalStatusApproved,
		OwnerCode:        &ownerCode,
		RenterCode:       &renterCode,
		OwnerAmountCents: &ownerAmount,
	}
	ok, err := s.rentalRepo.UpdateConditional(ctx, rentalID, domain.RentalStatusPending, patch)
	if err != nil {
		return nil, domain.NewDependencyError("approve rental", err)
	}
	if !ok {
		// Lost the race: the sweeper expired it or a concurrent reject won.
		return nil, domain.ErrPreconditionFailed
	}

	logger.Info("Rental approved",
		"rental_id", rt.ID, "owner_id", ownerID, "owner_amount_cents", ownerAmount)

	s.notifier.Dispatch(ctx, rt.RenterID, domain.NotificationRentalApproved,
		"Rental approved",
		fmt.Sprintf("Your rental request for %s was approved. Your return code is %s.", item.Name, renterCode),
		rt.ID)

	return s.rentalRepo.GetByID(ctx, rentalID)
}

func (s *rentalService) RejectRental(ctx context.Context, ownerID, rentalID int32, reason string) (*domain.Rental, error) {
	if reason == "" {
		return nil, domain.NewValidationError("reason", "must not be empty")
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}

	patch := &domain.RentalPatch{
		Status:          domain.RentalStatusRejected,
		RejectionReason: &reason,
	}
	ok, err := s.rentalRepo.UpdateConditional(ctx, rentalID, domain.RentalStatusPending, patch)
	if err != nil {
		return nil, domain.NewDependencyError("reject rental", err)
	}
	if !ok {
		return nil, domain.ErrPreconditionFailed
	}

	logger.Info("Rental rejected", "rental_id", rt.ID, "owner_id", ownerID)

	s.notifier.Dispatch(ctx, rt.RenterID, domain.NotificationRentalRejected,
		"Rental rejected",
		fmt.Sprintf("Your rental request was rejected: %s", reason),
		rt.ID)

	return s.rentalRepo.GetByID(ctx, rentalID)
}

func (s *rentalService) CancelRental(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.RenterID != renterID {
		return nil, domain.ErrUnauthorized
	}

	// Cancellation is only supported while the request is pending; once the
	// owner approved there is no refund policy in this service.
	patch := &domain.RentalPatch{Status: domain.RentalStatusCancelled}
	ok, err := s.rentalRepo.UpdateConditional(ctx, rentalID, domain.RentalStatusPending, patch)
	if err != nil {
		return nil, domain.NewDependencyError("cancel rental", err)
	}
	if !ok {
		return nil, domain.ErrPreconditionFailed
	}

	logger.Info("Rental cancelled", "rental_id", rt.ID, "renter_id", renterID)
	return s.rentalRepo.GetByID(ctx, rentalID)
}

func (s *rentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.RenterID != userID && rt.OwnerID != userID {
		return nil, domain.ErrUnauthorized
	}
	return rt, nil
}

func (s *rentalService) ListRentals(ctx context.Context, userID int32, role, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.rentalRepo.ListByUser(ctx, userID, role, status, page, pageSize)
}

// ExpireStalePending scans all PENDING rentals and expires the stale ones.
// The sweep is total over the pending set each pass, so a missed run is
// caught up by the next one. Each write is conditioned on the status still
// being PENDING, which makes concurrent sweeps and owner actions converge.
func (s *rentalService) ExpireStalePending(ctx context.Context) (SweepResult, error) {
	var res SweepResult

	pending, err := s.rentalRepo.ListByStatus(ctx, domain.RentalStatusPending)
	if err != nil {
		return res, domain.NewDependencyError("list pending rentals", err)
	}
	res.Scanned = len(pending)
	now := s.now()

	for i := range pending {
		rt := &pending[i]
		if ctx.Err() != nil {
			// Per-pass timeout hit; the remainder is picked up next run.
			return res, ctx.Err()
		}

		cutoff, err := s.pickupCutoff(rt)
		if err != nil {
			logger.Error("Skipping rental with unparsable schedule",
				"rental_id", rt.ID, "start_date", rt.StartDate, "pickup_time", rt.PickupTime, "error", err)
			continue
		}
		if now.Before(cutoff) {
			continue
		}

		reason := expiredReason
		patch := &domain.RentalPatch{
			Status:          domain.RentalStatusExpired,
			RejectionReason: &reason,
		}
		ok, err := s.rentalRepo.UpdateConditional(ctx, rt.ID, domain.RentalStatusPending, patch)
		if err != nil {
			logger.Error("Failed to expire rental", "rental_id", rt.ID, "error", err)
			continue
		}
		if !ok {
			// Approved, rejected or cancelled between the scan and the write.
			res.Conflicts++
			continue
		}
		res.Expired++

		logger.Info("Rental expired", "rental_id", rt.ID, "cutoff", cutoff)
		s.notifier.Dispatch(ctx, rt.RenterID, domain.NotificationRentalExpired,
			"Rental request expired",
			"The owner did not respond in time, so your rental request has expired.",
			rt.ID)
	}
	return res, nil
}

// pickupCutoff is the moment a pending rental becomes stale: the scheduled
// pickup datetime minus the configured lead time.
func (s *rentalService) pickupCutoff(rt *domain.Rental) (time.Time, error) {
	pickup, err := time.ParseInLocation("2006-01-02 15:04", rt.StartDate+" "+rt.PickupTime, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return pickup.Add(-s.policy.ExpirationLead), nil
}
