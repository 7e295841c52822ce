package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"borrowhub-backend/internal/domain"
	"borrowhub-backend/internal/logger"
	"borrowhub-backend/internal/metrics"
	"borrowhub-backend/internal/repository"
	"borrowhub-backend/internal/utils"
)

const (
	maxObservationLen = 500
	maxDisputePhotos  = 5
)

type disputeService struct {
	disputeRepo repository.DisputeRepository
	rentalRepo  repository.RentalRepository
	userRepo    repository.UserRepository
	notifier    NotificationService
	policy      DisputePolicy

	now func() time.Time
}

func NewDisputeService(
	disputeRepo repository.DisputeRepository,
	rentalRepo repository.RentalRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	policy DisputePolicy,
) DisputeService {
	return &disputeService{
		disputeRepo: disputeRepo,
		rentalRepo:  rentalRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		policy:      policy,
		now:         time.Now,
	}
}

// ScoreSeverity computes the advisory severity of a claim. It is a pure
// function of the issue set and observation text; the resolving admin is free
// to pick any deduction regardless of it. Precedence, first match wins:
//
//  1. not-returned                          -> SEVERE
//  2. damaged + a severe keyword in text    -> SEVERE
//  3. damaged or incomplete                 -> MINOR
//  4. dirty only                            -> OK
//  5. anything else                         -> MINOR
func ScoreSeverity(issueTypes []domain.IssueType, observation string, severeKeywords []string) domain.Severity {
	has := make(map[domain.IssueType]bool, len(issueTypes))
	for _, t := range issueTypes {
		has[t] = true
	}

	if has[domain.IssueTypeNotReturned] {
		return domain.SeveritySevere
	}
	if has[domain.IssueTypeDamaged] {
		lower := strings.ToLower(observation)
		for _, kw := range severeKeywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return domain.SeveritySevere
			}
		}
	}
	if has[domain.IssueTypeDamaged] || has[domain.IssueTypeIncomplete] {
		return domain.SeverityMinor
	}
	if has[domain.IssueTypeDirty] && len(has) == 1 {
		return domain.SeverityOK
	}
	return domain.SeverityMinor
}

func (s *disputeService) OpenDispute(ctx context.Context, ownerID int32, input OpenDisputeInput) (*domain.Dispute, error) {
	if err := validateClaim(input); err != nil {
		return nil, err
	}

	rt, err := s.rentalRepo.GetByID(ctx, input.RentalID)
	if err != nil {
		return nil, err
	}
	if rt.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}
	// A claim is only reviewable in the return window, i.e. while the item
	// is out with the renter.
	if rt.Status != domain.RentalStatusActive {
		return nil, domain.ErrPreconditionFailed
	}

	dispute := &domain.Dispute{
		RentalID:         rt.ID,
		ItemID:           rt.ItemID,
		OwnerID:          rt.OwnerID,
		RenterID:         rt.RenterID,
		IssueTypes:       input.IssueTypes,
		Observation:      input.Observation,
		Photos:           input.Photos,
		ComputedSeverity: ScoreSeverity(input.IssueTypes, input.Observation, s.policy.SevereKeywords),
		// Snapshot: later changes to the rental or deposit policy must not
		// move the adjudicated amount.
		DepositAmountCents: rt.DepositAmountCents,
		Status:             domain.DisputeStatusOpen,
	}
	if err := s.disputeRepo.Create(ctx, dispute); err != nil {
		return nil, domain.NewDependencyError("create dispute", err)
	}

	ok, err := s.rentalRepo.UpdateConditional(ctx, rt.ID, domain.RentalStatusActive,
		&domain.RentalPatch{Status: domain.RentalStatusDisputeOpen})
	if err != nil {
		return nil, domain.NewDependencyError("mark rental disputed", err)
	}
	if !ok {
		// The rental left ACTIVE between the read and the write; undo the
		// orphan dispute row and report the conflict.
		if delErr := s.disputeRepo.Delete(ctx, dispute.ID); delErr != nil {
			logger.Error("Failed to remove orphan dispute", "dispute_id", dispute.ID, "error", delErr)
		}
		return nil, domain.ErrPreconditionFailed
	}

	logger.Info("Dispute opened",
		"dispute_id", dispute.ID, "rental_id", rt.ID,
		"computed_severity", dispute.ComputedSeverity, "deposit_cents", dispute.DepositAmountCents)

	s.notifier.Dispatch(ctx, rt.RenterID, domain.NotificationDisputeCreated,
		"Deposit under review",
		"The owner reported an issue with the returned item. Your deposit is on hold until an admin reviews the claim.",
		dispute.ID)

	return dispute, nil
}

func (s *disputeService) ResolveDispute(ctx context.Context, adminID, disputeID, deductionPct int32) (*domain.Dispute, error) {
	switch deductionPct {
	case domain.DeductionNone, domain.DeductionPartial, domain.DeductionFull:
	default:
		return nil, domain.NewValidationError("deduction_percentage", "must be 0, 30 or 100")
	}

	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin {
		return nil, domain.ErrUnauthorized
	}

	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status != domain.DisputeStatusOpen {
		return nil, domain.ErrPreconditionFailed
	}

	deduction, refund := utils.DepositSplitCents(dispute.DepositAmountCents, deductionPct)
	resolvedOn := s.now().Format(time.RFC3339)

	ok, err := s.disputeRepo.Resolve(ctx, disputeID, &domain.DisputePatch{
		Status:               domain.DisputeStatusResolved,
		ResolutionSeverity:   domain.SeverityForDeduction(deductionPct),
		DeductionPercentage:  deductionPct,
		DeductionAmountCents: deduction,
		RefundAmountCents:    refund,
		AdminReviewed:        true,
		ResolvedOn:           resolvedOn,
	})
	if err != nil {
		return nil, domain.NewDependencyError("resolve dispute", err)
	}
	if !ok {
		// Another admin resolved it first.
		return nil, domain.ErrPreconditionFailed
	}

	resolution := fmt.Sprintf("Deposit split after review: %d%% (%d cents) deducted, %d cents refunded.",
		deductionPct, deduction, refund)
	rentalPatch := &domain.RentalPatch{
		Status:               domain.RentalStatusCompleted,
		DisputeResolution:    &resolution,
		DepositRefundedCents: &refund,
		DepositDeductedCents: &deduction,
	}
	ok, err = s.rentalRepo.UpdateConditional(ctx, dispute.RentalID, domain.RentalStatusDisputeOpen, rentalPatch)
	if err != nil {
		return nil, domain.NewDependencyError("complete disputed rental", err)
	}
	if !ok {
		// Only dispute resolution moves a rental out of DISPUTE_OPEN, so this
		// indicates outside interference with the row.
		logger.Error("Disputed rental was not in DISPUTE_OPEN at resolution",
			"dispute_id", disputeID, "rental_id", dispute.RentalID)
		return nil, domain.NewDependencyError("complete disputed rental",
			fmt.Errorf("rental %d no longer awaiting dispute resolution", dispute.RentalID))
	}

	metrics.DisputesResolved.WithLabelValues(strconv.Itoa(int(deductionPct))).Inc()
	logger.Info("Dispute resolved",
		"dispute_id", disputeID, "rental_id", dispute.RentalID, "admin_id", adminID,
		"deduction_pct", deductionPct, "deduction_cents", deduction, "refund_cents", refund)

	if deductionPct == domain.DeductionFull {
		count, err := s.userRepo.IncrementDisputeCount(ctx, dispute.RenterID)
		if err != nil {
			logger.Error("Failed to increment dispute count", "user_id", dispute.RenterID, "error", err)
		} else if count >= s.policy.AutoFlagThreshold {
			logger.Warn("Renter reached dispute threshold",
				"user_id", dispute.RenterID, "dispute_count", count, "threshold", s.policy.AutoFlagThreshold)
		}
	}

	s.notifier.Dispatch(ctx, dispute.RenterID, domain.NotificationDisputeResolved,
		"Deposit review finished",
		fmt.Sprintf("The review of your rental is finished: %d cents of your deposit were refunded and %d cents deducted.", refund, deduction),
		disputeID)

	return s.disputeRepo.GetByID(ctx, disputeID)
}

func (s *disputeService) GetDispute(ctx context.Context, userID, disputeID int32) (*domain.Dispute, error) {
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.OwnerID != userID && dispute.RenterID != userID {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || !user.IsAdmin {
			return nil, domain.ErrUnauthorized
		}
	}
	return dispute, nil
}

func (s *disputeService) ListMyDisputes(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Dispute, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.disputeRepo.ListByOwner(ctx, ownerID, page, pageSize)
}

func validateClaim(input OpenDisputeInput) error {
	if len(input.IssueTypes) == 0 {
		return domain.NewValidationError("issue_types", "at least one issue is required")
	}
	seen := make(map[domain.IssueType]bool, len(input.IssueTypes))
	for _, t := range input.IssueTypes {
		if !domain.ValidIssueType(t) {
			return domain.NewValidationError("issue_types", fmt.Sprintf("unknown issue type %q", t))
		}
		if seen[t] {
			return domain.NewValidationError("issue_types", fmt.Sprintf("duplicate issue type %q", t))
		}
		seen[t] = true
	}

	if n := len(strings.TrimSpace(input.Observation)); n == 0 {
		return domain.NewValidationError("observation", "must not be empty")
	}
	if len(input.Observation) > maxObservationLen {
		return domain.NewValidationError("observation", fmt.Sprintf("must be at most %d characters", maxObservationLen))
	}

	if len(input.Photos) == 0 {
		return domain.NewValidationError("photos", "at least one photo is required")
	}
	if len(input.Photos) > maxDisputePhotos {
		return domain.NewValidationError("photos", fmt.Sprintf("at most %d photos are allowed", maxDisputePhotos))
	}
	for _, ref := range input.Photos {
		// Photo references are the storage keys issued by the upload service.
		if _, err := uuid.Parse(ref); err != nil {
			return domain.NewValidationError("photos", fmt.Sprintf("%q is not a valid photo reference", ref))
		}
	}
	return nil
}
