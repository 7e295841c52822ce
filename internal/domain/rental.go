package domain

type RentalStatus string

const (
	RentalStatusPending     RentalStatus = "PENDING"
	RentalStatusApproved    RentalStatus = "APPROVED"
	RentalStatusActive      RentalStatus = "ACTIVE"
	RentalStatusCompleted   RentalStatus = "COMPLETED"
	RentalStatusCancelled   RentalStatus = "CANCELLED"
	RentalStatusRejected    RentalStatus = "REJECTED"
	RentalStatusExpired     RentalStatus = "EXPIRED"
	RentalStatusDisputeOpen RentalStatus = "DISPUTE_OPEN"
)

// IsTerminal reports whether no further transition is allowed from the status.
func (s RentalStatus) IsTerminal() bool {
	switch s {
	case RentalStatusCompleted, RentalStatusCancelled, RentalStatusRejected, RentalStatusExpired:
		return true
	}
	return false
}

type Rental struct {
	ID       int32 `json:"id"`
	ItemID   int32 `json:"item_id"`
	OwnerID  int32 `json:"owner_id"`
	RenterID int32 `json:"renter_id"`

	StartDate  string `json:"start_date"`  // yyyy-mm-dd
	EndDate    string `json:"end_date"`    // yyyy-mm-dd, end-exclusive
	PickupTime string `json:"pickup_time"` // HH:MM local time-of-day
	TotalDays  int32  `json:"total_days"`

	// Money snapshot fields — computed at creation (renter side) and at
	// approval (owner side). Never recomputed from live item prices.
	SubtotalCents      int32 `json:"subtotal_cents"`
	ServiceFeeCents    int32 `json:"service_fee_cents"`
	TotalAmountCents   int32 `json:"total_amount_cents"`
	OwnerAmountCents   int32 `json:"owner_amount_cents"`
	DepositAmountCents int32 `json:"deposit_amount_cents"`

	// Pickup/return codes. Opaque shared secrets, set only at approval and
	// non-empty iff status is APPROVED, ACTIVE, COMPLETED or DISPUTE_OPEN.
	OwnerCode  string `json:"owner_code,omitempty"`
	RenterCode string `json:"renter_code,omitempty"`

	Status RentalStatus `json:"status"`

	RejectionReason      string `json:"rejection_reason,omitempty"`
	DisputeResolution    string `json:"dispute_resolution,omitempty"`
	DepositRefundedCents *int32 `json:"deposit_refunded_cents,omitempty"`
	DepositDeductedCents *int32 `json:"deposit_deducted_cents,omitempty"`

	CreatedOn string `json:"created_on"`
	UpdatedOn string `json:"updated_on"`
}

// RentalPatch carries the fields written by a conditional status transition.
// Nil pointers leave the column untouched.
type RentalPatch struct {
	Status               RentalStatus
	OwnerCode            *string
	RenterCode           *string
	OwnerAmountCents     *int32
	RejectionReason      *string
	DisputeResolution    *string
	DepositRefundedCents *int32
	DepositDeductedCents *int32
}
