package domain

type DisputeStatus string

const (
	DisputeStatusOpen      DisputeStatus = "OPEN"
	DisputeStatusResolved  DisputeStatus = "RESOLVED"
	DisputeStatusCancelled DisputeStatus = "CANCELLED"
)

type IssueType string

const (
	IssueTypeDamaged     IssueType = "DAMAGED"
	IssueTypeIncomplete  IssueType = "INCOMPLETE"
	IssueTypeDirty       IssueType = "DIRTY"
	IssueTypeNotReturned IssueType = "NOT_RETURNED"
)

// ValidIssueType reports whether t is one of the known claim categories.
func ValidIssueType(t IssueType) bool {
	switch t {
	case IssueTypeDamaged, IssueTypeIncomplete, IssueTypeDirty, IssueTypeNotReturned:
		return true
	}
	return false
}

type Severity string

const (
	SeverityOK     Severity = "OK"
	SeverityMinor  Severity = "MINOR"
	SeveritySevere Severity = "SEVERE"
)

// Deduction percentages an admin may choose at resolution time.
const (
	DeductionNone    int32 = 0
	DeductionPartial int32 = 30
	DeductionFull    int32 = 100
)

// SeverityForDeduction maps the chosen percentage to the severity recorded
// for audit. The computed advisory score is kept separately and never
// overwritten.
func SeverityForDeduction(pct int32) Severity {
	switch pct {
	case DeductionFull:
		return SeveritySevere
	case DeductionPartial:
		return SeverityMinor
	default:
		return SeverityOK
	}
}

type Dispute struct {
	ID       int32 `json:"id"`
	RentalID int32 `json:"rental_id"`
	ItemID   int32 `json:"item_id"`
	OwnerID  int32 `json:"owner_id"`
	RenterID int32 `json:"renter_id"`

	IssueTypes  []IssueType `json:"issue_types"`
	Observation string      `json:"observation"`
	Photos      []string    `json:"photos"`

	// ComputedSeverity is the advisory score from the claim alone; the
	// resolving admin may pick any percentage regardless of it.
	ComputedSeverity   Severity `json:"computed_severity"`
	ResolutionSeverity Severity `json:"resolution_severity,omitempty"`

	// DepositAmountCents is snapshotted from the rental when the dispute is
	// opened and is immutable afterwards.
	DepositAmountCents int32 `json:"deposit_amount_cents"`

	Status               DisputeStatus `json:"status"`
	DeductionPercentage  int32         `json:"deduction_percentage"`
	DeductionAmountCents int32         `json:"deduction_amount_cents"`
	RefundAmountCents    int32         `json:"refund_amount_cents"`
	AdminReviewed        bool          `json:"admin_reviewed"`
	ResolvedOn           *string       `json:"resolved_on,omitempty"`

	CreatedOn string `json:"created_on"`
}

// DisputePatch carries the fields written when a dispute is resolved.
type DisputePatch struct {
	Status               DisputeStatus
	ResolutionSeverity   Severity
	DeductionPercentage  int32
	DeductionAmountCents int32
	RefundAmountCents    int32
	AdminReviewed        bool
	ResolvedOn           string
}
