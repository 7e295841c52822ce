package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"borrowhub-backend/internal/domain"
	"borrowhub-backend/internal/repository"
)

const disputeColumns = `id, rental_id, item_id, owner_id, renter_id, issue_types, observation, photos,
	computed_severity, resolution_severity, deposit_amount_cents, status,
	deduction_percentage, deduction_amount_cents, refund_amount_cents, admin_reviewed, resolved_on, created_on`

type disputeRepository struct {
	db *sql.DB
}

func NewDisputeRepository(db *sql.DB) repository.DisputeRepository {
	return &disputeRepository{db: db}
}

func (r *disputeRepository) Create(ctx context.Context, d *domain.Dispute) error {
	query := `INSERT INTO disputes (rental_id, item_id, owner_id, renter_id, issue_types, observation, photos,
	          computed_severity, deposit_amount_cents, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	issues := make([]string, len(d.IssueTypes))
	for i, t := range d.IssueTypes {
		issues[i] = string(t)
	}
	return r.db.QueryRowContext(ctx, query,
		d.RentalID, d.ItemID, d.OwnerID, d.RenterID,
		pq.Array(issues), d.Observation, pq.Array(d.Photos),
		d.ComputedSeverity, d.DepositAmountCents, d.Status, time.Now()).Scan(&d.ID)
}

func (r *disputeRepository) GetByID(ctx context.Context, id int32) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`
	d, err := scanDispute(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// Resolve writes the resolution fields iff the dispute is still OPEN, so two
// concurrent admin resolutions cannot both succeed.
func (r *disputeRepository) Resolve(ctx context.Context, id int32, patch *domain.DisputePatch) (bool, error) {
	query := `UPDATE disputes
	          SET status = $1, resolution_severity = $2, deduction_percentage = $3,
	              deduction_amount_cents = $4, refund_amount_cents = $5, admin_reviewed = $6, resolved_on = $7
	          WHERE id = $8 AND status = $9`
	result, err := r.db.ExecContext(ctx, query,
		patch.Status, patch.ResolutionSeverity, patch.DeductionPercentage,
		patch.DeductionAmountCents, patch.RefundAmountCents, patch.AdminReviewed, patch.ResolvedOn,
		id, domain.DisputeStatusOpen)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *disputeRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM disputes WHERE id = $1`, id)
	return err
}

func (r *disputeRepository) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Dispute, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM disputes WHERE owner_id = $1`, ownerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE owner_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, ownerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var disputes []domain.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, 0, err
		}
		disputes = append(disputes, *d)
	}
	return disputes, count, rows.Err()
}

func scanDispute(row rowScanner) (*domain.Dispute, error) {
	d := &domain.Dispute{}
	var issues, photos pq.StringArray
	var resolutionSeverity sql.NullString
	var resolvedOn sql.NullTime
	var createdOn time.Time

	err := row.Scan(&d.ID, &d.RentalID, &d.ItemID, &d.OwnerID, &d.RenterID,
		&issues, &d.Observation, &photos,
		&d.ComputedSeverity, &resolutionSeverity, &d.DepositAmountCents, &d.Status,
		&d.DeductionPercentage, &d.DeductionAmountCents, &d.RefundAmountCents,
		&d.AdminReviewed, &resolvedOn, &createdOn)
	if err != nil {
		return nil, err
	}

	d.IssueTypes = make([]domain.IssueType, len(issues))
	for i, s := range issues {
		d.IssueTypes[i] = domain.IssueType(s)
	}
	d.Photos = photos
	if resolutionSeverity.Valid {
		d.ResolutionSeverity = domain.Severity(resolutionSeverity.String)
	}
	if resolvedOn.Valid {
		s := resolvedOn.Time.Format(time.RFC3339)
		d.ResolvedOn = &s
	}
	d.CreatedOn = createdOn.Format(time.RFC3339)
	return d, nil
}
