package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"borrowhub-backend/internal/domain"
	"borrowhub-backend/internal/repository"
)

const rentalColumns = `id, item_id, owner_id, renter_id, start_date, end_date, pickup_time, total_days,
	subtotal_cents, service_fee_cents, total_amount_cents, owner_amount_cents, deposit_amount_cents,
	owner_code, renter_code, status, rejection_reason, dispute_resolution,
	deposit_refunded_cents, deposit_deducted_cents, created_on, updated_on`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (item_id, owner_id, renter_id, start_date, end_date, pickup_time, total_days,
	          subtotal_cents, service_fee_cents, total_amount_cents, deposit_amount_cents, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		rt.ItemID, rt.OwnerID, rt.RenterID, rt.StartDate, rt.EndDate, rt.PickupTime, rt.TotalDays,
		rt.SubtotalCents, rt.ServiceFeeCents, rt.TotalAmountCents, rt.DepositAmountCents,
		rt.Status, now, now).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rt, nil
}

// UpdateConditional is the compare-and-swap primitive of the lifecycle: the
// patch applies only while the row still carries the expected status. A zero
// RowsAffected with an existing row means the transition lost a race.
func (r *rentalRepository) UpdateConditional(ctx context.Context, id int32, expected domain.RentalStatus, patch *domain.RentalPatch) (bool, error) {
	sets := []string{"status = $1", "updated_on = $2"}
	args := []interface{}{patch.Status, time.Now()}
	idx := 3

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if patch.OwnerCode != nil {
		addSet("owner_code", *patch.OwnerCode)
	}
	if patch.RenterCode != nil {
		addSet("renter_code", *patch.RenterCode)
	}
	if patch.OwnerAmountCents != nil {
		addSet("owner_amount_cents", *patch.OwnerAmountCents)
	}
	if patch.RejectionReason != nil {
		addSet("rejection_reason", *patch.RejectionReason)
	}
	if patch.DisputeResolution != nil {
		addSet("dispute_resolution", *patch.DisputeResolution)
	}
	if patch.DepositRefundedCents != nil {
		addSet("deposit_refunded_cents", *patch.DepositRefundedCents)
	}
	if patch.DepositDeductedCents != nil {
		addSet("deposit_deducted_cents", *patch.DepositDeductedCents)
	}

	query := "UPDATE rentals SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += fmt.Sprintf(" WHERE id = $%d AND status = $%d", idx, idx+1)
	args = append(args, id, expected)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *rentalRepository) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = $1 ORDER BY created_on ASC`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID int32, role string, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize
	partyColumn := "renter_id"
	if role == "owner" {
		partyColumn = "owner_id"
	}

	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE ` + partyColumn + ` = $1`
	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, count, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var ownerCode, renterCode, rejectionReason, disputeResolution sql.NullString
	var ownerAmount, depositRefunded, depositDeducted sql.NullInt32
	var createdOn, updatedOn time.Time

	err := row.Scan(&rt.ID, &rt.ItemID, &rt.OwnerID, &rt.RenterID,
		&rt.StartDate, &rt.EndDate, &rt.PickupTime, &rt.TotalDays,
		&rt.SubtotalCents, &rt.ServiceFeeCents, &rt.TotalAmountCents, &ownerAmount, &rt.DepositAmountCents,
		&ownerCode, &renterCode, &rt.Status, &rejectionReason, &disputeResolution,
		&depositRefunded, &depositDeducted, &createdOn, &updatedOn)
	if err != nil {
		return nil, err
	}

	rt.OwnerCode = ownerCode.String
	rt.RenterCode = renterCode.String
	rt.RejectionReason = rejectionReason.String
	rt.DisputeResolution = disputeResolution.String
	if ownerAmount.Valid {
		rt.OwnerAmountCents = ownerAmount.Int32
	}
	if depositRefunded.Valid {
		v := depositRefunded.Int32
		rt.DepositRefundedCents = &v
	}
	if depositDeducted.Valid {
		v := depositDeducted.Int32
		rt.DepositDeductedCents = &v
	}
	rt.CreatedOn = createdOn.Format(time.RFC3339)
	rt.UpdatedOn = updatedOn.Format(time.RFC3339)
	return rt, nil
}
