package postgres

import (
	"context"
	"database/sql"
	"errors"

	"borrowhub-backend/internal/domain"
	"borrowhub-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT id, name, email, is_admin, dispute_count FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.IsAdmin, &user.DisputeCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// IncrementDisputeCount bumps the per-user counter consumed by the auto-flag
// policy and returns the new value.
func (r *userRepository) IncrementDisputeCount(ctx context.Context, userID int32) (int32, error) {
	var count int32
	query := `UPDATE users SET dispute_count = dispute_count + 1 WHERE id = $1 RETURNING dispute_count`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return count, nil
}
