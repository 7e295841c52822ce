package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"borrowhub-backend/internal/domain"
	"borrowhub-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (user_id, type, title, message, related_id, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		n.UserID, n.Type, n.Title, n.Message, n.RelatedID, n.IsRead, time.Now()).Scan(&n.ID)
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, type, title, message, related_id, is_read, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdOn time.Time
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.RelatedID, &n.IsRead, &createdOn); err != nil {
			return nil, 0, err
		}
		n.CreatedOn = createdOn.Format(time.RFC3339)
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("notification not found or access denied")
	}
	return nil
}

// DeleteReadOlderThan prunes read notifications past the retention window.
func (r *notificationRepository) DeleteReadOlderThan(ctx context.Context, days int32) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -int(days))
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE is_read = TRUE AND created_on < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
