package postgres

import (
	"context"
	"database/sql"
	"errors"

	"borrowhub-backend/internal/domain"
	"borrowhub-backend/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	item := &domain.Item{}
	query := `SELECT id, owner_id, name, price_per_day_cents, value_cents, discount_week_pct, discount_month_pct
	          FROM items WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.OwnerID, &item.Name,
		&item.PricePerDayCents, &item.ValueCents, &item.DiscountWeekPct, &item.DiscountMonthPct)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}
