package postgres

import (
	"database/sql"

	"borrowhub-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.DisputeRepository
	repository.ItemRepository
	repository.UserRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		RentalRepository:       NewRentalRepository(db),
		DisputeRepository:      NewDisputeRepository(db),
		ItemRepository:         NewItemRepository(db),
		UserRepository:         NewUserRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
