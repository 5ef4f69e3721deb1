package postgres

import (
	"database/sql"

	"eventhub-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.EventRepository
	repository.ParticipantRepository
	repository.NotificationRepository
	repository.SessionRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		EventRepository:        NewEventRepository(db),
		ParticipantRepository:  NewParticipantRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		SessionRepository:      NewSessionRepository(db),
	}
}
