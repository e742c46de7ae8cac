package repository

import (
	"errors"

	"foodie-backend/pkg/database"

	"go.uber.org/zap"
)

var (
	// ErrDuplicateEmail is returned when the lower(email) unique index rejects an insert.
	ErrDuplicateEmail = errors.New("email already exists")
	ErrNotFound       = errors.New("record not found")
)

type Repository struct {
	Account AccountRepository
	Profile ProfileRepository
	Session SessionRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Account: NewAccountRepository(db, log),
		Profile: NewProfileRepository(db, log),
		Session: NewSessionRepository(db, log),
	}
}
