package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodie-backend/internal/data/entity"
	"foodie-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AccountRepository interface {
	// Create inserts the account and its profile in one transaction.
	Create(ctx context.Context, account *entity.Account, profile *entity.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// Update writes the account and, when profile is not nil, its profile in one transaction.
	Update(ctx context.Context, account *entity.Account, profile *entity.Profile) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type accountRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAccountRepository(db database.PgxIface, log *zap.Logger) AccountRepository {
	return &accountRepository{
		db:  db,
		log: log.With(zap.String("repository", "account")),
	}
}

const accountColumns = `id, email, password_hash, full_name, phone_number, account_kind,
	date_of_birth, address, avatar_url, is_active, is_verified,
	current_latitude, current_longitude, created_at, updated_at, deleted_at`

func (r *accountRepository) Create(ctx context.Context, account *entity.Account, profile *entity.Profile) error {
	account.Email = strings.ToLower(account.Email)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create account tx: %w", err)
	}

	query := `
		INSERT INTO accounts (id, email, password_hash, full_name, phone_number, account_kind,
		                      date_of_birth, address, avatar_url, is_active, is_verified,
		                      current_latitude, current_longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = tx.Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FullName,
		account.Phone,
		string(account.Kind),
		account.DateOfBirth,
		account.Address,
		account.AvatarURL,
		account.IsActive,
		account.IsVerified,
		account.Latitude,
		account.Longitude,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		_ = tx.Rollback(ctx)
		if database.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		r.log.Error("Failed to create account",
			zap.Error(err),
			zap.String("email", account.Email),
		)
		return fmt.Errorf("create account %s: %w", account.Email, err)
	}

	if err := insertProfile(ctx, tx, profile); err != nil {
		_ = tx.Rollback(ctx)
		r.log.Error("Failed to create profile",
			zap.Error(err),
			zap.String("account_id", account.ID.String()),
		)
		return fmt.Errorf("create profile for account %s: %w", account.ID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create account tx: %w", err)
	}

	return nil
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1 AND deleted_at IS NULL
	`

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find account by ID",
			zap.Error(err),
			zap.String("account_id", id.String()),
		)
		return nil, fmt.Errorf("find account by ID %s: %w", id.String(), err)
	}

	return account, nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE lower(email) = lower($1) AND deleted_at IS NULL
	`

	account, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find account by email", zap.Error(err))
		return nil, fmt.Errorf("find account by email: %w", err)
	}

	return account, nil
}

func (r *accountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE lower(email) = lower($1))`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		r.log.Error("Failed to check email", zap.Error(err))
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

func (r *accountRepository) Update(ctx context.Context, account *entity.Account, profile *entity.Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update account tx: %w", err)
	}

	if err := updateAccount(ctx, tx, account); err != nil {
		_ = tx.Rollback(ctx)
		if !errors.Is(err, ErrNotFound) {
			r.log.Error("Failed to update account",
				zap.Error(err),
				zap.String("account_id", account.ID.String()),
			)
		}
		return err
	}

	if profile != nil {
		if err := updateProfile(ctx, tx, profile); err != nil {
			_ = tx.Rollback(ctx)
			if !errors.Is(err, ErrNotFound) {
				r.log.Error("Failed to update profile",
					zap.Error(err),
					zap.String("account_id", account.ID.String()),
				)
			}
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update account tx: %w", err)
	}

	return nil
}

// updateAccount writes the mutable columns. Email, kind and password are not touched.
func updateAccount(ctx context.Context, db execer, account *entity.Account) error {
	query := `
		UPDATE accounts
		SET full_name = $2, phone_number = $3, date_of_birth = $4, address = $5,
		    avatar_url = $6, current_latitude = $7, current_longitude = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := db.Exec(ctx, query,
		account.ID,
		account.FullName,
		account.Phone,
		account.DateOfBirth,
		account.Address,
		account.AvatarURL,
		account.Latitude,
		account.Longitude,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account %s: %w", account.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		r.log.Error("Failed to update password",
			zap.Error(err),
			zap.String("account_id", id.String()),
		)
		return fmt.Errorf("update password for account %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var (
		account entity.Account
		kind    string
	)

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.FullName,
		&account.Phone,
		&kind,
		&account.DateOfBirth,
		&account.Address,
		&account.AvatarURL,
		&account.IsActive,
		&account.IsVerified,
		&account.Latitude,
		&account.Longitude,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Kind = entity.AccountKind(kind)
	return &account, nil
}
