package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodie-backend/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func newAccount(kind entity.AccountKind) (*entity.Account, *entity.Profile) {
	now := time.Now().UTC()
	a := &entity.Account{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:    "Jane@Example.com",
		FullName: "Jane Doe",
		Kind:     kind,
		IsActive: true,
	}
	return a, entity.NewProfile(a.ID, kind, now)
}

var accountRowColumns = []string{
	"id", "email", "password_hash", "full_name", "phone_number", "account_kind",
	"date_of_birth", "address", "avatar_url", "is_active", "is_verified",
	"current_latitude", "current_longitude", "created_at", "updated_at", "deleted_at",
}

func accountRow(id uuid.UUID, kind string) *pgxmock.Rows {
	now := time.Now()
	phone := "+15551234567"
	return pgxmock.NewRows(accountRowColumns).AddRow(
		id.String(), "jane@example.com", "$2a$10$hash", "Jane Doe", &phone, kind,
		(*time.Time)(nil), "", (*string)(nil), true, false,
		(*float64)(nil), (*float64)(nil), now, now, (*time.Time)(nil),
	)
}

// ==================== ACCOUNT ====================

func TestAccountRepository_Create_CommitsAccountAndProfile(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock, zap.NewNop())
	account, profile := newAccount(entity.KindDelivery)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO account_profiles").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), account, profile)

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", account.Email, "email is stored lower-cased")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_UniqueViolation(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock, zap.NewNop())
	account, profile := newAccount(entity.KindCustomer)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), account, profile)

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_ProfileFailureRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock, zap.NewNop())
	account, profile := newAccount(entity.KindCustomer)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO account_profiles").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), account, profile)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		repo := NewAccountRepository(mock, zap.NewNop())
		id := uuid.New()

		mock.ExpectQuery("FROM accounts").
			WithArgs("JANE@example.com").
			WillReturnRows(accountRow(id, "restaurant"))

		account, err := repo.FindByEmail(context.Background(), "JANE@example.com")

		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, id, account.ID)
		assert.Equal(t, entity.KindRestaurant, account.Kind)
		require.NotNil(t, account.Phone)
		assert.Equal(t, "+15551234567", *account.Phone)
		assert.Nil(t, account.DateOfBirth)
	})

	t.Run("not found returns nil, nil", func(t *testing.T) {
		mock := newMock(t)
		repo := NewAccountRepository(mock, zap.NewNop())

		mock.ExpectQuery("FROM accounts").WillReturnError(pgx.ErrNoRows)

		account, err := repo.FindByEmail(context.Background(), "nobody@example.com")

		assert.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("database error is wrapped", func(t *testing.T) {
		mock := newMock(t)
		repo := NewAccountRepository(mock, zap.NewNop())
		dbErr := errors.New("connection reset")

		mock.ExpectQuery("FROM accounts").WillReturnError(dbErr)

		_, err := repo.FindByEmail(context.Background(), "jane@example.com")

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestAccountRepository_UpdatePassword_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock, zap.NewNop())

	mock.ExpectExec("UPDATE accounts").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdatePassword(context.Background(), uuid.New(), "hash")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountRepository_Update_CommitsAccountAndProfile(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock, zap.NewNop())
	account, profile := newAccount(entity.KindRestaurant)
	profile.Restaurant.TaxID = "TX-1"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE account_profiles").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), account, profile))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Update_AccountOnly(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock, zap.NewNop())
	account, _ := newAccount(entity.KindCustomer)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), account, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Update_ProfileFailureRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock, zap.NewNop())
	account, profile := newAccount(entity.KindCustomer)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE account_profiles").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), account, profile)

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Update_MissingAccount(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock, zap.NewNop())
	account, profile := newAccount(entity.KindCustomer)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), account, profile)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==================== PROFILE ====================

func TestProfileRepository_FindByAccountID_DriverVariant(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock, zap.NewNop())
	id := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"account_id", "notification_preferences", "dietary_restrictions", "favorite_cuisines",
		"vehicle_type", "license_plate", "driver_license_number", "is_available",
		"business_license", "tax_id", "created_at", "updated_at", "account_kind",
	}).AddRow(
		id.String(), []byte(`{"email":true}`), []string{"vegan"}, []string{},
		"bike", "B-123", "DL-9", true,
		"", "", now, now, "delivery",
	)
	mock.ExpectQuery("FROM account_profiles").WithArgs(id).WillReturnRows(rows)

	profile, err := repo.FindByAccountID(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, profile.Driver)
	assert.Nil(t, profile.Restaurant)
	assert.Equal(t, "bike", profile.Driver.VehicleType)
	assert.True(t, profile.Driver.IsAvailable)
	assert.Equal(t, true, profile.NotificationPreferences["email"])
	assert.Equal(t, []string{"vegan"}, profile.DietaryRestrictions)
}

func TestProfileRepository_FindByAccountID_Missing(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock, zap.NewNop())

	mock.ExpectQuery("FROM account_profiles").WillReturnError(pgx.ErrNoRows)

	profile, err := repo.FindByAccountID(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Nil(t, profile)
}

// ==================== SESSION ====================

func TestSessionRepository_Revoke(t *testing.T) {
	mock := newMock(t)
	repo := NewSessionRepository(mock, zap.NewNop())
	id := uuid.New()

	mock.ExpectExec("UPDATE sessions").WithArgs(id).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE sessions").WithArgs(id).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(t, repo.Revoke(context.Background(), id))
	assert.ErrorIs(t, repo.Revoke(context.Background(), id), ErrNotFound, "second revoke finds nothing live")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_RevokeAllForAccount_KeepsCurrent(t *testing.T) {
	mock := newMock(t)
	repo := NewSessionRepository(mock, zap.NewNop())
	accountID, keep := uuid.New(), uuid.New()

	mock.ExpectExec("UPDATE sessions").
		WithArgs(accountID, keep).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := repo.RevokeAllForAccount(context.Background(), accountID, keep)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_FindByTokenHash(t *testing.T) {
	mock := newMock(t)
	repo := NewSessionRepository(mock, zap.NewNop())
	id, accountID := uuid.New(), uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "account_id", "token_hash", "user_agent", "ip_address", "expires_at", "revoked_at", "created_at",
	}).AddRow(
		id.String(), accountID.String(), "abc", (*string)(nil), (*string)(nil),
		now.Add(time.Hour), (*time.Time)(nil), now,
	)
	mock.ExpectQuery("FROM sessions").WithArgs("abc").WillReturnRows(rows)

	session, err := repo.FindByTokenHash(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, accountID, session.AccountID)
	assert.True(t, session.Active(now))
}

func TestSessionRepository_CleanExpired(t *testing.T) {
	mock := newMock(t)
	repo := NewSessionRepository(mock, zap.NewNop())

	mock.ExpectExec("DELETE FROM sessions").WillReturnResult(pgxmock.NewResult("DELETE", 5))

	n, err := repo.CleanExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
