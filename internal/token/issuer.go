// Package token issues and invalidates the credentials handed to clients:
// a short-lived JWT access token and an opaque refresh token backed by a
// row in the sessions table.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodie-backend/internal/data/entity"
	"foodie-backend/internal/data/repository"
	"foodie-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken    = errors.New("token is invalid or revoked")
	ErrExpired         = errors.New("token has expired")
	ErrAccountInactive = errors.New("account is disabled")
)

const refreshTokenBytes = 32

// Meta describes the client a session was opened from.
type Meta struct {
	UserAgent string
	IPAddress string
}

type Pair struct {
	Access           string
	AccessExpiresAt  time.Time
	Refresh          string
	RefreshExpiresAt time.Time
	SessionID        uuid.UUID
}

type Access struct {
	Token     string
	ExpiresAt time.Time
}

type Issuer interface {
	IssuePair(ctx context.Context, account *entity.Account, meta Meta) (*Pair, error)
	Refresh(ctx context.Context, refresh string) (*Access, error)
	Invalidate(ctx context.Context, refresh string) error
	// InvalidateAll revokes every session of the account except keep.
	InvalidateAll(ctx context.Context, accountID, keep uuid.UUID) (int64, error)
	VerifyAccess(ctx context.Context, access string) (*Claims, error)
}

// AccountFinder is the slice of the account store the issuer needs.
type AccountFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
}

type issuer struct {
	signer     *Signer
	sessions   repository.SessionRepository
	accounts   AccountFinder
	refreshTTL time.Duration
	now        func() time.Time
	log        *zap.Logger
}

func NewIssuer(signer *Signer, sessions repository.SessionRepository, accounts AccountFinder, refreshTTL time.Duration, log *zap.Logger) Issuer {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &issuer{
		signer:     signer,
		sessions:   sessions,
		accounts:   accounts,
		refreshTTL: refreshTTL,
		now:        time.Now,
		log:        log.With(zap.String("component", "token_issuer")),
	}
}

func (i *issuer) IssuePair(ctx context.Context, account *entity.Account, meta Meta) (*Pair, error) {
	refresh, err := utils.GenerateToken(refreshTokenBytes)
	if err != nil {
		return nil, err
	}

	now := i.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		AccountID:  account.ID,
		TokenHash:  utils.HashToken(refresh),
		UserAgent:  optional(meta.UserAgent),
		IPAddress:  optional(meta.IPAddress),
		ExpiresAt:  now.Add(i.refreshTTL),
	}

	if err := i.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("issue pair: %w", err)
	}

	access, accessExp, err := i.signer.Sign(account.ID, string(account.Kind), session.ID)
	if err != nil {
		return nil, err
	}

	return &Pair{
		Access:           access,
		AccessExpiresAt:  accessExp,
		Refresh:          refresh,
		RefreshExpiresAt: session.ExpiresAt,
		SessionID:        session.ID,
	}, nil
}

func (i *issuer) Refresh(ctx context.Context, refresh string) (*Access, error) {
	session, err := i.liveSession(ctx, refresh)
	if err != nil {
		return nil, err
	}

	account, err := i.accounts.FindByID(ctx, session.AccountID)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidToken
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}

	access, exp, err := i.signer.Sign(account.ID, string(account.Kind), session.ID)
	if err != nil {
		return nil, err
	}

	return &Access{Token: access, ExpiresAt: exp}, nil
}

func (i *issuer) Invalidate(ctx context.Context, refresh string) error {
	session, err := i.liveSession(ctx, refresh)
	if err != nil {
		return err
	}

	if err := i.sessions.Revoke(ctx, session.ID); err != nil {
		// lost a race with a concurrent logout
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("invalidate: %w", err)
	}

	i.log.Debug("Session revoked",
		zap.String("session_id", session.ID.String()),
		zap.String("account_id", session.AccountID.String()),
	)
	return nil
}

func (i *issuer) InvalidateAll(ctx context.Context, accountID, keep uuid.UUID) (int64, error) {
	n, err := i.sessions.RevokeAllForAccount(ctx, accountID, keep)
	if err != nil {
		return 0, fmt.Errorf("invalidate all: %w", err)
	}
	return n, nil
}

// VerifyAccess also requires the backing session to be live, so logout and
// password changes cut access tokens before they expire.
func (i *issuer) VerifyAccess(ctx context.Context, access string) (*Claims, error) {
	claims, err := i.signer.Parse(access)
	if err != nil {
		return nil, err
	}

	session, err := i.sessions.FindByID(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("verify access: %w", err)
	}
	if session == nil || session.AccountID != claims.AccountID || !session.Active(i.now()) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (i *issuer) liveSession(ctx context.Context, refresh string) (*entity.Session, error) {
	if refresh == "" {
		return nil, ErrInvalidToken
	}

	session, err := i.sessions.FindByTokenHash(ctx, utils.HashToken(refresh))
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if session == nil || !session.Active(i.now()) {
		return nil, ErrInvalidToken
	}
	return session, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
