package usecase

import (
	"context"
	"time"

	"foodie-backend/internal/credential"
	"foodie-backend/internal/data/repository"
	"foodie-backend/internal/token"
	"foodie-backend/pkg/messaging"
	"foodie-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoginThrottle counts failed logins per email (pkg/cache.LoginLimiter).
type LoginThrottle interface {
	Allowed(ctx context.Context, email string) (bool, time.Duration, error)
	Fail(ctx context.Context, email string) (int, error)
	Reset(ctx context.Context, email string) error
}

// ResetTokenStore keeps single-use password reset tokens (pkg/cache.ResetTokenStore).
type ResetTokenStore interface {
	Save(ctx context.Context, token string, accountID uuid.UUID, ttl time.Duration) error
	Peek(ctx context.Context, token string) (uuid.UUID, error)
	Consume(ctx context.Context, token string) (uuid.UUID, error)
}

// Dependencies are the collaborators shared by every service.
type Dependencies struct {
	Repo      *repository.Repository
	Issuer    token.Issuer
	Hasher    utils.PasswordHasher
	Passwords *credential.Validator
	Limiter   LoginThrottle
	Resets    ResetTokenStore
	Events    messaging.EventPublisher
	Config    *utils.Config
}

type Service struct {
	Auth    AuthService
	Account AccountService
}

func NewService(deps Dependencies, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(deps, log),
		Account: NewAccountService(deps, log),
	}
}
