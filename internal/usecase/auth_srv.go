package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"foodie-backend/internal/apperror"
	"foodie-backend/internal/credential"
	"foodie-backend/internal/data/entity"
	"foodie-backend/internal/data/repository"
	"foodie-backend/internal/dto/request"
	"foodie-backend/internal/dto/response"
	"foodie-backend/internal/token"
	"foodie-backend/pkg/cache"
	"foodie-backend/pkg/messaging"
	"foodie-backend/pkg/metrics"
	"foodie-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResetRequestedMessage is returned whether or not the email is registered.
const ResetRequestedMessage = "If an account with that email exists, a password reset link has been sent."

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, meta token.Meta) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, meta token.Meta) (*response.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*response.AccessTokenResponse, error)
	RequestPasswordReset(ctx context.Context, req *request.ResetPasswordRequest) error
	ConfirmPasswordReset(ctx context.Context, req *request.ResetPasswordConfirmRequest) error
}

type authService struct {
	repo      *repository.Repository
	issuer    token.Issuer
	hasher    utils.PasswordHasher
	passwords *credential.Validator
	limiter   LoginThrottle
	resets    ResetTokenStore
	events    messaging.EventPublisher
	config    *utils.Config
	log       *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(deps Dependencies, log *zap.Logger) AuthService {
	return &authService{
		repo:      deps.Repo,
		issuer:    deps.Issuer,
		hasher:    deps.Hasher,
		passwords: deps.Passwords,
		limiter:   deps.Limiter,
		resets:    deps.Resets,
		events:    deps.Events,
		config:    deps.Config,
		log:       log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, meta token.Meta) (*response.AuthResponse, error) {
	// 1. Collect every field problem before touching the store
	req.Email = normalizeEmail(req.Email)
	fields := utils.ValidateStruct(req)
	fields = checkPassword(s.passwords, fields,
		"password", req.Password, "password_confirm", req.PasswordConfirm,
		req.Email, req.FullName)

	email := req.Email
	if _, bad := fields["email"]; !bad {
		exists, err := s.repo.Account.EmailExists(ctx, email)
		if err != nil {
			s.log.Error("Failed to check email", zap.Error(err))
			return nil, apperror.Internal(err)
		}
		if exists {
			s.log.Warn("Register with taken email", zap.Int("other_problems", len(fields)))
			return nil, apperror.EmailTaken(fields)
		}
	}

	if len(fields) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", fields))
		return nil, apperror.Validation(fields)
	}

	dob, _ := parseDate(req.DateOfBirth)
	kind, _ := entity.ParseAccountKind(req.UserType)

	// 2. Hash password
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	// 3. Account and default profile in one transaction
	now := time.Now()
	account := &entity.Account{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        emptyToNil(req.PhoneNumber),
		Kind:         kind,
		DateOfBirth:  dob,
		IsActive:     true,
	}
	if req.Address != nil {
		account.Address = strings.TrimSpace(*req.Address)
	}
	profile := entity.NewProfile(account.ID, kind, now)

	if err := s.repo.Account.Create(ctx, account, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.log.Warn("Lost registration race", zap.String("account_id", account.ID.String()))
			return nil, apperror.EmailTaken(nil)
		}
		s.log.Error("Failed to create account", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	// 4. Auto login
	pair, err := s.issuer.IssuePair(ctx, account, meta)
	if err != nil {
		s.log.Error("Failed to issue tokens after register", zap.Error(err),
			zap.String("account_id", account.ID.String()))
		return nil, apperror.Internal(err)
	}

	// 5. Notify; delivery problems never fail the registration
	evt := messaging.AccountRegistered{
		AccountID:  account.ID.String(),
		Email:      account.Email,
		FullName:   account.FullName,
		Kind:       string(account.Kind),
		OccurredAt: now,
	}
	if err := s.events.PublishAccountRegistered(ctx, evt); err != nil {
		s.log.Warn("Failed to publish registration event", zap.Error(err),
			zap.String("account_id", account.ID.String()))
	}

	metrics.RecordRegistration(string(account.Kind))
	s.log.Info("Account registered",
		zap.String("account_id", account.ID.String()),
		zap.String("user_type", string(account.Kind)))

	return response.AuthToResponse(account, profile, pair), nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta token.Meta) (*response.AuthResponse, error) {
	// 1. Validate
	req.Email = normalizeEmail(req.Email)
	if fields := utils.ValidateStruct(req); len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}
	email := req.Email

	// 2. Throttle
	allowed, retryAfter, err := s.limiter.Allowed(ctx, email)
	if err != nil {
		s.log.Warn("Login limiter unavailable", zap.Error(err))
	} else if !allowed {
		metrics.RecordLogin(metrics.LoginThrottled)
		s.log.Warn("Login throttled", zap.Duration("retry_after", retryAfter))
		return nil, apperror.TooManyAttempts()
	}

	// 3. Find account
	account, err := s.repo.Account.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find account", zap.Error(err))
		return nil, apperror.Internal(err)
	}
	if account == nil {
		// keep the timing of unknown emails close to wrong passwords
		_, _ = s.hasher.Verify(req.Password, s.dummy())
		return nil, s.loginFailed(ctx, email)
	}

	// 4. Check password
	ok, err := s.hasher.Verify(req.Password, account.PasswordHash)
	if err != nil {
		s.log.Error("Stored password hash unreadable", zap.Error(err),
			zap.String("account_id", account.ID.String()))
	}
	if !ok {
		return nil, s.loginFailed(ctx, email)
	}

	// 5. Disabled accounts only learn so after proving the password
	if !account.IsActive {
		metrics.RecordLogin(metrics.LoginDisabled)
		s.log.Warn("Disabled account tried to login", zap.String("account_id", account.ID.String()))
		return nil, apperror.AccountDisabled()
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn("Failed to reset login limiter", zap.Error(err))
	}

	// 6. Profile first, so a failed repair leaves no session behind
	profile, err := ensureProfile(ctx, s.repo.Profile, account, s.log)
	if err != nil {
		return nil, err
	}

	// 7. Issue tokens
	pair, err := s.issuer.IssuePair(ctx, account, meta)
	if err != nil {
		s.log.Error("Failed to issue tokens", zap.Error(err), zap.String("account_id", account.ID.String()))
		return nil, apperror.Internal(err)
	}

	metrics.RecordLogin(metrics.LoginSuccess)
	s.log.Info("Account logged in", zap.String("account_id", account.ID.String()))

	return response.AuthToResponse(account, profile, pair), nil
}

func (s *authService) loginFailed(ctx context.Context, email string) error {
	metrics.RecordLogin(metrics.LoginInvalid)
	n, err := s.limiter.Fail(ctx, email)
	if err != nil {
		s.log.Warn("Failed to count login failure", zap.Error(err))
	}
	s.log.Warn("Invalid login", zap.Int("failures", n))
	return apperror.InvalidCredentials()
}

func (s *authService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.log.Error("Failed to build dummy hash", zap.Error(err))
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.issuer.Invalidate(ctx, refreshToken); err != nil {
		return s.tokenError("logout", err)
	}

	metrics.RecordLogout()
	return nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*response.AccessTokenResponse, error) {
	access, err := s.issuer.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, s.tokenError("refresh", err)
	}

	metrics.RecordTokenRefresh()
	return response.AccessToResponse(access), nil
}

func (s *authService) tokenError(op string, err error) error {
	switch {
	case errors.Is(err, token.ErrInvalidToken), errors.Is(err, token.ErrExpired):
		s.log.Debug("Rejected refresh token", zap.String("op", op))
		return apperror.InvalidToken()
	case errors.Is(err, token.ErrAccountInactive):
		return apperror.AccountDisabled()
	default:
		s.log.Error("Token operation failed", zap.String("op", op), zap.Error(err))
		return apperror.Internal(err)
	}
}

// RequestPasswordReset answers the same way for unknown, disabled and known
// emails. Failures after the lookup are logged, never returned.
func (s *authService) RequestPasswordReset(ctx context.Context, req *request.ResetPasswordRequest) error {
	// 1. Validate
	req.Email = normalizeEmail(req.Email)
	if fields := utils.ValidateStruct(req); len(fields) > 0 {
		return apperror.Validation(fields)
	}
	metrics.RecordPasswordResetRequest()

	// 2. Find account
	account, err := s.repo.Account.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find account for reset", zap.Error(err))
		return nil
	}
	if account == nil || !account.IsActive {
		s.log.Info("Password reset requested for unknown or disabled account")
		return nil
	}

	// 3. Store one-time token
	raw, err := utils.GenerateToken(32)
	if err != nil {
		s.log.Error("Failed to generate reset token", zap.Error(err))
		return nil
	}
	ttl := s.config.Reset.TokenTTL
	if err := s.resets.Save(ctx, raw, account.ID, ttl); err != nil {
		s.log.Error("Failed to store reset token", zap.Error(err),
			zap.String("account_id", account.ID.String()))
		return nil
	}

	// 4. Hand the link to the mailer
	now := time.Now()
	evt := messaging.PasswordResetRequested{
		AccountID:  account.ID.String(),
		Email:      account.Email,
		ResetURL:   s.resetURL(raw),
		ExpiresAt:  now.Add(ttl),
		OccurredAt: now,
	}
	if err := s.events.PublishPasswordResetRequested(ctx, evt); err != nil {
		s.log.Error("Failed to publish reset event", zap.Error(err),
			zap.String("account_id", account.ID.String()))
		return nil
	}

	s.log.Info("Password reset issued", zap.String("account_id", account.ID.String()))
	return nil
}

func (s *authService) resetURL(raw string) string {
	base := s.config.Reset.URLBase
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%stoken=%s", base, sep, url.QueryEscape(raw))
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, req *request.ResetPasswordConfirmRequest) error {
	// 1. Validate shape
	if fields := utils.ValidateStruct(req); len(fields) > 0 {
		return apperror.Validation(fields)
	}

	// 2. Look at the token without spending it
	accountID, err := s.resets.Peek(ctx, req.Token)
	if err != nil {
		return s.resetTokenError(err)
	}

	account, err := s.repo.Account.FindByID(ctx, accountID)
	if err != nil {
		s.log.Error("Failed to load account for reset", zap.Error(err))
		return apperror.Internal(err)
	}
	if account == nil || !account.IsActive {
		return apperror.InvalidToken()
	}

	// 3. New password
	fields := checkPassword(s.passwords, nil,
		"new_password", req.NewPassword, "new_password_confirm", req.NewPasswordConfirm,
		account.Email, account.FullName)
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}

	// 4. Spend the token; a concurrent confirm may have won
	if _, err := s.resets.Consume(ctx, req.Token); err != nil {
		return s.resetTokenError(err)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return apperror.Internal(err)
	}
	if err := s.repo.Account.UpdatePassword(ctx, account.ID, hash); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("account_id", account.ID.String()))
		return apperror.Internal(err)
	}

	// 5. Every existing session goes
	n, err := s.issuer.InvalidateAll(ctx, account.ID, uuid.Nil)
	if err != nil {
		s.log.Error("Failed to revoke sessions after reset", zap.Error(err),
			zap.String("account_id", account.ID.String()))
		return apperror.Internal(err)
	}
	if err := s.limiter.Reset(ctx, account.Email); err != nil {
		s.log.Warn("Failed to reset login limiter", zap.Error(err))
	}

	metrics.RecordPasswordResetConfirm()
	s.log.Info("Password reset completed",
		zap.String("account_id", account.ID.String()),
		zap.Int64("sessions_revoked", n))
	return nil
}

func (s *authService) resetTokenError(err error) error {
	if errors.Is(err, cache.ErrTokenNotFound) {
		return apperror.InvalidToken()
	}
	s.log.Error("Reset token store failed", zap.Error(err))
	return apperror.Internal(err)
}
