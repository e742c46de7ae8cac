package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodie-backend/internal/apperror"
	"foodie-backend/internal/credential"
	"foodie-backend/internal/data/entity"
	"foodie-backend/internal/data/repository"
	"foodie-backend/internal/dto/request"
	"foodie-backend/internal/dto/response"
	"foodie-backend/internal/token"
	"foodie-backend/pkg/metrics"
	"foodie-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AccountService interface {
	GetCurrentAccount(ctx context.Context, accountID uuid.UUID) (*response.AccountResponse, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, req *request.UpdateProfileRequest) (*response.AccountResponse, error)
	ChangePassword(ctx context.Context, accountID, sessionID uuid.UUID, req *request.ChangePasswordRequest) error
}

type accountService struct {
	repo      *repository.Repository
	issuer    token.Issuer
	hasher    utils.PasswordHasher
	passwords *credential.Validator
	log       *zap.Logger
}

func NewAccountService(deps Dependencies, log *zap.Logger) AccountService {
	return &accountService{
		repo:      deps.Repo,
		issuer:    deps.Issuer,
		hasher:    deps.Hasher,
		passwords: deps.Passwords,
		log:       log.With(zap.String("service", "account")),
	}
}

func (s *accountService) GetCurrentAccount(ctx context.Context, accountID uuid.UUID) (*response.AccountResponse, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	profile, err := ensureProfile(ctx, s.repo.Profile, account, s.log)
	if err != nil {
		return nil, err
	}

	res := response.AccountToResponse(account, profile)
	return &res, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, accountID uuid.UUID, req *request.UpdateProfileRequest) (*response.AccountResponse, error) {
	// 1. Validate supplied fields
	fields := utils.ValidateStruct(req)
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		fields = setField(fields, "full_name", "This field may not be blank.")
	}
	if len(fields) > 0 {
		s.log.Warn("Profile update validation failed", zap.Any("errors", fields))
		return nil, apperror.Validation(fields)
	}

	// 2. Load both rows; a missing profile is recreated
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	profile, err := ensureProfile(ctx, s.repo.Profile, account, s.log)
	if err != nil {
		return nil, err
	}

	// 3. Apply and write in one transaction
	now := time.Now()
	accountChanged := applyAccountUpdate(account, req)
	profileChanged := req.Profile != nil && applyProfileUpdate(profile, req.Profile)

	if accountChanged || profileChanged {
		account.UpdatedAt = now
		var changedProfile *entity.Profile
		if profileChanged {
			profile.UpdatedAt = now
			changedProfile = profile
		}
		if err := s.repo.Account.Update(ctx, account, changedProfile); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.AccountNotFound()
			}
			s.log.Error("Failed to update account", zap.Error(err), zap.String("account_id", accountID.String()))
			return nil, apperror.Internal(err)
		}
	}

	s.log.Info("Profile updated", zap.String("account_id", accountID.String()))

	res := response.AccountToResponse(account, profile)
	return &res, nil
}

// applyAccountUpdate copies supplied fields and reports whether anything was set.
func applyAccountUpdate(a *entity.Account, req *request.UpdateProfileRequest) bool {
	changed := false

	if req.FullName != nil {
		a.FullName = strings.TrimSpace(*req.FullName)
		changed = true
	}
	if req.PhoneNumber != nil {
		a.Phone = emptyToNil(req.PhoneNumber)
		changed = true
	}
	if req.DateOfBirth != nil {
		a.DateOfBirth, _ = parseDate(req.DateOfBirth)
		changed = true
	}
	if req.Address != nil {
		a.Address = strings.TrimSpace(*req.Address)
		changed = true
	}
	if req.Avatar != nil {
		a.AvatarURL = emptyToNil(req.Avatar)
		changed = true
	}
	if req.Latitude != nil {
		a.Latitude = req.Latitude
		changed = true
	}
	if req.Longitude != nil {
		a.Longitude = req.Longitude
		changed = true
	}

	return changed
}

// applyProfileUpdate ignores kind-specific fields the profile has no room for.
func applyProfileUpdate(p *entity.Profile, u *request.ProfileUpdate) bool {
	changed := false

	if u.NotificationPreferences != nil {
		p.NotificationPreferences = u.NotificationPreferences
		changed = true
	}
	if u.DietaryRestrictions != nil {
		p.DietaryRestrictions = u.DietaryRestrictions
		changed = true
	}
	if u.FavoriteCuisines != nil {
		p.FavoriteCuisines = u.FavoriteCuisines
		changed = true
	}

	if d := p.Driver; d != nil {
		if u.VehicleType != nil {
			d.VehicleType = strings.TrimSpace(*u.VehicleType)
			changed = true
		}
		if u.LicensePlate != nil {
			d.LicensePlate = strings.TrimSpace(*u.LicensePlate)
			changed = true
		}
		if u.DriverLicenseNumber != nil {
			d.DriverLicenseNumber = strings.TrimSpace(*u.DriverLicenseNumber)
			changed = true
		}
		if u.IsAvailable != nil {
			d.IsAvailable = *u.IsAvailable
			changed = true
		}
	}

	if r := p.Restaurant; r != nil {
		if u.BusinessLicense != nil {
			r.BusinessLicense = strings.TrimSpace(*u.BusinessLicense)
			changed = true
		}
		if u.TaxID != nil {
			r.TaxID = strings.TrimSpace(*u.TaxID)
			changed = true
		}
	}

	return changed
}

// ChangePassword keeps the caller's own session and revokes every other one.
func (s *accountService) ChangePassword(ctx context.Context, accountID, sessionID uuid.UUID, req *request.ChangePasswordRequest) error {
	// 1. Validate
	fields := utils.ValidateStruct(req)

	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return err
	}

	fields = checkPassword(s.passwords, fields,
		"new_password", req.NewPassword, "new_password_confirm", req.NewPasswordConfirm,
		account.Email, account.FullName)
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}

	// 2. Old password
	ok, err := s.hasher.Verify(req.OldPassword, account.PasswordHash)
	if err != nil {
		s.log.Error("Stored password hash unreadable", zap.Error(err), zap.String("account_id", accountID.String()))
	}
	if !ok {
		s.log.Warn("Change password with wrong old password", zap.String("account_id", accountID.String()))
		return apperror.InvalidOldPassword()
	}

	// 3. Replace hash
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return apperror.Internal(err)
	}
	if err := s.repo.Account.UpdatePassword(ctx, accountID, hash); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("account_id", accountID.String()))
		return apperror.Internal(err)
	}

	// 4. Other sessions
	n, err := s.issuer.InvalidateAll(ctx, accountID, sessionID)
	if err != nil {
		s.log.Error("Failed to revoke other sessions", zap.Error(err), zap.String("account_id", accountID.String()))
		return apperror.Internal(err)
	}

	metrics.RecordPasswordChange()
	s.log.Info("Password changed",
		zap.String("account_id", accountID.String()),
		zap.Int64("sessions_revoked", n))
	return nil
}

func (s *accountService) findAccount(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	account, err := s.repo.Account.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find account", zap.Error(err), zap.String("account_id", id.String()))
		return nil, apperror.Internal(err)
	}
	if account == nil {
		return nil, apperror.AccountNotFound()
	}
	return account, nil
}
