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

	"go.uber.org/zap"
)

const msgPasswordMismatch = "Password fields do not match."

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkPassword adds strength and confirmation problems to fields. Fields that
// already failed shape validation are left alone.
func checkPassword(v *credential.Validator, fields map[string]string,
	pwField, password, confirmField, confirmation string, identity ...string) map[string]string {
	if _, bad := fields[pwField]; !bad && password != "" {
		if err := v.ValidateStrength(password, identity...); err != nil {
			var weak *credential.WeakPasswordError
			if errors.As(err, &weak) {
				fields = setField(fields, pwField, strings.Join(weak.Reasons, " "))
			}
		}
	}

	if _, bad := fields[confirmField]; !bad && password != "" && confirmation != "" {
		if credential.ValidateConfirmation(password, confirmation) != nil {
			fields = setField(fields, confirmField, msgPasswordMismatch)
		}
	}

	return fields
}

func setField(fields map[string]string, field, msg string) map[string]string {
	if fields == nil {
		fields = make(map[string]string)
	}
	fields[field] = msg
	return fields
}

// ensureProfile returns the account's profile, recreating a missing one.
func ensureProfile(ctx context.Context, profiles repository.ProfileRepository, account *entity.Account, log *zap.Logger) (*entity.Profile, error) {
	profile, err := profiles.FindByAccountID(ctx, account.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if profile != nil {
		return profile, nil
	}

	log.Warn("Profile missing, recreating", zap.String("account_id", account.ID.String()))

	profile = entity.NewProfile(account.ID, account.Kind, time.Now())
	if err := profiles.Create(ctx, profile); err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func parseDate(s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// emptyToNil maps "" to nil so optional columns can be cleared.
func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
