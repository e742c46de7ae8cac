package usecase

import (
	"context"
	"testing"

	"foodie-backend/internal/apperror"
	"foodie-backend/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGetCurrentAccount(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "jane@example.com", "customer")

	got, err := h.svc.Account.GetCurrentAccount(context.Background(), uuid.MustParse(res.User.ID))

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "Jane Doe", got.Name)
	require.NotNil(t, got.Profile)
}

func TestGetCurrentAccount_NotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Account.GetCurrentAccount(context.Background(), uuid.New())

	requireKind(t, err, apperror.KindNotFound)
}

func TestGetCurrentAccount_RepairsMissingProfile(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "rider@example.com", "delivery")
	id := uuid.MustParse(res.User.ID)
	h.store.dropProfile(id)

	got, err := h.svc.Account.GetCurrentAccount(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	require.NotNil(t, got.Profile.DriverFields)
	assert.True(t, got.Profile.IsAvailable)
	assert.NotNil(t, h.store.profile(id))
}

func TestUpdateProfile_PartialLeavesOthersUnchanged(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "jane@example.com", "customer")
	id := uuid.MustParse(res.User.ID)

	got, err := h.svc.Account.UpdateProfile(context.Background(), id, &request.UpdateProfileRequest{
		PhoneNumber: strPtr("+14155550100"),
	})

	require.NoError(t, err)
	require.NotNil(t, got.PhoneNumber)
	assert.Equal(t, "+14155550100", *got.PhoneNumber)
	assert.Equal(t, "Jane Doe", got.FullName)
	assert.Equal(t, "jane@example.com", got.Email)
}

func TestUpdateProfile_AccountAndNestedProfile(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "jane@example.com", "customer")
	id := uuid.MustParse(res.User.ID)
	lat, lng := 52.52, 13.405

	got, err := h.svc.Account.UpdateProfile(context.Background(), id, &request.UpdateProfileRequest{
		FullName:    strPtr("  Jane Q. Doe "),
		DateOfBirth: strPtr("1990-04-01"),
		Address:     strPtr("1 Main St"),
		Avatar:      strPtr("https://cdn.example.com/a.png"),
		Latitude:    &lat,
		Longitude:   &lng,
		Profile: &request.ProfileUpdate{
			DietaryRestrictions: []string{"vegan"},
			FavoriteCuisines:    []string{"thai", "sichuan"},
			NotificationPreferences: map[string]any{
				"email": true,
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Doe", got.FullName)
	require.NotNil(t, got.DateOfBirth)
	assert.Equal(t, "1990-04-01", *got.DateOfBirth)
	assert.Equal(t, "1 Main St", got.Address)
	require.NotNil(t, got.Avatar)
	assert.InDelta(t, lat, *got.Latitude, 1e-9)
	require.NotNil(t, got.Profile)
	assert.Equal(t, []string{"vegan"}, got.Profile.DietaryRestrictions)
	assert.Equal(t, []string{"thai", "sichuan"}, h.store.profile(id).FavoriteCuisines)
}

func TestUpdateProfile_EmptyClearsOptionalFields(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "jane@example.com", "customer")
	id := uuid.MustParse(res.User.ID)
	ctx := context.Background()

	_, err := h.svc.Account.UpdateProfile(ctx, id, &request.UpdateProfileRequest{PhoneNumber: strPtr("+14155550100")})
	require.NoError(t, err)

	got, err := h.svc.Account.UpdateProfile(ctx, id, &request.UpdateProfileRequest{PhoneNumber: strPtr("")})

	require.NoError(t, err)
	assert.Nil(t, got.PhoneNumber)
}

func TestUpdateProfile_InvalidFields(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "jane@example.com", "customer")
	id := uuid.MustParse(res.User.ID)
	badLat := 123.0

	_, err := h.svc.Account.UpdateProfile(context.Background(), id, &request.UpdateProfileRequest{
		FullName:    strPtr("   "),
		PhoneNumber: strPtr("call me"),
		DateOfBirth: strPtr("01/04/1990"),
		Latitude:    &badLat,
	})

	ae := requireKind(t, err, apperror.KindValidation)
	assert.Contains(t, ae.Fields, "full_name")
	assert.Contains(t, ae.Fields, "phone_number")
	assert.Contains(t, ae.Fields, "date_of_birth")
	assert.Contains(t, ae.Fields, "current_latitude")
}

func TestUpdateProfile_ForeignKindFieldsIgnored(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "jane@example.com", "customer")
	id := uuid.MustParse(res.User.ID)

	got, err := h.svc.Account.UpdateProfile(context.Background(), id, &request.UpdateProfileRequest{
		Profile: &request.ProfileUpdate{
			LicensePlate: strPtr("B-XY 123"),
			TaxID:        strPtr("DE123"),
		},
	})

	require.NoError(t, err)
	assert.Nil(t, got.Profile.DriverFields)
	assert.Nil(t, got.Profile.RestaurantFields)
	p := h.store.profile(id)
	assert.Nil(t, p.Driver)
	assert.Nil(t, p.Restaurant)
}

func TestUpdateProfile_DriverFields(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "rider@example.com", "delivery")
	id := uuid.MustParse(res.User.ID)
	off := false

	_, err := h.svc.Account.UpdateProfile(context.Background(), id, &request.UpdateProfileRequest{
		Profile: &request.ProfileUpdate{
			VehicleType:  strPtr("bicycle"),
			LicensePlate: strPtr("B-XY 123"),
			IsAvailable:  &off,
		},
	})

	require.NoError(t, err)
	d := h.store.profile(id).Driver
	require.NotNil(t, d)
	assert.Equal(t, "bicycle", d.VehicleType)
	assert.Equal(t, "B-XY 123", d.LicensePlate)
	assert.False(t, d.IsAvailable)
}

func TestUpdateProfile_FailedProfileWriteKeepsAccount(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "jane@example.com", "customer")
	id := uuid.MustParse(res.User.ID)
	h.store.failProfileWrites = true

	_, err := h.svc.Account.UpdateProfile(context.Background(), id, &request.UpdateProfileRequest{
		FullName: strPtr("Someone Else"),
		Profile:  &request.ProfileUpdate{DietaryRestrictions: []string{"halal"}},
	})

	requireKind(t, err, apperror.KindInternal)
	assert.Equal(t, "Jane Doe", h.store.account(id).FullName)
	assert.Empty(t, h.store.profile(id).DietaryRestrictions)
}

func TestUpdateProfile_NotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Account.UpdateProfile(context.Background(), uuid.New(), &request.UpdateProfileRequest{
		Address: strPtr("nowhere"),
	})

	requireKind(t, err, apperror.KindNotFound)
}

// ==================== CHANGE PASSWORD ====================

func changeReq(old, next string) *request.ChangePasswordRequest {
	return &request.ChangePasswordRequest{OldPassword: old, NewPassword: next, NewPasswordConfirm: next}
}

func TestChangePassword_OldFailsNewWorks(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "jane@example.com", "customer")
	id := uuid.MustParse(res.User.ID)

	const next = "N3w!Secret#42"
	err := h.svc.Account.ChangePassword(context.Background(), id, uuid.Nil, changeReq(strongPassword, next))
	require.NoError(t, err)

	_, err = login(h, "jane@example.com", strongPassword)
	requireKind(t, err, apperror.KindInvalidCredentials)

	_, err = login(h, "jane@example.com", next)
	assert.NoError(t, err)
}

func TestChangePassword_RevokesOtherSessions(t *testing.T) {
	h := newHarness(t)
	first := mustRegister(t, h, "jane@example.com", "customer")
	second, err := login(h, "jane@example.com", strongPassword)
	require.NoError(t, err)
	ctx := context.Background()

	claims, err := h.issuer.VerifyAccess(ctx, second.Tokens.Access)
	require.NoError(t, err)

	err = h.svc.Account.ChangePassword(ctx, claims.AccountID, claims.SessionID, changeReq(strongPassword, "N3w!Secret#42"))
	require.NoError(t, err)

	_, err = h.svc.Auth.Refresh(ctx, first.Tokens.Refresh)
	requireKind(t, err, apperror.KindInvalidToken)

	_, err = h.svc.Auth.Refresh(ctx, second.Tokens.Refresh)
	assert.NoError(t, err)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "jane@example.com", "customer")

	err := h.svc.Account.ChangePassword(context.Background(), uuid.MustParse(res.User.ID), uuid.Nil,
		changeReq("Wr0ng!Pass9", "N3w!Secret#42"))

	ae := requireKind(t, err, apperror.KindInvalidCredentials)
	assert.Equal(t, "invalid_old_password", ae.Code)
}

func TestChangePassword_CollectsNewPasswordProblems(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "jane@example.com", "customer")

	err := h.svc.Account.ChangePassword(context.Background(), uuid.MustParse(res.User.ID), uuid.Nil,
		&request.ChangePasswordRequest{OldPassword: strongPassword, NewPassword: "123", NewPasswordConfirm: "1234"})

	ae := requireKind(t, err, apperror.KindValidation)
	assert.Contains(t, ae.Fields, "new_password")
	assert.Equal(t, msgPasswordMismatch, ae.Fields["new_password_confirm"])
}

func TestChangePassword_PasswordOverByteLimit(t *testing.T) {
	h := newHarness(t)
	res := mustRegister(t, h, "jane@example.com", "customer")

	err := h.svc.Account.ChangePassword(context.Background(), uuid.MustParse(res.User.ID), uuid.Nil,
		changeReq(strongPassword, longPassword))

	ae := requireKind(t, err, apperror.KindValidation)
	assert.Contains(t, ae.Fields["new_password"], "72 bytes")
}

func TestChangePassword_UnknownAccount(t *testing.T) {
	h := newHarness(t)

	err := h.svc.Account.ChangePassword(context.Background(), uuid.New(), uuid.Nil, changeReq(strongPassword, "N3w!Secret#42"))

	requireKind(t, err, apperror.KindNotFound)
}

