package response

import (
	"time"

	"foodie-backend/internal/data/entity"
)

// AccountResponse never carries the password hash.
type AccountResponse struct {
	ID          string           `json:"id"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	FullName    string           `json:"full_name"`
	PhoneNumber *string          `json:"phone_number"`
	UserType    string           `json:"user_type"`
	Avatar      *string          `json:"avatar"`
	DateOfBirth *string          `json:"date_of_birth"`
	Address     string           `json:"address"`
	IsActive    bool             `json:"is_active"`
	IsVerified  bool             `json:"is_verified"`
	Latitude    *float64         `json:"current_latitude"`
	Longitude   *float64         `json:"current_longitude"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Profile     *ProfileResponse `json:"profile,omitempty"`
}

type DriverFields struct {
	VehicleType         string `json:"vehicle_type"`
	LicensePlate        string `json:"license_plate"`
	DriverLicenseNumber string `json:"driver_license_number"`
	IsAvailable         bool   `json:"is_available"`
}

type RestaurantFields struct {
	BusinessLicense string `json:"business_license"`
	TaxID           string `json:"tax_id"`
}

// ProfileResponse flattens the kind-specific fields; absent kinds add nothing.
type ProfileResponse struct {
	NotificationPreferences map[string]any `json:"notification_preferences"`
	DietaryRestrictions     []string       `json:"dietary_restrictions"`
	FavoriteCuisines        []string       `json:"favorite_cuisines"`
	*DriverFields
	*RestaurantFields
}

func AccountToResponse(account *entity.Account, profile *entity.Profile) AccountResponse {
	resp := AccountResponse{
		ID:          account.ID.String(),
		Email:       account.Email,
		Name:        account.FullName,
		FullName:    account.FullName,
		PhoneNumber: account.Phone,
		UserType:    string(account.Kind),
		Avatar:      account.AvatarURL,
		Address:     account.Address,
		IsActive:    account.IsActive,
		IsVerified:  account.IsVerified,
		Latitude:    account.Latitude,
		Longitude:   account.Longitude,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}

	if account.DateOfBirth != nil {
		dob := account.DateOfBirth.Format(time.DateOnly)
		resp.DateOfBirth = &dob
	}

	if profile != nil {
		resp.Profile = ProfileToResponse(profile)
	}

	return resp
}

func ProfileToResponse(profile *entity.Profile) *ProfileResponse {
	resp := &ProfileResponse{
		NotificationPreferences: profile.NotificationPreferences,
		DietaryRestrictions:     profile.DietaryRestrictions,
		FavoriteCuisines:        profile.FavoriteCuisines,
	}

	if d := profile.Driver; d != nil {
		resp.DriverFields = &DriverFields{
			VehicleType:         d.VehicleType,
			LicensePlate:        d.LicensePlate,
			DriverLicenseNumber: d.DriverLicenseNumber,
			IsAvailable:         d.IsAvailable,
		}
	}
	if rd := profile.Restaurant; rd != nil {
		resp.RestaurantFields = &RestaurantFields{
			BusinessLicense: rd.BusinessLicense,
			TaxID:           rd.TaxID,
		}
	}

	return resp
}
