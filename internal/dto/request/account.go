package request

// UpdateProfileRequest is a partial update: nil means "not supplied".
// Keys not declared here (id, email, user_type, is_verified, timestamps)
// are dropped by the JSON decoder.
type UpdateProfileRequest struct {
	FullName    *string        `json:"full_name" validate:"omitnil,min=1,max=255"`
	PhoneNumber *string        `json:"phone_number" validate:"omitempty,phone"`
	DateOfBirth *string        `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address     *string        `json:"address" validate:"omitnil,max=1000"`
	Avatar      *string        `json:"avatar" validate:"omitempty,url,max=500"`
	Latitude    *float64       `json:"current_latitude" validate:"omitnil,latitude"`
	Longitude   *float64       `json:"current_longitude" validate:"omitnil,longitude"`
	Profile     *ProfileUpdate `json:"profile"`
}

// ProfileUpdate fields that do not apply to the account's kind are ignored.
type ProfileUpdate struct {
	NotificationPreferences map[string]any `json:"notification_preferences"`
	DietaryRestrictions     []string       `json:"dietary_restrictions" validate:"omitempty,max=50,dive,min=1,max=50"`
	FavoriteCuisines        []string       `json:"favorite_cuisines" validate:"omitempty,max=50,dive,min=1,max=50"`

	// delivery
	VehicleType         *string `json:"vehicle_type" validate:"omitnil,max=50"`
	LicensePlate        *string `json:"license_plate" validate:"omitnil,max=20"`
	DriverLicenseNumber *string `json:"driver_license_number" validate:"omitnil,max=50"`
	IsAvailable         *bool   `json:"is_available"`

	// restaurant
	BusinessLicense *string `json:"business_license" validate:"omitnil,max=100"`
	TaxID           *string `json:"tax_id" validate:"omitnil,max=50"`
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}
