package entity

import (
	"time"

	"github.com/google/uuid"
)

// DriverDetails only exists on delivery accounts.
type DriverDetails struct {
	VehicleType         string `db:"vehicle_type"`
	LicensePlate        string `db:"license_plate"`
	DriverLicenseNumber string `db:"driver_license_number"`
	IsAvailable         bool   `db:"is_available"`
}

// RestaurantDetails only exists on restaurant owner accounts.
type RestaurantDetails struct {
	BusinessLicense string `db:"business_license"`
	TaxID           string `db:"tax_id"`
}

// Profile is the one-to-one extension of an Account.
type Profile struct {
	AccountID               uuid.UUID      `db:"account_id"`
	NotificationPreferences map[string]any `db:"notification_preferences"`
	DietaryRestrictions     []string       `db:"dietary_restrictions"`
	FavoriteCuisines        []string       `db:"favorite_cuisines"`

	Driver     *DriverDetails
	Restaurant *RestaurantDetails

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewProfile builds the default profile for a freshly created account.
func NewProfile(accountID uuid.UUID, kind AccountKind, now time.Time) *Profile {
	p := &Profile{
		AccountID:               accountID,
		NotificationPreferences: map[string]any{},
		DietaryRestrictions:     []string{},
		FavoriteCuisines:        []string{},
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	switch kind {
	case KindDelivery:
		p.Driver = &DriverDetails{IsAvailable: true}
	case KindRestaurant:
		p.Restaurant = &RestaurantDetails{}
	}

	return p
}
