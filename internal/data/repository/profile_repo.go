package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"foodie-backend/internal/data/entity"
	"foodie-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type ProfileRepository interface {
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*entity.Profile, error)
	// Create is a no-op when the account already has a profile.
	Create(ctx context.Context, profile *entity.Profile) error
}

type profileRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProfileRepository(db database.PgxIface, log *zap.Logger) ProfileRepository {
	return &profileRepository{
		db:  db,
		log: log.With(zap.String("repository", "profile")),
	}
}

// execer is satisfied by both the pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *profileRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*entity.Profile, error) {
	query := `
		SELECT p.account_id, p.notification_preferences, p.dietary_restrictions, p.favorite_cuisines,
		       p.vehicle_type, p.license_plate, p.driver_license_number, p.is_available,
		       p.business_license, p.tax_id, p.created_at, p.updated_at, a.account_kind
		FROM account_profiles p
		JOIN accounts a ON a.id = p.account_id
		WHERE p.account_id = $1
	`

	var (
		profile    entity.Profile
		prefs      []byte
		driver     entity.DriverDetails
		restaurant entity.RestaurantDetails
		kind       string
	)

	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&profile.AccountID,
		&prefs,
		&profile.DietaryRestrictions,
		&profile.FavoriteCuisines,
		&driver.VehicleType,
		&driver.LicensePlate,
		&driver.DriverLicenseNumber,
		&driver.IsAvailable,
		&restaurant.BusinessLicense,
		&restaurant.TaxID,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&kind,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find profile",
			zap.Error(err),
			zap.String("account_id", accountID.String()),
		)
		return nil, fmt.Errorf("find profile for account %s: %w", accountID.String(), err)
	}

	profile.NotificationPreferences = map[string]any{}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &profile.NotificationPreferences); err != nil {
			return nil, fmt.Errorf("decode notification preferences: %w", err)
		}
	}
	if profile.DietaryRestrictions == nil {
		profile.DietaryRestrictions = []string{}
	}
	if profile.FavoriteCuisines == nil {
		profile.FavoriteCuisines = []string{}
	}

	switch entity.AccountKind(kind) {
	case entity.KindDelivery:
		profile.Driver = &driver
	case entity.KindRestaurant:
		profile.Restaurant = &restaurant
	}

	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	if err := insertProfile(ctx, r.db, profile); err != nil {
		r.log.Error("Failed to create profile",
			zap.Error(err),
			zap.String("account_id", profile.AccountID.String()),
		)
		return fmt.Errorf("create profile for account %s: %w", profile.AccountID.String(), err)
	}
	return nil
}

func updateProfile(ctx context.Context, db execer, profile *entity.Profile) error {
	args, err := profileArgs(profile)
	if err != nil {
		return err
	}
	// created_at is not updatable
	args = append(args[:10], args[11])

	query := `
		UPDATE account_profiles
		SET notification_preferences = $2, dietary_restrictions = $3, favorite_cuisines = $4,
		    vehicle_type = $5, license_plate = $6, driver_license_number = $7, is_available = $8,
		    business_license = $9, tax_id = $10, updated_at = $11
		WHERE account_id = $1
	`

	result, err := db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile for account %s: %w", profile.AccountID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func insertProfile(ctx context.Context, db execer, profile *entity.Profile) error {
	args, err := profileArgs(profile)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO account_profiles (account_id, notification_preferences, dietary_restrictions,
		                              favorite_cuisines, vehicle_type, license_plate,
		                              driver_license_number, is_available, business_license,
		                              tax_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (account_id) DO NOTHING
	`

	_, err = db.Exec(ctx, query, args...)
	return err
}

// profileArgs flattens the profile into the column order used by insert and update.
func profileArgs(p *entity.Profile) ([]any, error) {
	prefs := p.NotificationPreferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	rawPrefs, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("encode notification preferences: %w", err)
	}

	driver := entity.DriverDetails{IsAvailable: true}
	if p.Driver != nil {
		driver = *p.Driver
	}
	var restaurant entity.RestaurantDetails
	if p.Restaurant != nil {
		restaurant = *p.Restaurant
	}

	return []any{
		p.AccountID,
		rawPrefs,
		nonNil(p.DietaryRestrictions),
		nonNil(p.FavoriteCuisines),
		driver.VehicleType,
		driver.LicensePlate,
		driver.DriverLicenseNumber,
		driver.IsAvailable,
		restaurant.BusinessLicense,
		restaurant.TaxID,
		p.CreatedAt,
		p.UpdatedAt,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
