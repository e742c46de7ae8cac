package response

import (
	"encoding/json"
	"testing"
	"time"

	"foodie-backend/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountToResponse_DriverProfileFlattened(t *testing.T) {
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	account := &entity.Account{
		Base:         entity.Base{ID: uuid.New()},
		Email:        "driver@example.com",
		PasswordHash: "$2a$10$secret",
		FullName:     "Dee Driver",
		Kind:         entity.KindDelivery,
		DateOfBirth:  &dob,
	}
	profile := entity.NewProfile(account.ID, entity.KindDelivery, time.Now())

	raw, err := json.Marshal(AccountToResponse(account, profile))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.NotContains(t, string(raw), "$2a$10$secret")
	assert.Equal(t, "1990-05-17", body["date_of_birth"])
	assert.Equal(t, "Dee Driver", body["name"])

	prof := body["profile"].(map[string]any)
	assert.Equal(t, true, prof["is_available"])
	assert.NotContains(t, prof, "tax_id")
}

func TestProfileToResponse_CustomerHasNoKindFields(t *testing.T) {
	profile := entity.NewProfile(uuid.New(), entity.KindCustomer, time.Now())

	raw, err := json.Marshal(ProfileToResponse(profile))
	require.NoError(t, err)

	assert.JSONEq(t, `{"notification_preferences":{},"dietary_restrictions":[],"favorite_cuisines":[]}`, string(raw))
}
