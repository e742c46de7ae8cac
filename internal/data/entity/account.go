package entity

import (
	"time"
)

// AccountKind is the closed set of account types. It is fixed at creation.
type AccountKind string

const (
	KindCustomer   AccountKind = "customer"
	KindRestaurant AccountKind = "restaurant"
	KindDelivery   AccountKind = "delivery"
	KindAdmin      AccountKind = "admin"
)

// AccountKinds lists every valid kind, in display order.
var AccountKinds = []AccountKind{KindCustomer, KindRestaurant, KindDelivery, KindAdmin}

func (k AccountKind) Valid() bool {
	switch k {
	case KindCustomer, KindRestaurant, KindDelivery, KindAdmin:
		return true
	}
	return false
}

// ParseAccountKind returns the kind for s, or false when s is not a known kind.
func ParseAccountKind(s string) (AccountKind, bool) {
	k := AccountKind(s)
	return k, k.Valid()
}

type Account struct {
	Base
	Email        string      `db:"email"`
	PasswordHash string      `db:"password_hash"`
	FullName     string      `db:"full_name"`
	Phone        *string     `db:"phone_number"`
	Kind         AccountKind `db:"account_kind"`
	DateOfBirth  *time.Time  `db:"date_of_birth"`
	Address      string      `db:"address"`
	AvatarURL    *string     `db:"avatar_url"`
	IsActive     bool        `db:"is_active"`
	IsVerified   bool        `db:"is_verified"`
	Latitude     *float64    `db:"current_latitude"`
	Longitude    *float64    `db:"current_longitude"`
}
