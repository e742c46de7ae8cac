package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session backs one refresh token. Only the sha256 of the token is stored.
type Session struct {
	BaseSimple
	AccountID uuid.UUID  `db:"account_id"`
	TokenHash string     `db:"token_hash"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

// Active reports whether the session can still mint access tokens at now.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
