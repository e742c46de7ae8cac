package messaging

import (
	"context"
	"time"
)

const (
	RoutingAccountRegistered      = "account.registered"
	RoutingPasswordResetRequested = "account.password_reset.requested"
)

// EventPublisher delivers account events to downstream consumers (mailer, analytics).
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, evt AccountRegistered) error
	PublishPasswordResetRequested(ctx context.Context, evt PasswordResetRequested) error
	Close() error
}

type AccountRegistered struct {
	AccountID  string    `json:"account_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Kind       string    `json:"user_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PasswordResetRequested carries the link the mailer sends. It is the only
// place the raw reset token leaves the service.
type PasswordResetRequested struct {
	AccountID  string    `json:"account_id"`
	Email      string    `json:"email"`
	ResetURL   string    `json:"reset_url"`
	ExpiresAt  time.Time `json:"expires_at"`
	OccurredAt time.Time `json:"occurred_at"`
}
