package messaging

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher stands in for the broker when AMQP_URL is empty.
// Reset URLs are not logged since they embed the raw token.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("publisher", "log"))}
}

func (p *LogPublisher) PublishAccountRegistered(_ context.Context, evt AccountRegistered) error {
	p.log.Info("Event published",
		zap.String("event", RoutingAccountRegistered),
		zap.String("account_id", evt.AccountID),
		zap.String("user_type", evt.Kind),
	)
	return nil
}

func (p *LogPublisher) PublishPasswordResetRequested(_ context.Context, evt PasswordResetRequested) error {
	p.log.Info("Event published",
		zap.String("event", RoutingPasswordResetRequested),
		zap.String("account_id", evt.AccountID),
		zap.Time("expires_at", evt.ExpiresAt),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
