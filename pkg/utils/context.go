package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	AccountIDKey   contextKey = "account_id"
	AccountKindKey contextKey = "account_kind"
	SessionIDKey   contextKey = "session_id"
)

// SetAuthContext stores the authenticated principal resolved from the access token.
func SetAuthContext(ctx context.Context, accountID uuid.UUID, kind string, sessionID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, AccountIDKey, accountID)
	ctx = context.WithValue(ctx, AccountKindKey, kind)
	ctx = context.WithValue(ctx, SessionIDKey, sessionID)
	return ctx
}

func GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AccountIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func GetAccountKindFromContext(ctx context.Context) (string, bool) {
	kind, ok := ctx.Value(AccountKindKey).(string)
	return kind, ok
}

func GetSessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(SessionIDKey).(uuid.UUID)
	return id, ok
}
