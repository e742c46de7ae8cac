package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodie-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound = errors.New("token not found or expired")
	ErrStoreDisabled = errors.New("redis token store not configured")
)

// ResetTokenStore keeps single-use password reset tokens. Keys hold the
// sha256 of the token, values the account id.
type ResetTokenStore struct {
	rdb    *redis.Client
	prefix string
}

func NewResetTokenStore(rdb *redis.Client) *ResetTokenStore {
	return &ResetTokenStore{rdb: rdb, prefix: "pwreset:"}
}

func (s *ResetTokenStore) Save(ctx context.Context, token string, accountID uuid.UUID, ttl time.Duration) error {
	if s.rdb == nil {
		return ErrStoreDisabled
	}
	if strings.TrimSpace(token) == "" || ttl <= 0 {
		return fmt.Errorf("reset token save: token and ttl are required")
	}

	if err := s.rdb.Set(ctx, s.key(token), accountID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("reset token save: %w", err)
	}
	return nil
}

// atomic GET + DEL
const consumeScript = `
local v = redis.call("GET", KEYS[1])
if not v then
  return nil
end
redis.call("DEL", KEYS[1])
return v
`

// Consume returns the account id once; later calls get ErrTokenNotFound.
func (s *ResetTokenStore) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	if s.rdb == nil {
		return uuid.Nil, ErrStoreDisabled
	}
	if strings.TrimSpace(token) == "" {
		return uuid.Nil, ErrTokenNotFound
	}

	res, err := s.rdb.Eval(ctx, consumeScript, []string{s.key(token)}).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrTokenNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("reset token consume: %w", err)
	}

	raw, ok := res.(string)
	if !ok {
		return uuid.Nil, ErrTokenNotFound
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrTokenNotFound
	}
	return id, nil
}

// Peek reads the account id without consuming the token.
func (s *ResetTokenStore) Peek(ctx context.Context, token string) (uuid.UUID, error) {
	if s.rdb == nil {
		return uuid.Nil, ErrStoreDisabled
	}
	if strings.TrimSpace(token) == "" {
		return uuid.Nil, ErrTokenNotFound
	}

	raw, err := s.rdb.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrTokenNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("reset token peek: %w", err)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrTokenNotFound
	}
	return id, nil
}

func (s *ResetTokenStore) key(token string) string {
	return s.prefix + utils.HashToken(token)
}
