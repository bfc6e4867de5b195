package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func revokedKey(sessionID string) string {
	return "session:revoked:" + sessionID
}

// RedisStore keeps revoked session ids in Redis, each key expiring with the
// token it belongs to. Tokens without expiry are remembered indefinitely.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	var ttl time.Duration
	if !until.IsZero() {
		ttl = time.Until(until)
		if ttl <= 0 {
			return nil
		}
	}
	return s.rdb.Set(ctx, revokedKey(sessionID), "1", ttl).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
