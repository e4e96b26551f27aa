package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// sessionGrace keeps an expired session readable for a while so confirm can
// report "expired" instead of "no pending session".
const sessionGrace = 30 * time.Minute

// RedisStore keeps sessions in Redis so verification survives restarts and
// can be shared across processes.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(discordID int64) string {
	return "verify:" + strconv.FormatInt(discordID, 10)
}

func (r *RedisStore) Get(ctx context.Context, discordID int64) (*Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(discordID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}

	ttl := time.Until(s.ExpiresAt) + sessionGrace
	return r.client.Set(ctx, sessionKey(s.DiscordID), raw, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, discordID int64) error {
	return r.client.Del(ctx, sessionKey(discordID)).Err()
}
