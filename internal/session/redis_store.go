package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
)

// RedisStore keeps session state in Redis with a TTL, so resolved users and
// search cursors survive restarts of this process without ever being
// authoritative; the upstream API remains the source of truth.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) SaveUser(ctx context.Context, token string, u domain.User) error {
	return r.set(ctx, cacheKey("user", token), u)
}

func (r *RedisStore) LoadUser(ctx context.Context, token string) (*domain.User, error) {
	var u domain.User
	if err := r.get(ctx, cacheKey("user", token), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *RedisStore) SaveSearch(ctx context.Context, token string, s SearchState) error {
	return r.set(ctx, cacheKey("search", token), s)
}

func (r *RedisStore) LoadSearch(ctx context.Context, token string) (*SearchState, error) {
	var s SearchState
	if err := r.get(ctx, cacheKey("search", token), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, cacheKey("user", token), cacheKey("search", token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

func (r *RedisStore) get(ctx context.Context, key string, v interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("failed to load session state: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode session state: %w", err)
	}
	return nil
}
