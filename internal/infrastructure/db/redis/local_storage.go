package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storage"

// LocalStorage is a per-session string key-value store backed by Redis.
// Key format: storage:<session_id>:<key>
type LocalStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocalStorage wraps client. A ttl of zero keeps values forever.
func NewLocalStorage(client *redis.Client, ttl time.Duration) *LocalStorage {
	return &LocalStorage{client: client, ttl: ttl}
}

// Get returns the value stored under key, or ok=false when there is none.
func (s *LocalStorage) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage get: %w", err)
	}
	return v, true, nil
}

// Set stores value under key, refreshing the ttl.
func (s *LocalStorage) Set(ctx context.Context, sessionID, key, value string) error {
	if err := s.client.Set(ctx, s.key(sessionID, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("storage set: %w", err)
	}
	return nil
}

// Remove deletes keys; missing keys are not an error.
func (s *LocalStorage) Remove(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(sessionID, k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("storage remove: %w", err)
	}
	return nil
}

func (s *LocalStorage) key(sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, sessionID, key)
}
