package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisStore implements Store on top of Redis, for deployments where the
// local snapshot should survive the process.
type redisStore struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed blob store. All keys are namespaced
// under prefix to keep the instance shareable.
func NewRedisStore(ctx context.Context, addr, password string, db int, prefix string, logger zerolog.Logger) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger = logger.With().Str("store", "redis").Logger()
	logger.Info().Str("addr", addr).Msg("blob store initialised")

	return &redisStore{client: client, prefix: prefix, logger: logger}, nil
}

func (s *redisStore) key(key string) string {
	return s.prefix + key
}

// GetString retrieves the value for key.
func (s *redisStore) GetString(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to read blob")
		return "", false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return value, true, nil
}

// SetString stores value under key without expiry.
func (s *redisStore) SetString(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to write blob")
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client.
func (s *redisStore) Close() error {
	return s.client.Close()
}
