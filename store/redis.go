package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient is the subset of redis commands used to store artifacts. *redis.Client
// satisfies it.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps artifacts as redis string values
type RedisStore struct {
	client RedisClient
	logger *slog.Logger
}

func NewRedisStore(client RedisClient, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{client: client, logger: logger.With("component", "store.redis")}
}

// NewRedisClient connects to a redis server
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to reach redis at %s, %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s, %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("unable to get artifact, %w", err)
	}
	s.logger.Debug("read artifact", "key", key, "bytes", len(data))
	return data, nil
}

// Put stores the artifact without expiration
func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("unable to set artifact, %w", err)
	}
	s.logger.Info("wrote artifact", "key", key, "bytes", len(data))
	return nil
}

var _ ArtifactStore = (*RedisStore)(nil)
