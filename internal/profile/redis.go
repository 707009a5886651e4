package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one hash per chat under profile:<chatID>.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient creates a Redis client with the pool settings used
// across the service.
func NewRedisClient(address, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         address,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

func profileKey(chatID int64) string {
	return fmt.Sprintf("profile:%d", chatID)
}

func (s *RedisStore) Load(ctx context.Context, chatID int64) (map[string]string, error) {
	answers, err := s.client.HGetAll(ctx, profileKey(chatID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load profile %d: %w", chatID, err)
	}
	return answers, nil
}

func (s *RedisStore) Save(ctx context.Context, chatID int64, answers map[string]string) error {
	key := profileKey(chatID)

	// Wholesale overwrite: stale labels from a previous template must not
	// survive into the new profile.
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(answers) > 0 {
		pipe.HSet(ctx, key, answers)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save profile %d: %w", chatID, err)
	}
	return nil
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the underlying Redis connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
