package statestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eslsoft/lingolive/internal/repository"
	"github.com/eslsoft/lingolive/internal/store"
)

// Key returns the storage key for a user's serialized progress.
func Key(userID string) string {
	return store.StorageKey + ":" + userID
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore keeps serialized progress in redis. A zero ttl keeps keys
// until they are deleted.
func NewRedisStore(client *redis.Client, ttl time.Duration) repository.StateRepository {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Load(ctx context.Context, userID string) ([]byte, error) {
	data, err := s.client.Get(ctx, Key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load state: %w", err)
	}
	return data, nil
}

func (s *redisStore) Save(ctx context.Context, userID string, data []byte) error {
	if err := s.client.Set(ctx, Key(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}
