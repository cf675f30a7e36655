package statestore

import (
	"context"
	"sync"

	"github.com/eslsoft/lingolive/internal/repository"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore keeps serialized progress in process memory.
func NewMemoryStore() repository.StateRepository {
	return &memoryStore{data: make(map[string][]byte)}
}

func (s *memoryStore) Load(ctx context.Context, userID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[Key(userID)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (s *memoryStore) Save(ctx context.Context, userID string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[Key(userID)] = append([]byte(nil), data...)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, Key(userID))
	return nil
}
