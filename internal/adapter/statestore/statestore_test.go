package statestore

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/eslsoft/lingolive/internal/repository"
)

func TestKey(t *testing.T) {
	if got := Key("u1"); got != "lingo-live-storage:u1" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(), "u1")
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	exerciseStore(t, NewRedisStore(client, time.Minute), "test-"+uuid.NewString())
}

func exerciseStore(t *testing.T, s repository.StateRepository, userID string) {
	t.Helper()
	ctx := context.Background()

	data, err := s.Load(ctx, userID)
	if err != nil || data != nil {
		t.Fatalf("expected empty load, got %q err=%v", data, err)
	}

	payload := []byte(`{"state":{},"version":0}`)
	if err := s.Save(ctx, userID, payload); err != nil {
		t.Fatalf("save: %v", err)
	}
	payload[0] = 'x'

	data, err = s.Load(ctx, userID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(data, []byte(`{"state":{},"version":0}`)) {
		t.Fatalf("unexpected payload %q", data)
	}

	if err := s.Delete(ctx, userID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if data, err := s.Load(ctx, userID); err != nil || data != nil {
		t.Fatalf("expected empty load after delete, got %q err=%v", data, err)
	}
}
