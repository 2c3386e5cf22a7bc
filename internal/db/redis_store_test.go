package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/neuroscreen/portal/internal/services"
)

// Runs against a real server: NEUROSCREEN_TEST_REDIS_ADDR=localhost:6379.
func openTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("NEUROSCREEN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("NEUROSCREEN_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	s, err := OpenRedis(ctx, addr, "", 0)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisSessionRoundTrip(t *testing.T) {
	s := openTestRedis(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	rec := SessionRecord{
		ID:        "test-" + uuid.NewString(),
		User:      services.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: services.RoleAdmin, Token: "T"},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Minute),
	}
	if err := s.SaveSession(ctx, rec); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	t.Cleanup(func() { _ = s.DeleteSession(context.Background(), rec.ID) })

	got, err := s.GetSession(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.User != rec.User || !got.ExpiresAt.Equal(rec.ExpiresAt) {
		t.Fatalf("unexpected record %+v", got)
	}
	ttl, err := s.rdb.TTL(ctx, redisKeyPrefix+rec.ID).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("key ttl %v err %v", ttl, err)
	}

	if err := s.DeleteSession(ctx, rec.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetSession(ctx, rec.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound after delete, got %v", err)
	}
}

func TestRedisExpiredRecordIsHidden(t *testing.T) {
	s := openTestRedis(t)
	ctx := context.Background()
	rec := SessionRecord{ID: "test-" + uuid.NewString(), CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Minute)}
	if err := s.SaveSession(ctx, rec); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.DeleteSession(context.Background(), rec.ID) })

	s.now = func() time.Time { return rec.ExpiresAt.Add(time.Second) }
	if _, err := s.GetSession(ctx, rec.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expired record returned: %v", err)
	}
	if err := s.SaveSession(ctx, rec); err != nil {
		t.Fatalf("saving an already expired record should delete it: %v", err)
	}
	if n, _ := s.rdb.Exists(ctx, redisKeyPrefix+rec.ID).Result(); n != 0 {
		t.Fatalf("expired record still stored")
	}
}
