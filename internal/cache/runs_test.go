package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/easyinterns/internal/cache"
)

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { client.Close() })

	return cache.NewStoreFromClient(client, "easyinterns-test-"+time.Now().Format("20060102150405"))
}

func TestStore_SaveAndGetRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := &cache.Run{
		ID:        "run-1",
		Status:    cache.RunRunning,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	loaded, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if loaded.Status != cache.RunRunning {
		t.Errorf("expected status running, got %s", loaded.Status)
	}
	if !loaded.StartedAt.Equal(run.StartedAt) {
		t.Errorf("expected StartedAt=%v, got %v", run.StartedAt, loaded.StartedAt)
	}
}

func TestStore_GetRunMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun(context.Background(), "nope")
	if !errors.Is(err, cache.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStore_Cooldown(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ok, err := store.TryAcquireCooldown(ctx, time.Minute)
	if err != nil {
		t.Fatalf("TryAcquireCooldown() error = %v", err)
	}
	if !ok {
		t.Fatal("expected first acquire to succeed")
	}

	ok, err = store.TryAcquireCooldown(ctx, time.Minute)
	if err != nil {
		t.Fatalf("TryAcquireCooldown() error = %v", err)
	}
	if ok {
		t.Error("expected second acquire within window to fail")
	}
}
