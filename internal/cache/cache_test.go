package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const testRedisAddr = "localhost:6379"

func setupCache(t *testing.T) *Cache {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	prefix := "test:" + t.Name() + ":"
	c := New(client, prefix, time.Minute)
	t.Cleanup(func() {
		client.Del(ctx, prefix+"k")
		client.Close()
	})
	return c
}

func TestCache_SetGetDelete(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	type entry struct {
		Title string `json:"title"`
		Count int    `json:"count"`
	}

	if err := c.Set(ctx, "k", entry{Title: "Exam Schedule", Count: 3}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got entry
	hit, err := c.Get(ctx, "k", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !hit {
		t.Fatal("Get() reported a miss for a stored key")
	}
	if got.Title != "Exam Schedule" || got.Count != 3 {
		t.Errorf("Get() = %+v, want stored entry", got)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	hit, err = c.Get(ctx, "k", &got)
	if err != nil {
		t.Fatalf("Get() after delete error = %v", err)
	}
	if hit {
		t.Error("Get() reported a hit after invalidation")
	}
}

func TestCache_MissIsNotAnError(t *testing.T) {
	c := setupCache(t)

	var dest string
	hit, err := c.Get(context.Background(), "absent", &dest)
	if err != nil {
		t.Fatalf("Get() on missing key error = %v", err)
	}
	if hit {
		t.Error("Get() reported a hit for a missing key")
	}
}
