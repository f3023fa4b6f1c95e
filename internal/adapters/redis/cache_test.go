package redisad

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"charter_sync/internal/domain"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var y domain.Yacht
	if ok, err := c.Get(ctx, "yacht:1", &y); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	length := 12.5
	if err := c.Set(ctx, "yacht:1", domain.Yacht{ID: 1, Name: "Sea Breeze", Length: &length}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("charter:yacht:1") {
		t.Fatalf("key not namespaced")
	}
	if ttl := mr.TTL("charter:yacht:1"); ttl != 60*time.Second {
		t.Fatalf("ttl = %v", ttl)
	}

	ok, err := c.Get(ctx, "yacht:1", &y)
	if !ok || err != nil {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if y.Name != "Sea Breeze" || y.Length == nil || *y.Length != 12.5 {
		t.Fatalf("decoded = %+v", y)
	}

	if err := c.Del(ctx, "yacht:1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "yacht:1", &y); ok {
		t.Fatalf("deleted key still served")
	}
}

func TestCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	_ = c.Set(ctx, "k", map[string]int{"a": 1}, 10)

	mr.FastForward(11 * time.Second)
	var v map[string]int
	if ok, _ := c.Get(ctx, "k", &v); ok {
		t.Fatalf("expired key served")
	}
}

func TestCache_CorruptValueIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	_ = mr.Set("charter:yacht:2", "{not json")

	var y domain.Yacht
	ok, err := c.Get(context.Background(), "yacht:2", &y)
	if ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if mr.Exists("charter:yacht:2") {
		t.Fatalf("corrupt value not dropped")
	}
}

func TestCache_BackendDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	var y domain.Yacht
	if _, err := c.Get(context.Background(), "yacht:1", &y); err == nil {
		t.Fatalf("expected error with backend down")
	}
}
