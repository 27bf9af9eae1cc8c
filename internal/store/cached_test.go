package store

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

// unreachableRedis 返回一个连接必然失败的客户端，用于验证降级路径。
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestCachedStoreFallsBackWhenRedisIsDown(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewCachedStore(NewMemoryStore(), unreachableRedis(), time.Minute)
	})
}

func TestCachedStoreWithRedis(t *testing.T) {
	addr := lookupEnv(t, "REDIS_TEST_ADDR")
	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, "", 0)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}

	inner := NewMemoryStore()
	s := NewCachedStore(inner, client, time.Minute)
	t.Cleanup(func() { _ = s.Close(ctx) })
	_ = client.Del(ctx, preferenceKey("erin")).Err()

	if err := s.SetTemplatePreferences(ctx, "erin", []string{"themes"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if prefs, _ := s.GetTemplatePreferences(ctx, "erin"); !slices.Equal(prefs, []string{"themes"}) {
		t.Fatalf("unexpected preferences: %v", prefs)
	}

	// 绕过缓存直接修改底层存储，缓存仍返回旧值
	_ = inner.SetTemplatePreferences(ctx, "erin", []string{"urges"})
	if prefs, _ := s.GetTemplatePreferences(ctx, "erin"); !slices.Equal(prefs, []string{"themes"}) {
		t.Fatalf("expected cached preferences, got %v", prefs)
	}

	if err := s.SetTemplatePreferences(ctx, "erin", []string{"emotion"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if prefs, _ := s.GetTemplatePreferences(ctx, "erin"); !slices.Equal(prefs, []string{"emotion"}) {
		t.Fatalf("expected invalidated cache, got %v", prefs)
	}
}

// racingStore 在读取底层偏好之后、返回之前执行一次 onRead，模拟并发写入。
type racingStore struct {
	*MemoryStore
	onRead func()
}

func (r *racingStore) GetTemplatePreferences(ctx context.Context, username string) ([]string, error) {
	prefs, err := r.MemoryStore.GetTemplatePreferences(ctx, username)
	if r.onRead != nil {
		hook := r.onRead
		r.onRead = nil
		hook()
	}
	return prefs, err
}

func TestCachedStoreDoesNotRefillStalePreferences(t *testing.T) {
	addr := lookupEnv(t, "REDIS_TEST_ADDR")
	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, "", 0)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}

	inner := &racingStore{MemoryStore: NewMemoryStore()}
	s := NewCachedStore(inner, client, time.Minute)
	t.Cleanup(func() { _ = s.Close(ctx) })
	_ = client.Del(ctx, preferenceKey("frank"), preferenceVersionKey("frank")).Err()

	if err := inner.MemoryStore.SetTemplatePreferences(ctx, "frank", []string{"themes"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	inner.onRead = func() {
		if err := s.SetTemplatePreferences(ctx, "frank", []string{"urges"}); err != nil {
			t.Errorf("concurrent set: %v", err)
		}
	}

	if prefs, _ := s.GetTemplatePreferences(ctx, "frank"); !slices.Equal(prefs, []string{"themes"}) {
		t.Fatalf("read that raced the write should see the old value, got %v", prefs)
	}
	if n, _ := client.Exists(ctx, preferenceKey("frank")).Result(); n != 0 {
		t.Fatalf("stale preferences must not be cached")
	}
	if prefs, _ := s.GetTemplatePreferences(ctx, "frank"); !slices.Equal(prefs, []string{"urges"}) {
		t.Fatalf("expected the new preferences, got %v", prefs)
	}
}
