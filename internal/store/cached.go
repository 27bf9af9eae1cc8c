package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/smartjournal/internal/logging"
)

const (
	preferenceKeyPrefix        = "smartjournal:prefs:"
	preferenceVersionKeyPrefix = "smartjournal:prefs-version:"
)

// CachedStore 在任意 Store 之上用 Redis 缓存模板偏好。
// Redis 不可用时记录日志并直接访问底层存储。
type CachedStore struct {
	Store
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisClient 创建 Redis 客户端并测试连接。
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewCachedStore 包装 inner，ttl 非正数时使用 10 分钟。
func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedStore{Store: inner, redis: client, ttl: ttl}
}

func preferenceKey(username string) string {
	return preferenceKeyPrefix + username
}

func preferenceVersionKey(username string) string {
	return preferenceVersionKeyPrefix + username
}

// GetTemplatePreferences 优先读缓存；未设置偏好也会以空列表缓存。
// 回填只在版本号自读取底层存储以来未变化时提交，避免并发写入后旧值被写回缓存。
func (s *CachedStore) GetTemplatePreferences(ctx context.Context, username string) ([]string, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	key := preferenceKey(username)

	cached, err := s.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var prefs []string
		if jsonErr := json.Unmarshal([]byte(cached), &prefs); jsonErr == nil {
			if len(prefs) == 0 {
				return nil, nil
			}
			return prefs, nil
		}
		logging.L().Warnw("discarding corrupt preference cache entry", "username", username)
	case errors.Is(err, redis.Nil):
	default:
		logging.L().Warnw("preference cache read failed", "username", username, "error", err)
	}

	versionKey := preferenceVersionKey(username)
	version, verErr := s.redis.Get(ctx, versionKey).Result()
	if verErr != nil && !errors.Is(verErr, redis.Nil) {
		// 读不到版本号时不回填
		return s.Store.GetTemplatePreferences(ctx, username)
	}

	prefs, err := s.Store.GetTemplatePreferences(ctx, username)
	if err != nil {
		return nil, err
	}

	encoded, _ := json.Marshal(cleanTemplates(prefs))
	if err := s.fill(ctx, key, versionKey, version, encoded); err != nil {
		if errors.Is(err, errStaleFill) || errors.Is(err, redis.TxFailedErr) {
			logging.L().Debugw("skipping stale preference cache fill", "username", username)
		} else {
			logging.L().Warnw("preference cache write failed", "username", username, "error", err)
		}
	}
	return prefs, nil
}

var errStaleFill = errors.New("preference version changed")

// fill 在 WATCH 版本键的事务中写缓存；版本与读取前不一致时放弃。
func (s *CachedStore) fill(ctx context.Context, key, versionKey, version string, encoded []byte) error {
	return s.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		return err
	}, versionKey)
}

// SetTemplatePreferences 先写底层存储，再递增版本号并使缓存失效。
func (s *CachedStore) SetTemplatePreferences(ctx context.Context, username string, templates []string) error {
	if err := s.Store.SetTemplatePreferences(ctx, username, templates); err != nil {
		return err
	}
	username, _ = normalizeUsername(username)
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, preferenceVersionKey(username))
		pipe.Del(ctx, preferenceKey(username))
		return nil
	})
	if err != nil {
		logging.L().Warnw("preference cache invalidation failed", "username", username, "error", err)
	}
	return nil
}

// Ping 只探测底层存储；Redis 不可用时读写会自动降级，不影响可用性。
func (s *CachedStore) Ping(ctx context.Context) error {
	return Ping(ctx, s.Store)
}

func (s *CachedStore) Close(ctx context.Context) error {
	redisErr := s.redis.Close()
	if err := s.Store.Close(ctx); err != nil {
		return err
	}
	return redisErr
}
