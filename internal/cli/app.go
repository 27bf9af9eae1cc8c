package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/smartjournal/internal/activity"
	"github.com/smartjournal/internal/analysis"
	"github.com/smartjournal/internal/config"
	"github.com/smartjournal/internal/db"
	"github.com/smartjournal/internal/llm"
	"github.com/smartjournal/internal/logging"
	"github.com/smartjournal/internal/service"
	"github.com/smartjournal/internal/store"
)

// App 持有一次运行所需的依赖，由 Close 统一释放。
type App struct {
	Config  config.AppConfig
	Store   store.Store
	Journal *service.JournalService
}

// NewApp 按配置打开存储并组装日记服务。
func NewApp(ctx context.Context, cfg config.AppConfig) (*App, error) {
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	journal, err := newJournalService(ctx, cfg, st)
	if err != nil {
		_ = st.Close(ctx)
		return nil, err
	}
	return &App{Config: cfg, Store: st, Journal: journal}, nil
}

// Close releases the store.
func (a *App) Close(ctx context.Context) error {
	return a.Store.Close(ctx)
}

func newJournalService(ctx context.Context, cfg config.AppConfig, st store.Store) (*service.JournalService, error) {
	provider, err := llm.FromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init analysis provider: %w", err)
	}
	orchestrator := analysis.NewOrchestrator(analysis.NewRegistry(), provider, analysis.WithTimeout(cfg.ProviderTimeout))
	engine := activity.NewEngine(nil, activity.NewRand(cfg.SuggestionSeed))
	return service.NewJournalService(orchestrator, engine, st), nil
}

// OpenStore 根据 DATABASE_DRIVER 选择存储实现；配置了 REDIS_ADDR 时在外层加偏好缓存。
// Redis 连接失败只记录警告，服务继续以无缓存方式运行。
func OpenStore(ctx context.Context, cfg config.AppConfig) (store.Store, error) {
	var st store.Store
	switch cfg.DatabaseDriver {
	case config.DriverSQLite, config.DriverMySQL:
		gdb, err := db.Open(db.Options{
			Driver: cfg.DatabaseDriver,
			Path:   cfg.DatabasePath,
			DSN:    cfg.DatabaseDSN,
			Silent: !strings.EqualFold(cfg.LogLevel, "debug"),
		})
		if err != nil {
			return nil, fmt.Errorf("open %s database: %w", cfg.DatabaseDriver, err)
		}
		st = store.NewGormStore(gdb)
	case config.DriverMongo:
		mongoStore, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		st = mongoStore
	case config.DriverFirestore:
		fsStore, err := store.NewFirestoreStore(ctx, cfg.FirestoreProject)
		if err != nil {
			return nil, err
		}
		st = fsStore
	case config.DriverMemory:
		st = store.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return st, nil
	}
	client, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logging.L().Warnw("redis unavailable, preference cache disabled", "addr", cfg.RedisAddr, "error", err)
		return st, nil
	}
	logging.L().Infow("preference cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.PreferenceCacheTTL)
	return store.NewCachedStore(st, client, cfg.PreferenceCacheTTL), nil
}
