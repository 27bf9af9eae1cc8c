package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 支持的存储与分析服务。
const (
	DriverSQLite    = "sqlite"
	DriverMySQL     = "mysql"
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
	DriverMemory    = "memory"

	ProviderOpenAI    = "openai"
	ProviderDeepSeek  = "deepseek"
	ProviderLangChain = "langchain"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr string
	Port       string
	GinMode    string

	DatabaseDriver   string
	DatabasePath     string
	DatabaseDSN      string
	MongoURI         string
	MongoDatabase    string
	FirestoreProject string

	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	PreferenceCacheTTL time.Duration

	AIProvider      string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	DeepSeekAPIKey  string
	DeepSeekModel   string
	GeminiAPIKey    string
	GeminiModel     string
	ProviderTimeout time.Duration

	LogLevel         string
	LogFile          string
	CORSAllowOrigins []string
	SuggestionSeed   uint64
}

var defaults = map[string]any{
	"PORT":                 "8800",
	"GIN_MODE":             "release",
	"DATABASE_DRIVER":      DriverSQLite,
	"DATABASE_PATH":        "smartjournal.db",
	"MONGO_URI":            "mongodb://localhost:27017",
	"MONGO_DATABASE":       "smartJournal",
	"REDIS_DB":             0,
	"PREFERENCE_CACHE_TTL": "10m",
	"AI_PROVIDER":          ProviderMock,
	"OPENAI_MODEL":         "gpt-4o-mini",
	"DEEPSEEK_MODEL":       "deepseek-chat",
	"GEMINI_MODEL":         "gemini-2.5-flash",
	"PROVIDER_TIMEOUT":     "60s",
	"LOG_LEVEL":            "info",
	"CORS_ALLOW_ORIGINS":   "*",
	"SUGGESTION_SEED":      0,
}

// Load 从环境变量（以及 dir 下可选的 .env 文件）读取应用配置，并为缺失项提供安全的默认值。
func Load(dir string) (AppConfig, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if strings.TrimSpace(dir) != "" {
		v.AddConfigPath(dir)
		v.SetConfigName(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return AppConfig{}, fmt.Errorf("read .env: %w", err)
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (AppConfig, error) {
	get := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}
	withDefault := func(key string) string {
		if value := get(key); value != "" {
			return value
		}
		return fmt.Sprint(defaults[key])
	}

	port := withDefault("PORT")
	listenAddr := get("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	cacheTTL, err := time.ParseDuration(withDefault("PREFERENCE_CACHE_TTL"))
	if err != nil {
		return AppConfig{}, fmt.Errorf("parse PREFERENCE_CACHE_TTL: %w", err)
	}
	providerTimeout, err := time.ParseDuration(withDefault("PROVIDER_TIMEOUT"))
	if err != nil {
		return AppConfig{}, fmt.Errorf("parse PROVIDER_TIMEOUT: %w", err)
	}

	cfg := AppConfig{
		ListenAddr: listenAddr,
		Port:       port,
		GinMode:    withDefault("GIN_MODE"),

		DatabaseDriver:   strings.ToLower(withDefault("DATABASE_DRIVER")),
		DatabasePath:     withDefault("DATABASE_PATH"),
		DatabaseDSN:      get("DATABASE_DSN"),
		MongoURI:         withDefault("MONGO_URI"),
		MongoDatabase:    withDefault("MONGO_DATABASE"),
		FirestoreProject: get("FIRESTORE_PROJECT"),

		RedisAddr:          get("REDIS_ADDR"),
		RedisPassword:      get("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		PreferenceCacheTTL: cacheTTL,

		AIProvider:      strings.ToLower(withDefault("AI_PROVIDER")),
		OpenAIAPIKey:    get("OPENAI_API_KEY"),
		OpenAIBaseURL:   get("OPENAI_BASE_URL"),
		OpenAIModel:     withDefault("OPENAI_MODEL"),
		DeepSeekAPIKey:  get("DEEPSEEK_API_KEY"),
		DeepSeekModel:   withDefault("DEEPSEEK_MODEL"),
		GeminiAPIKey:    get("GEMINI_API_KEY"),
		GeminiModel:     withDefault("GEMINI_MODEL"),
		ProviderTimeout: providerTimeout,

		LogLevel:         withDefault("LOG_LEVEL"),
		LogFile:          get("LOG_FILE"),
		CORSAllowOrigins: splitList(withDefault("CORS_ALLOW_ORIGINS")),
		SuggestionSeed:   v.GetUint64("SUGGESTION_SEED"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c AppConfig) validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverMemory:
	case DriverMySQL:
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN is required for the mysql driver")
		}
	case DriverMongo:
	case DriverFirestore:
		if c.FirestoreProject == "" {
			return errors.New("FIRESTORE_PROJECT is required for the firestore driver")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	switch c.AIProvider {
	case ProviderOpenAI, ProviderDeepSeek, ProviderLangChain, ProviderGemini, ProviderMock:
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AIProvider)
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
