package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App        AppConfig        `toml:"app"`
	Blog       BlogConfig       `toml:"blog"`
	Search     SearchConfig     `toml:"search"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Cache      CacheConfig      `toml:"cache"`
	Resilience ResilienceConfig `toml:"resilience"`
	Log        LogConfig        `toml:"log"`
	MySQL      MySQLConfig      `toml:"mysql"`
	Redis      RedisConfig      `toml:"redis"`
	RabbitMQ   RabbitMQConfig   `toml:"rabbitmq"`
}

// AppConfig describes the search server listener.
type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type BlogConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	PostsPath string `toml:"posts_path"`
	// Storage is "file" or "mysql".
	Storage  string `toml:"storage"`
	PageSize int    `toml:"page_size"`
}

type SearchConfig struct {
	CodebaseRoot   string `toml:"codebase_root"`
	StorePath      string `toml:"store_path"`
	ChunkSize      int    `toml:"chunk_size"`
	TruncateLength int    `toml:"truncate_length"`
	TopK           int    `toml:"top_k"`
	IndexOnStart   bool   `toml:"index_on_start"`
}

type EmbeddingConfig struct {
	// Provider is "bedrock" or "openai".
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Dimensions     int    `toml:"dimensions"`
	AttendancePath string `toml:"attendance_path"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	BatchSize      int    `toml:"batch_size"`
}

type CacheConfig struct {
	// Backend is "file" or "redis".
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	Namespace  string `toml:"namespace"`
	LRUSize    int    `toml:"lru_size"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

type ResilienceConfig struct {
	MaxRetries             int     `toml:"max_retries"`
	InitialIntervalMillis  int     `toml:"initial_interval_ms"`
	MaxIntervalMillis      int     `toml:"max_interval_ms"`
	BreakerTimeoutSeconds  int     `toml:"breaker_timeout_seconds"`
	BreakerFailureRatio    float64 `toml:"breaker_failure_ratio"`
	BreakerMinimumRequests int     `toml:"breaker_minimum_requests"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RabbitMQConfig enables post event publishing when URL is set.
type RabbitMQConfig struct {
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the services cannot start with.
func (c *Config) Validate() error {
	if c.Search.ChunkSize <= 0 {
		return fmt.Errorf("search.chunk_size must be positive")
	}
	if c.Search.TruncateLength <= 0 {
		return fmt.Errorf("search.truncate_length must be positive")
	}
	if c.Search.TopK <= 0 {
		return fmt.Errorf("search.top_k must be positive")
	}
	if c.Blog.PageSize <= 0 {
		return fmt.Errorf("blog.page_size must be positive")
	}
	switch c.Embedding.Provider {
	case "bedrock", "openai":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.Cache.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Blog.Storage {
	case "file", "mysql":
	default:
		return fmt.Errorf("unknown blog storage %q", c.Blog.Storage)
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) BlogAddr() string {
	return fmt.Sprintf("%s:%d", c.Blog.Host, c.Blog.Port)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "codesearch",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    5001,
			GinMode: "release",
		},
		Blog: BlogConfig{
			Host:      "0.0.0.0",
			Port:      5000,
			PostsPath: "data/posts.json",
			Storage:   "file",
			PageSize:  3,
		},
		Search: SearchConfig{
			CodebaseRoot:   "/codebase",
			StorePath:      ".index_cache/codebase_index.gob",
			ChunkSize:      5000,
			TruncateLength: 1000,
			TopK:           10,
			IndexOnStart:   false,
		},
		Embedding: EmbeddingConfig{
			Provider:       "bedrock",
			Model:          "amazon.titan-embed-text-v2:0",
			Endpoint:       "https://bedrock-runtime.aws-proxy.skillerwhale.com/",
			Region:         "eu-west-1",
			Dimensions:     256,
			AttendancePath: "/app/sync/attendance_id",
			BatchSize:      16,
		},
		Cache: CacheConfig{
			Backend:   "file",
			Dir:       ".index_cache",
			Namespace: "",
			LRUSize:   4096,
		},
		Resilience: ResilienceConfig{
			MaxRetries:             3,
			InitialIntervalMillis:  200,
			MaxIntervalMillis:      5000,
			BreakerTimeoutSeconds:  30,
			BreakerFailureRatio:    0.5,
			BreakerMinimumRequests: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		MySQL: MySQLConfig{
			Host:     "127.0.0.1",
			Port:     3306,
			User:     "root",
			Password: "",
			DB:       "blog",
			Params:   "parseTime=true&loc=Local&charset=utf8mb4",
		},
		Redis: RedisConfig{
			Addr:     "127.0.0.1:6379",
			Password: "",
			DB:       0,
		},
		RabbitMQ: RabbitMQConfig{
			URL:      "",
			Exchange: "blog.events",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.Blog.Host = getEnv("BLOG_HOST", cfg.Blog.Host)
	cfg.Blog.Port = getEnvAsInt("BLOG_PORT", cfg.Blog.Port)
	cfg.Blog.PostsPath = getEnv("BLOG_POSTS_PATH", cfg.Blog.PostsPath)
	cfg.Blog.Storage = getEnv("BLOG_STORAGE", cfg.Blog.Storage)
	cfg.Blog.PageSize = getEnvAsInt("BLOG_PAGE_SIZE", cfg.Blog.PageSize)

	cfg.Search.CodebaseRoot = getEnv("SEARCH_CODEBASE_ROOT", cfg.Search.CodebaseRoot)
	cfg.Search.StorePath = getEnv("SEARCH_STORE_PATH", cfg.Search.StorePath)
	cfg.Search.ChunkSize = getEnvAsInt("SEARCH_CHUNK_SIZE", cfg.Search.ChunkSize)
	cfg.Search.TruncateLength = getEnvAsInt("SEARCH_TRUNCATE_LENGTH", cfg.Search.TruncateLength)
	cfg.Search.TopK = getEnvAsInt("SEARCH_TOP_K", cfg.Search.TopK)
	cfg.Search.IndexOnStart = getEnvAsBool("SEARCH_INDEX_ON_START", cfg.Search.IndexOnStart)

	cfg.Embedding.Provider = getEnv("EMBEDDING_PROVIDER", cfg.Embedding.Provider)
	cfg.Embedding.Model = getEnv("EMBEDDING_MODEL", cfg.Embedding.Model)
	cfg.Embedding.Endpoint = getEnv("EMBEDDING_ENDPOINT", cfg.Embedding.Endpoint)
	cfg.Embedding.Region = getEnv("EMBEDDING_REGION", cfg.Embedding.Region)
	cfg.Embedding.Dimensions = getEnvAsInt("EMBEDDING_DIMENSIONS", cfg.Embedding.Dimensions)
	cfg.Embedding.AttendancePath = getEnv("EMBEDDING_ATTENDANCE_PATH", cfg.Embedding.AttendancePath)
	cfg.Embedding.BaseURL = getEnv("EMBEDDING_BASE_URL", cfg.Embedding.BaseURL)
	cfg.Embedding.APIKey = getEnv("EMBEDDING_API_KEY", cfg.Embedding.APIKey)
	cfg.Embedding.BatchSize = getEnvAsInt("EMBEDDING_BATCH_SIZE", cfg.Embedding.BatchSize)

	cfg.Cache.Backend = getEnv("CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.Dir = getEnv("CACHE_DIR", cfg.Cache.Dir)
	cfg.Cache.Namespace = getEnv("CACHE_NAMESPACE", cfg.Cache.Namespace)
	cfg.Cache.LRUSize = getEnvAsInt("CACHE_LRU_SIZE", cfg.Cache.LRUSize)
	cfg.Cache.TTLSeconds = getEnvAsInt("CACHE_TTL_SECONDS", cfg.Cache.TTLSeconds)

	cfg.Resilience.MaxRetries = getEnvAsInt("RESILIENCE_MAX_RETRIES", cfg.Resilience.MaxRetries)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.Exchange = getEnv("RABBITMQ_EXCHANGE", cfg.RabbitMQ.Exchange)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return parsed
}
