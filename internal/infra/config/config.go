package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP HTTPConfig `yaml:"http"`
	LLM  LLMConfig  `yaml:"llm"`
	FAQ  FAQConfig  `yaml:"faq"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// Supported generative fallback providers.
const (
	ProviderChatGPT = "chatgpt"
	ProviderOpenAI  = "openai"
)

// LLMConfig contains the generative fallback settings. An empty APIKey
// disables the fallback.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// FAQConfig controls the smart FAQ service behavior.
type FAQConfig struct {
	Prompt              string        `yaml:"prompt"`
	DeclineMarker       string        `yaml:"declineMarker"`
	SimilarityThreshold float64       `yaml:"similarityThreshold"`
	DeclinedConfidence  float64       `yaml:"declinedConfidence"`
	GeneratedConfidence float64       `yaml:"generatedConfidence"`
	FallbackTimeout     time.Duration `yaml:"fallbackTimeout"`
	MaxContextTokens    int           `yaml:"maxContextTokens"`
	CacheTTL            time.Duration `yaml:"cacheTtl"`
	TopRecommendations  int           `yaml:"topRecommendations"`
	Redis               RedisConfig   `yaml:"redis"`
	Store               StoreConfig   `yaml:"store"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// Knowledge base backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendValkey   = "valkey"
	BackendS3       = "s3"
)

// StoreConfig selects where the knowledge base lives.
type StoreConfig struct {
	Backend  string         `yaml:"backend"`
	File     FileConfig     `yaml:"file"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	S3       S3Config       `yaml:"s3"`
}

// FileConfig points at a JSON knowledge base document.
type FileConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// SQLiteConfig points at a local database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// S3Config locates the knowledge base object in an S3-compatible bucket.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Key       string `yaml:"key"`
}

// Load reads configuration from a YAML file and environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}
	if v := os.Getenv("FAQ_PROMPT"); v != "" {
		cfg.FAQ.Prompt = v
	}
	if v := os.Getenv("FAQ_DECLINE_MARKER"); v != "" {
		cfg.FAQ.DeclineMarker = v
	}
	if v := os.Getenv("FAQ_SIMILARITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.SimilarityThreshold = parsed
		}
	}
	if v := os.Getenv("FAQ_DECLINED_CONFIDENCE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.DeclinedConfidence = parsed
		}
	}
	if v := os.Getenv("FAQ_GENERATED_CONFIDENCE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.GeneratedConfidence = parsed
		}
	}
	if v := os.Getenv("FAQ_FALLBACK_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.FAQ.FallbackTimeout = parsed
		}
	}
	if v := os.Getenv("FAQ_MAX_CONTEXT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.MaxContextTokens = parsed
		}
	}
	if v := os.Getenv("FAQ_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.FAQ.CacheTTL = parsed
		}
	}
	if v := os.Getenv("FAQ_RECOMMENDATIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.TopRecommendations = parsed
		}
	}
	if v := os.Getenv("FAQ_REDIS_ENABLED"); v != "" {
		cfg.FAQ.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("FAQ_REDIS_ADDR"); v != "" {
		cfg.FAQ.Redis.Addr = v
	}
	if v := os.Getenv("FAQ_REDIS_PREFIX"); v != "" {
		cfg.FAQ.Redis.Prefix = v
	}
	if v := os.Getenv("FAQ_STORE_BACKEND"); v != "" {
		cfg.FAQ.Store.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("FAQ_FILE_PATH"); v != "" {
		cfg.FAQ.Store.File.Path = v
	}
	if v := os.Getenv("FAQ_FILE_WATCH"); v != "" {
		cfg.FAQ.Store.File.Watch = parseBool(v)
	}
	if v := os.Getenv("FAQ_POSTGRES_DSN"); v != "" {
		cfg.FAQ.Store.Postgres.DSN = v
	}
	if v := os.Getenv("FAQ_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.Store.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("FAQ_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.Store.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("FAQ_SQLITE_PATH"); v != "" {
		cfg.FAQ.Store.SQLite.Path = v
	}
	if v := os.Getenv("FAQ_S3_ENDPOINT"); v != "" {
		cfg.FAQ.Store.S3.Endpoint = v
	}
	if v := os.Getenv("FAQ_S3_ACCESS_KEY"); v != "" {
		cfg.FAQ.Store.S3.AccessKey = v
	}
	if v := os.Getenv("FAQ_S3_SECRET_KEY"); v != "" {
		cfg.FAQ.Store.S3.SecretKey = v
	}
	if v := os.Getenv("FAQ_S3_BUCKET"); v != "" {
		cfg.FAQ.Store.S3.Bucket = v
	}
	if v := os.Getenv("FAQ_S3_REGION"); v != "" {
		cfg.FAQ.Store.S3.Region = v
	}
	if v := os.Getenv("FAQ_S3_KEY"); v != "" {
		cfg.FAQ.Store.S3.Key = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 20 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/faqs",
				},
			},
		},
		LLM: LLMConfig{
			Provider:    ProviderChatGPT,
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
			Timeout:     30 * time.Second,
		},
		FAQ: FAQConfig{
			Prompt:              "You are a helpful assistant that answers questions based on the following FAQ information. If you don't find a match, reply with 'I don't have enough information to answer this question.'",
			DeclineMarker:       "don't have enough information",
			SimilarityThreshold: 0.5,
			DeclinedConfidence:  0.4,
			GeneratedConfidence: 0.7,
			FallbackTimeout:     15 * time.Second,
			CacheTTL:            6 * time.Hour,
			TopRecommendations:  10,
			Redis: RedisConfig{
				Prefix: "faq",
			},
			Store: StoreConfig{
				Backend: BackendMemory,
				File: FileConfig{
					Path:  "data/faqs.json",
					Watch: true,
				},
				Postgres: PostgresConfig{
					MaxConns: 4,
				},
				SQLite: SQLiteConfig{
					Path: "data/faqs.db",
				},
				S3: S3Config{
					Key: "faqs.json",
				},
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	switch c.LLM.Provider {
	case ProviderChatGPT, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if c.LLM.Timeout < 0 {
		return errors.New("llm.timeout cannot be negative")
	}
	if err := c.FAQ.validate(); err != nil {
		return err
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}

func (f FAQConfig) validate() error {
	if strings.TrimSpace(f.Prompt) == "" {
		return errors.New("faq.prompt cannot be empty")
	}
	if strings.TrimSpace(f.DeclineMarker) == "" {
		return errors.New("faq.declineMarker cannot be empty")
	}
	for name, v := range map[string]float64{
		"faq.similarityThreshold": f.SimilarityThreshold,
		"faq.declinedConfidence":  f.DeclinedConfidence,
		"faq.generatedConfidence": f.GeneratedConfidence,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1]", name)
		}
	}
	if f.FallbackTimeout <= 0 {
		return errors.New("faq.fallbackTimeout must be positive")
	}
	if f.MaxContextTokens < 0 {
		return errors.New("faq.maxContextTokens cannot be negative")
	}
	if f.CacheTTL < 0 {
		return errors.New("faq.cacheTtl cannot be negative")
	}
	if f.TopRecommendations < 0 {
		return errors.New("faq.topRecommendations cannot be negative")
	}
	if f.Redis.Enabled && strings.TrimSpace(f.Redis.Addr) == "" {
		return errors.New("faq.redis.addr cannot be empty when redis cache is enabled")
	}

	store := f.Store
	switch store.Backend {
	case BackendMemory:
	case BackendFile:
		if strings.TrimSpace(store.File.Path) == "" {
			return errors.New("faq.store.file.path cannot be empty")
		}
	case BackendPostgres:
		if strings.TrimSpace(store.Postgres.DSN) == "" {
			return errors.New("faq.store.postgres.dsn cannot be empty")
		}
	case BackendSQLite:
		if strings.TrimSpace(store.SQLite.Path) == "" {
			return errors.New("faq.store.sqlite.path cannot be empty")
		}
	case BackendValkey:
		if strings.TrimSpace(f.Redis.Addr) == "" {
			return errors.New("faq.redis.addr cannot be empty for the valkey backend")
		}
	case BackendS3:
		if strings.TrimSpace(store.S3.Endpoint) == "" || strings.TrimSpace(store.S3.Bucket) == "" {
			return errors.New("faq.store.s3.endpoint and bucket are required")
		}
	default:
		return fmt.Errorf("faq.store.backend %q is not supported", store.Backend)
	}
	return nil
}
