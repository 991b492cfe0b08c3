package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/smartfaq/internal/domain/faq"
	"github.com/yanqian/smartfaq/internal/infra/config"
	"github.com/yanqian/smartfaq/internal/infra/faqrepo"
	"github.com/yanqian/smartfaq/internal/infra/faqstore"
	"github.com/yanqian/smartfaq/internal/infra/llm/chatgpt"
	"github.com/yanqian/smartfaq/internal/infra/llm/openai"
	"github.com/yanqian/smartfaq/internal/infra/tokenizer"
)

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		DefaultThreshold:    cfg.FAQ.SimilarityThreshold,
		DeclinedConfidence:  cfg.FAQ.DeclinedConfidence,
		GeneratedConfidence: cfg.FAQ.GeneratedConfidence,
		DeclineMarker:       cfg.FAQ.DeclineMarker,
		Prompt:              cfg.FAQ.Prompt,
		FallbackTimeout:     cfg.FAQ.FallbackTimeout,
		MaxContextTokens:    cfg.FAQ.MaxContextTokens,
		CacheTTL:            cfg.FAQ.CacheTTL,
		TopRecommendations:  cfg.FAQ.TopRecommendations,
	}
}

// provideGenerator returns nil when no API key is configured, which turns
// the generative fallback off.
func provideGenerator(cfg *config.Config, logger *slog.Logger) faq.Generator {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Info("llm api key not set, generative fallback disabled")
		return nil
	}
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		gen, err := openai.NewGenerator(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Temperature)
		if err != nil {
			logger.Error("openai generator unavailable, generative fallback disabled", "error", err)
			return nil
		}
		logger.Info("faq fallback enabled", "provider", config.ProviderOpenAI, "model", cfg.LLM.Model)
		return gen
	default:
		client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
		if err != nil {
			logger.Error("chatgpt client unavailable, generative fallback disabled", "error", err)
			return nil
		}
		logger.Info("faq fallback enabled", "provider", config.ProviderChatGPT, "model", cfg.LLM.Model)
		return chatgpt.NewGenerator(client, cfg.LLM.Model, cfg.LLM.Temperature)
	}
}

// provideTokenCounter only loads a BPE encoding when a context budget is set.
func provideTokenCounter(cfg *config.Config, logger *slog.Logger) faq.TokenCounter {
	if cfg.FAQ.MaxContextTokens <= 0 {
		return faq.WordCounter{}
	}
	return tokenizer.NewCounter(cfg.LLM.Model, logger)
}

func provideFAQIndex() *faq.Index {
	return faq.NewIndex()
}

func provideFAQEngine(cfg faq.Config, index *faq.Index, generator faq.Generator, store faq.Store, tokens faq.TokenCounter, logger *slog.Logger) *faq.Engine {
	return faq.NewEngine(cfg, index, generator, store, tokens, logger)
}

func provideFAQRepository(cfg *config.Config, logger *slog.Logger) faq.Repository {
	fallback := faqrepo.NewMemoryRepository()
	store := cfg.FAQ.Store
	switch store.Backend {
	case config.BackendFile:
		logger.Info("faq file repository enabled", "path", store.File.Path)
		return faqrepo.NewFileRepository(store.File.Path, logger)
	case config.BackendPostgres:
		repo, err := newPostgresRepository(store.Postgres, logger)
		if err != nil {
			logger.Error("postgres repository unavailable, using memory repository", "error", err)
			return fallback
		}
		logger.Info("faq postgres repository enabled")
		return repo
	case config.BackendSQLite:
		repo, err := faqrepo.NewSQLiteRepository(store.SQLite.Path)
		if err != nil {
			logger.Error("sqlite repository unavailable, using memory repository", "error", err)
			return fallback
		}
		logger.Info("faq sqlite repository enabled", "path", store.SQLite.Path)
		return repo
	case config.BackendValkey:
		client, err := newValkeyClient(cfg.FAQ.Redis.Addr)
		if err != nil {
			logger.Error("valkey repository unavailable, using memory repository", "error", err)
			return fallback
		}
		logger.Info("faq valkey repository enabled", "addr", cfg.FAQ.Redis.Addr)
		return faqrepo.NewValkeyRepository(client, cfg.FAQ.Redis.Prefix)
	case config.BackendS3:
		repo, err := faqrepo.NewObjectRepository(faqrepo.ObjectOptions{
			Endpoint:  store.S3.Endpoint,
			AccessKey: store.S3.AccessKey,
			SecretKey: store.S3.SecretKey,
			Bucket:    store.S3.Bucket,
			Region:    store.S3.Region,
			Key:       store.S3.Key,
		}, logger)
		if err != nil {
			logger.Error("object repository unavailable, using memory repository", "error", err)
			return fallback
		}
		logger.Info("faq object repository enabled", "bucket", store.S3.Bucket, "key", store.S3.Key)
		return repo
	default:
		logger.Info("faq memory repository enabled")
		return fallback
	}
}

// provideWatcher returns the repository when it supports change
// notifications and watching is enabled.
func provideWatcher(cfg *config.Config, repo faq.Repository) faq.Watcher {
	if cfg.FAQ.Store.Backend != config.BackendFile || !cfg.FAQ.Store.File.Watch {
		return nil
	}
	watcher, ok := repo.(faq.Watcher)
	if !ok {
		return nil
	}
	return watcher
}

func newPostgresRepository(pgCfg config.PostgresConfig, logger *slog.Logger) (*faqrepo.PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(pgCfg.DSN))
	if err != nil {
		return nil, err
	}
	if pgCfg.MaxConns > 0 {
		poolConfig.MaxConns = pgCfg.MaxConns
	}
	if pgCfg.MinConns > 0 {
		poolConfig.MinConns = pgCfg.MinConns
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	repo := faqrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

func provideFAQStore(cfg *config.Config, logger *slog.Logger) faq.Store {
	if cfg.FAQ.Redis.Enabled {
		client, err := newValkeyClient(cfg.FAQ.Redis.Addr)
		if err != nil {
			logger.Error("valkey store unavailable, falling back to memory store", "error", err)
			return faqstore.NewMemoryStore()
		}
		logger.Info("faq valkey store enabled", "addr", cfg.FAQ.Redis.Addr)
		return faqstore.NewValkeyStore(client, cfg.FAQ.Redis.Prefix)
	}
	return faqstore.NewMemoryStore()
}

func newValkeyClient(addr string) (valkey.Client, error) {
	opt, err := buildValkeyOptions(addr)
	if err != nil {
		return nil, err
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
