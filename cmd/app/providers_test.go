package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/smartfaq/internal/domain/faq"
	"github.com/yanqian/smartfaq/internal/infra/config"
	"github.com/yanqian/smartfaq/internal/infra/faqrepo"
	"github.com/yanqian/smartfaq/internal/infra/llm/chatgpt"
	"github.com/yanqian/smartfaq/internal/infra/llm/openai"
)

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{Provider: config.ProviderChatGPT, Model: "gpt-4o-mini"},
		FAQ: config.FAQConfig{
			SimilarityThreshold: 0.5,
			Store:               config.StoreConfig{Backend: config.BackendMemory},
		},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvideGenerator(t *testing.T) {
	cfg := testConfig()
	require.Nil(t, provideGenerator(cfg, quietLogger()))

	cfg.LLM.APIKey = "sk-test"
	require.IsType(t, &chatgpt.Generator{}, provideGenerator(cfg, quietLogger()))

	cfg.LLM.Provider = config.ProviderOpenAI
	require.IsType(t, &openai.Generator{}, provideGenerator(cfg, quietLogger()))
}

func TestProvideTokenCounterWithoutBudget(t *testing.T) {
	require.Equal(t, faq.WordCounter{}, provideTokenCounter(testConfig(), quietLogger()))
}

func TestProvideFAQRepositoryFallsBackToMemory(t *testing.T) {
	cfg := testConfig()
	cfg.FAQ.Store.Backend = config.BackendPostgres
	cfg.FAQ.Store.Postgres.DSN = "postgres://localhost:5432/faq?pool_max_conns=many"

	repo := provideFAQRepository(cfg, quietLogger())

	require.IsType(t, &faqrepo.MemoryRepository{}, repo)
	require.Nil(t, provideWatcher(cfg, repo))
}

func TestProvideFileRepositoryWithWatcher(t *testing.T) {
	cfg := testConfig()
	cfg.FAQ.Store.Backend = config.BackendFile
	cfg.FAQ.Store.File = config.FileConfig{Path: filepath.Join(t.TempDir(), "faqs.json"), Watch: true}

	repo := provideFAQRepository(cfg, quietLogger())
	require.IsType(t, &faqrepo.FileRepository{}, repo)
	require.NotNil(t, provideWatcher(cfg, repo))

	cfg.FAQ.Store.File.Watch = false
	require.Nil(t, provideWatcher(cfg, repo))
}

func TestProvideFAQConfig(t *testing.T) {
	cfg := testConfig()
	cfg.FAQ.MaxContextTokens = 512
	got := provideFAQConfig(cfg)
	require.Equal(t, 0.5, got.DefaultThreshold)
	require.Equal(t, 512, got.MaxContextTokens)
}
