//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/smartfaq/internal/bootstrap"
	"github.com/yanqian/smartfaq/internal/domain/faq"
	"github.com/yanqian/smartfaq/internal/infra/config"
	httpiface "github.com/yanqian/smartfaq/internal/interface/http"
	"github.com/yanqian/smartfaq/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideFAQConfig,
		provideGenerator,
		provideTokenCounter,
		provideFAQIndex,
		provideFAQEngine,
		provideFAQRepository,
		provideFAQStore,
		provideWatcher,
		faq.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
