package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/smartfaq/internal/domain/faq"
	"github.com/yanqian/smartfaq/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle and background watchers.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	watcher faq.Watcher
}

// NewApp is used by Wire to build the runnable app. watcher may be nil.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, watcher faq.Watcher) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, watcher: watcher}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if a.watcher != nil {
		go func() {
			if err := a.watcher.Watch(watchCtx); err != nil {
				a.logger.Error("knowledge base watcher stopped", "error", err)
			}
		}()
	}

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
