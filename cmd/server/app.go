package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/and161185/lexinote/internal/config"
	"github.com/and161185/lexinote/internal/dictionary"
	"github.com/and161185/lexinote/internal/limiter"
	"github.com/and161185/lexinote/internal/provider"
	"github.com/and161185/lexinote/internal/repository/postgres"
	"github.com/and161185/lexinote/internal/server/httpapi"
	"github.com/and161185/lexinote/internal/service"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.App.LogLevel <= zapcore.DebugLevel {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.App.LogLevel)
	return zc.Build()
}

// buildProviders turns the configured provider list into registry order.
func buildProviders(cfgs []config.ProviderConfig) []provider.Provider {
	out := make([]provider.Provider, 0, len(cfgs))
	for _, pc := range cfgs {
		o := provider.Options{
			Name:       pc.Name,
			Endpoint:   pc.Endpoint,
			Enabled:    pc.Enabled,
			DailyLimit: pc.Limit(),
			Auth:       pc.RequiresAuth,
			Timeout:    pc.Timeout,
		}
		switch pc.Kind {
		case config.KindMyMemory:
			out = append(out, provider.NewMyMemory(o))
		case config.KindGoogle:
			out = append(out, provider.NewGoogleProxy(o))
		}
	}
	return out
}

func buildRegistry(cfg *config.Config, lim limiter.Limiter, logger *zap.Logger) *provider.Registry {
	opts := []provider.Option{provider.WithLogger(logger)}
	if lim != nil {
		opts = append(opts, provider.WithLimiter(lim))
	}
	if cfg.Dictionary.Enabled {
		dict := dictionary.NewClient(cfg.Dictionary.Endpoint, cfg.Dictionary.Timeout)
		opts = append(opts, provider.WithEnricher(dictionary.NewEnricher(dict, logger)))
	}
	return provider.NewRegistry(buildProviders(cfg.Providers), opts...)
}

// run wires storage, services and the router, then serves until a signal or a server error.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	db := &postgres.DB{Pool: pool}
	vocab := service.NewVocabService(postgres.NewCategoryRepo(db), postgres.NewWordRepo(db), logger)
	tokens := service.NewTokenService([]byte(cfg.Auth.JWTKey), cfg.Auth.AccessTTL)
	registry := buildRegistry(cfg, limiter.NewPG(pool), logger)

	for _, p := range registry.Infos() {
		logger.Info("provider available", zap.String("name", p.Name), zap.Int("daily_limit", p.DailyLimit))
	}

	handler := httpapi.NewHandler(vocab, registry, logger)
	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: httpapi.NewRouter(handler, tokens, db, logger),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("shutdown signal", zap.String("signal", sig.String()))
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", zap.Error(err))
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
