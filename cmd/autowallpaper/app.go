package main

import (
	"context"
	"io"

	"github.com/genricoloni/autowallpaper/internal/config"
	"github.com/genricoloni/autowallpaper/internal/domain"
	"github.com/genricoloni/autowallpaper/internal/engine"
	"github.com/genricoloni/autowallpaper/internal/fetcher"
	"github.com/genricoloni/autowallpaper/internal/processor"
	"github.com/genricoloni/autowallpaper/internal/resolver"
	"github.com/genricoloni/autowallpaper/internal/scheduler"
	"github.com/genricoloni/autowallpaper/internal/store"
	"github.com/spf13/afero"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// appOptions wires every component except the platform applier
func appOptions(cfg *config.WallpaperConfig, logger *zap.Logger) fx.Option {
	return fx.Options(
		fx.Supply(cfg, logger),

		fx.Provide(
			afero.NewOsFs,
			newResolver,
			newFetcher,
			newProcessor,
			newStore,
			newRunner,
			newScheduler,
		),

		fx.Invoke(registerHooks),
	)
}

func newResolver(logger *zap.Logger, cfg *config.WallpaperConfig) domain.Resolver {
	return resolver.NewRedirectResolver(logger.Named("resolver"), cfg.Timeout(), cfg.MaxRedirects())
}

func newFetcher(logger *zap.Logger, cfg *config.WallpaperConfig) domain.Fetcher {
	return fetcher.NewHTTPFetcher(logger.Named("fetcher"), cfg.Timeout())
}

func newProcessor(logger *zap.Logger, cfg *config.WallpaperConfig) domain.Processor {
	return processor.NewFillProcessor(logger.Named("processor"), cfg.Resolution())
}

func newStore(logger *zap.Logger, fs afero.Fs, cfg *config.WallpaperConfig) domain.Store {
	return store.NewFileStore(logger.Named("store"), fs, cfg.OutputPath())
}

func newRunner(
	logger *zap.Logger,
	cfg *config.WallpaperConfig,
	res domain.Resolver,
	fetch domain.Fetcher,
	proc domain.Processor,
	st domain.Store,
	apply domain.Applier,
) *engine.CycleRunner {
	return engine.NewCycleRunner(logger.Named("engine"), cfg.SeedURL(), res, fetch, proc, st, apply)
}

func newScheduler(logger *zap.Logger, cfg *config.WallpaperConfig, runner *engine.CycleRunner) *scheduler.Scheduler {
	return scheduler.New(logger.Named("scheduler"), runner, cfg.Period())
}

// registerHooks sets up application lifecycle hooks
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	cfg *config.WallpaperConfig,
	runner *engine.CycleRunner,
	sched *scheduler.Scheduler,
	applier domain.Applier,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Probe() {
				if err := runner.Probe(ctx); err != nil {
					return err
				}
			}

			logger.Info("Autowallpaper started",
				zap.String("topic", cfg.Topic()),
				zap.Duration("period", cfg.Period()))
			return sched.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			sched.Stop()

			select {
			case <-sched.Done():
			case <-ctx.Done():
				logger.Warn("Cycle still running at shutdown", zap.Error(ctx.Err()))
			}

			if closer, ok := applier.(io.Closer); ok {
				return closer.Close()
			}
			return nil
		},
	})
}
