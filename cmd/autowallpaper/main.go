package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/autowallpaper/internal/config"
	"github.com/genricoloni/autowallpaper/internal/display"
	"github.com/genricoloni/autowallpaper/internal/executor"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const (
	flagTopic   = "topic"
	flagTime    = "time"
	flagUnit    = "unit"
	flagWidth   = "width"
	flagHeight  = "height"
	flagOutput  = "output"
	flagNoProbe = "no-probe"
	flagVerbose = "verbose"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "autowallpaper: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "autowallpaper"
	app.Usage = "Periodically replace the desktop wallpaper with a random image on a topic"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  flagTopic,
			Usage: "Search term every image should match",
		},
		&cli.Int64Flag{
			Name:  flagTime,
			Usage: "Number of units between two wallpaper changes",
		},
		&cli.StringFlag{
			Name:  flagUnit,
			Usage: "Interval unit: minutes (m, min), hours (hr, hrs) or days (d)",
		},
		&cli.IntFlag{
			Name:  flagWidth,
			Usage: "Requested image width, detected from the primary display when omitted",
		},
		&cli.IntFlag{
			Name:  flagHeight,
			Usage: "Requested image height, detected from the primary display when omitted",
		},
		&cli.StringFlag{
			Name:  flagOutput,
			Usage: "Where the current wallpaper is written (default ~/.cache/autowallpaper/wallpaper.png)",
		},
		&cli.BoolFlag{
			Name:  flagNoProbe,
			Usage: "Skip the startup request that validates the topic",
		},
		&cli.BoolFlag{
			Name:  flagVerbose,
			Usage: "Enable debug logging",
		},
	}
	app.Action = runAction

	return app
}

func runAction(c *cli.Context) error {
	logger, err := newLogger(c.Bool(flagVerbose))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.New(optionsFromFlags(c, logger), logger)
	if err != nil {
		return err
	}

	app := fx.New(
		// Logger configuration
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),

		appOptions(cfg, logger),

		// The platform applier is kept out of appOptions so tests can swap it
		fx.Provide(executor.NewExecutor),
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()

	return app.Stop(stopCtx)
}

func optionsFromFlags(c *cli.Context, logger *zap.Logger) config.Options {
	opts := config.Options{
		Topic:      c.String(flagTopic),
		Interval:   c.Int64(flagTime),
		Unit:       c.String(flagUnit),
		Width:      c.Int(flagWidth),
		Height:     c.Int(flagHeight),
		OutputPath: c.String(flagOutput),
		Probe:      !c.Bool(flagNoProbe),
	}

	if opts.Width == 0 || opts.Height == 0 {
		res := display.NewScreenResolution(logger)
		if opts.Width == 0 {
			opts.Width = res.Width
		}
		if opts.Height == 0 {
			opts.Height = res.Height
		}
	}

	return opts
}

// newLogger creates the production logger, at debug level when verbose
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
