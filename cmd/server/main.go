package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"stockledger/internal/config"
	"stockledger/internal/infrastructure/logger"
	"stockledger/internal/infrastructure/mysql"
	"stockledger/internal/infrastructure/tracing"
	"stockledger/internal/ledger"
	"stockledger/internal/product"
	"stockledger/internal/report"
	"stockledger/internal/server"
)

func main() {
	app := &cli.App{
		Name:  "stockledger",
		Usage: "inventory stock ledger service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to an optional YAML config file",
				EnvVars: []string{"STOCKLEDGER_CONFIG"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply or roll back schema migrations",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "apply all pending migrations",
						Action: migrate(mysql.Up),
					},
					{
						Name:   "down",
						Usage:  "roll back all migrations",
						Action: migrate(mysql.Down),
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}

	return cfg, zapLogger, nil
}

func migrate(direction mysql.Direction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, zapLogger, err := setup(c)
		if err != nil {
			return err
		}
		defer zapLogger.Sync()

		return mysql.Migrate(mysql.DSN(cfg.Database), direction, zapLogger)
	}
}

func serve(c *cli.Context) error {
	cfg, zapLogger, err := setup(c)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	if cfg.Database.AutoMigrate {
		if err := mysql.Migrate(mysql.DSN(cfg.Database), mysql.Up, zapLogger); err != nil {
			return err
		}
	}

	shutdownTracing, err := tracing.Init(c.Context, cfg.Tracing, zapLogger)
	if err != nil {
		return err
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()
	zapLogger.Info("database connected")

	router := server.NewRouter(db, cfg.Server.RequestTimeout, zapLogger,
		ledger.NewModule(db, cfg.Ledger, zapLogger),
		report.NewModule(db, cfg.Reports, zapLogger),
		product.NewModule(db, zapLogger),
	)

	srv := server.New(cfg.Server, router, zapLogger)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		zapLogger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zapLogger.Warn("tracing shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
	return nil
}
