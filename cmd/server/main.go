package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/iho/bookkeeper/internal/infrastructure/config"
	"github.com/iho/bookkeeper/internal/infrastructure/logger"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres"
)

// errMigrationsNeedPostgres is returned by migrate commands on the memory store.
var errMigrationsNeedPostgres = errors.New("migrations require STORE_DRIVER=postgres")

// migrator runs a migration against the configured database.
type migrator func(ctx context.Context, databaseURL, migrationsPath string) error

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = appLogger.WithContext(ctx)

	if err := newRootCmd(cfg, appLogger).ExecuteContext(ctx); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func newRootCmd(cfg *config.Config, appLogger zerolog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bookkeeper-server",
		Short:         "Bookkeeper ledger HTTP server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg, appLogger)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}
	migrateCmd.AddCommand(
		newMigrateCmd(cfg, "up", "Apply every pending migration", postgres.RunMigrations),
		newMigrateCmd(cfg, "down", "Roll back the last migration", postgres.RunMigrationsDown),
	)

	rootCmd.AddCommand(migrateCmd)
	return rootCmd
}

func newMigrateCmd(cfg *config.Config, use, short string, run migrator) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.StoreDriver != config.StorePostgres {
				return errMigrationsNeedPostgres
			}
			return run(cmd.Context(), cfg.DatabaseURL, cfg.MigrationsPath)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := newApp(ctx, cfg, appLogger, registry)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		return err
	}

	appLogger.Info().Msg("server stopped")
	return nil
}
