package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lildude/fitpal/internal/app"
	"github.com/lildude/fitpal/internal/cache"
	"github.com/lildude/fitpal/internal/config"
	"github.com/lildude/fitpal/internal/database"
	"github.com/lildude/fitpal/internal/logger"
	"github.com/lildude/fitpal/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:           "fitpal",
	Short:         "fitpal tracks meals, workouts and weight with an AI coach",
	Long:          "fitpal is a single-user fitness tracker. It logs meals, workouts and body weight, unlocks achievements and talks to an AI coach for meal analysis, workout plans and chat.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Additional .env files to load")
}

// runtime is everything a command needs to work on the stored state.
type runtime struct {
	cfg   *config.Config
	log   logrus.FieldLogger
	store *storage.Adapter
	state *app.State
}

// openStore connects the configured key/value backend.
func openStore(ctx context.Context, cfg *config.Config) (cache.Cache, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.InitDB(cfg.StoreDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return database.NewSQLCache(db), sqlDB.Close, nil
	default:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return rc, rc.Close, nil
	}
}

// withRuntime loads the configuration and state, runs fn, then closes the store.
func withRuntime(cmd *cobra.Command, fn func(rt *runtime) error) error {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	log := logger.NewLogger(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Env: cfg.Env})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	backend, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.WithError(err).Warn("unable to close store")
		}
	}()

	store := storage.NewAdapter(backend, log)
	return fn(&runtime{
		cfg:   cfg,
		log:   log,
		store: store,
		state: app.Load(ctx, store, log),
	})
}
