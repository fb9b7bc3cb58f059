package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/larserikfagernaes/spendmatch/internal/common"
	"github.com/larserikfagernaes/spendmatch/internal/config"
	"github.com/larserikfagernaes/spendmatch/internal/engine"
	"github.com/larserikfagernaes/spendmatch/internal/service"
	"github.com/larserikfagernaes/spendmatch/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError("failed to open database at "+dbPath, err)
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// stringOption resolves a command flag against its viper key: an
// explicitly set flag wins, otherwise a value from the config file or
// environment, otherwise the flag default.
func stringOption(cmd *cobra.Command, flag, key string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

// floatOption is stringOption for float flags.
func floatOption(cmd *cobra.Command, flag, key string) float64 {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	v, _ := cmd.Flags().GetFloat64(flag)
	return v
}

// initEngine builds an engine over the given storage from the shared
// tuning flags.
func initEngine(store service.Storage, minExamples, workers int) (*engine.Engine, error) {
	cfg := engine.DefaultConfig()
	if minExamples > 0 {
		cfg.Profile.MinExamples = minExamples
	}
	cfg.Workers = workers

	if w := viper.GetFloat64("scoring.term_weight"); w > 0 {
		cfg.Scorer.TermWeight = w
	}
	if w := viper.GetFloat64("scoring.edit_weight"); w > 0 {
		cfg.Scorer.EditWeight = w
	}
	if k := viper.GetInt("scoring.top_k"); k > 0 {
		cfg.Scorer.TopK = k
	}
	if stopwords := viper.GetStringSlice("scoring.stopwords"); len(stopwords) > 0 {
		cfg.Scorer.Normalize.Stopwords = stopwords
	}

	return engine.New(store, cfg)
}
