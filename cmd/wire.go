package cmd

import (
	"fmt"

	"scale-sync/core/config"
	"scale-sync/core/logger"
	"scale-sync/core/storage"
	"scale-sync/core/tokenstore"
	"scale-sync/feature/garmin"
	"scale-sync/feature/withings"

	"go.uber.org/zap"
)

// clients bundles the wired platform adapters shared by the server and
// the one-shot CLI commands.
type clients struct {
	tokens   tokenstore.Store
	withings *withings.Client
	garmin   *garmin.Client
}

// buildClients assembles the token store and both platform clients from
// the loaded configuration. The object storage client is only created
// when the token store actually needs it.
func buildClients(cfg *config.Config, logg *zap.Logger) (*clients, error) {
	var store storage.Client
	if cfg.Tokens.Backend == tokenstore.BackendObject {
		s, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("creating storage client: %w", err)
		}
		store = s
	}

	tokens, err := tokenstore.New(cfg.Tokens, store, cfg.Storage.Bucket)
	if err != nil {
		return nil, fmt.Errorf("creating token store: %w", err)
	}

	return &clients{
		tokens:   tokens,
		withings: withings.NewClient(cfg.Withings, tokens, logg),
		garmin:   garmin.NewClient(cfg.Garmin, tokens, logg),
	}, nil
}

// loadConfigAndLogger is the shared bootstrap for every subcommand.
func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, logg, nil
}
