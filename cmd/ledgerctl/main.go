package main

import (
	"context"
	"fmt"
	"os"

	"civicfund/internal/infra"
	"civicfund/internal/migrate"
	"civicfund/internal/store"
)

func main() {
	cfg, err := infra.LoadStorageConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infra.NewLogger("cli").With().Str("cmd", "ledgerctl").Logger()

	deps := &deps{
		out: os.Stdout,
		openStores: func(ctx context.Context) (*store.Stores, error) {
			return store.Open(ctx, cfg, logger)
		},
		migrate: func(ctx context.Context) ([]string, error) {
			if cfg.DatabaseURL == "" {
				return nil, fmt.Errorf("DATABASE_URL is required")
			}
			db, err := migrate.Open(cfg.DatabaseURL)
			if err != nil {
				return nil, err
			}
			defer db.Close()
			return migrate.Up(ctx, db, logger)
		},
		leaderboardLimit: cfg.LeaderboardLimit,
		logger:           logger,
	}

	if err := newRootCmd(deps).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
