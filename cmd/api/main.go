package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civicfund/internal/domain"
	"civicfund/internal/http/handlers"
	httpapi "civicfund/internal/http/httpapi"
	"civicfund/internal/infra"
	"civicfund/internal/infra/google"
	"civicfund/internal/service"
	"civicfund/internal/session"
	"civicfund/internal/store"
)

func main() {
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}
	defer stores.Close()

	if cfg.GoogleClientID == "" {
		logger.Warn().Msg("GOOGLE_CLIENT_ID is empty; google sign-in will reject every token")
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, stores.Sessions, logger)
	sessions.OnSignOut(func(ctx context.Context, identity domain.Identity) {
		if err := stores.Views.Invalidate(ctx, identity.Email); err != nil {
			logger.Warn().Err(err).Msg("drop views on sign-out failed")
		}
	})

	mode, _ := service.ParseEnrichMode(cfg.EnrichMode)
	enricher := service.NewEnricher(stores.Issues, cfg.EnrichConcurrency, mode)
	app := &handlers.App{
		Issues:    service.NewIssueService(stores.Issues, stores.Views, logger),
		Ledger:    service.NewLedger(stores.Contributions, enricher, stores.Views, logger),
		Board:     service.NewLeaderboard(stores.Contributions, cfg.LeaderboardLimit),
		Community: service.NewCommunity(stores.Users, stores.Issues, stores.Contributions, logger),
		Sessions:  sessions,
		Verifier:  google.NewVerifier(cfg.GoogleIssuer, cfg.GoogleClientID),
		Logger:    logger,
		Started:   time.Now(),
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router, logger)
	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("http server failed")
		os.Exit(1)
	}
}
