// Package store opens the configured system of record and the session and
// view caches in front of it.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"civicfund/internal/adapter/memory"
	"civicfund/internal/adapter/repo"
	"civicfund/internal/adapter/restapi"
	"civicfund/internal/domain"
	"civicfund/internal/infra"
	"civicfund/internal/session"
	"civicfund/internal/viewcache"
)

type Stores struct {
	Issues        domain.IssueRepository
	Contributions domain.ContributionRepository
	Users         domain.UserRepository
	Sessions      session.Store
	Views         viewcache.Cache

	closers []func()
}

// Open connects the repositories selected by cfg.StorageDriver. With
// REDIS_URL set, sessions and cached views live in Redis; otherwise they stay
// in process.
func Open(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*Stores, error) {
	s := &Stores{}
	if err := s.openRecords(ctx, cfg, logger); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.openCaches(ctx, cfg, logger); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Stores) openRecords(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) error {
	switch cfg.StorageDriver {
	case infra.DriverPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return err
		}
		s.closers = append(s.closers, pool.Close)
		runner := infra.NewSQLRunner(pool, logger)
		s.Issues = repo.NewIssueRepository(runner)
		s.Contributions = repo.NewContributionRepository(runner)
		s.Users = repo.NewUserRepository(runner)
	case infra.DriverREST:
		client := restapi.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, logger)
		s.Issues = restapi.NewIssueRepository(client)
		s.Contributions = restapi.NewContributionRepository(client)
		s.Users = restapi.NewUserRepository(client)
	case infra.DriverMemory, "":
		s.Issues = memory.NewIssueRepository()
		s.Contributions = memory.NewContributionRepository()
		s.Users = memory.NewUserRepository()
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	logger.Info().Str("driver", cfg.StorageDriver).Msg("storage ready")
	return nil
}

func (s *Stores) openCaches(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) error {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		s.Sessions = session.NewMemoryStore()
		s.Views = viewcache.NewMemory(cfg.ViewCacheTTL)
		logger.Info().Msg("using in-process session store and view cache")
		return nil
	}
	client, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	s.closers = append(s.closers, func() { _ = client.Close() })
	s.Sessions = session.NewRedisStore(client)
	s.Views = viewcache.NewRedis(client, cfg.ViewCacheTTL)
	logger.Info().Msg("using redis for sessions and views")
	return nil
}

// Close releases connections in reverse order of opening.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
