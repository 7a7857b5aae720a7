package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"civicfund/internal/access"
	"civicfund/internal/domain"
)

// Community serves the roster and the landing-page counters.
type Community struct {
	users         domain.UserRepository
	issues        domain.IssueRepository
	contributions domain.ContributionRepository
	logger        zerolog.Logger
}

func NewCommunity(users domain.UserRepository, issues domain.IssueRepository, contributions domain.ContributionRepository, logger zerolog.Logger) *Community {
	return &Community{users: users, issues: issues, contributions: contributions, logger: logger}
}

// Stats is open to anonymous callers.
func (c *Community) Stats(ctx context.Context) (*domain.CommunityStats, error) {
	if _, err := authorize(ctx, access.CommunityStats, access.Target{}); err != nil {
		return nil, err
	}
	return c.Summarize(ctx)
}

// Summarize gathers the counters concurrently, without the access check.
func (c *Community) Summarize(ctx context.Context) (*domain.CommunityStats, error) {
	var (
		stats  domain.CommunityStats
		issues []domain.Issue
		items  []domain.Contribution
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := c.users.Count(gctx)
		if err != nil {
			return storeErr("count users", err)
		}
		stats.TotalUsers = n
		return nil
	})
	g.Go(func() error {
		var err error
		if issues, err = c.issues.List(gctx, domain.IssueFilter{}); err != nil {
			return storeErr("list issues", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if items, err = c.contributions.ListAll(gctx); err != nil {
			return storeErr("list contributions", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.SummarizeIssues(issues)
	stats.TotalContributions = len(items)
	stats.TotalCollected = domain.TotalCollected(items)
	return &stats, nil
}

// RecordSignIn adds or refreshes the roster entry for an identity the
// identity provider has just confirmed.
func (c *Community) RecordSignIn(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	u := domain.UserFromIdentity(identity)
	if u.Email == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{"email": "required"}}
	}
	user, err := c.users.Upsert(ctx, &u)
	if err != nil {
		return nil, storeErr("upsert user", err)
	}
	return user, nil
}

// Register adds the caller to the roster.
func (c *Community) Register(ctx context.Context) (*domain.User, error) {
	caller, err := authorize(ctx, access.RegisterUser, access.Target{})
	if err != nil {
		return nil, err
	}
	return c.RecordSignIn(ctx, *caller)
}

// Users lists the roster.
func (c *Community) Users(ctx context.Context) ([]domain.User, error) {
	if _, err := authorize(ctx, access.ListUsers, access.Target{}); err != nil {
		return nil, err
	}
	users, err := c.users.List(ctx)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
