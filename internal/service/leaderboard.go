package service

import (
	"context"

	"civicfund/internal/access"
	"civicfund/internal/domain"
)

// DefaultLeaderboardLimit caps the leaderboard when the caller gives no limit.
const DefaultLeaderboardLimit = 10

// Leaderboard ranks contributors by how many contributions they made.
type Leaderboard struct {
	contributions domain.ContributionRepository
	limit         int
}

func NewLeaderboard(contributions domain.ContributionRepository, defaultLimit int) *Leaderboard {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLeaderboardLimit
	}
	return &Leaderboard{contributions: contributions, limit: defaultLimit}
}

// TopContributors returns the top limit contributors. limit <= 0 uses the
// configured default.
func (b *Leaderboard) TopContributors(ctx context.Context, limit int) ([]domain.LoyalContributor, error) {
	if _, err := authorize(ctx, access.ReadLeaderboard, access.Target{}); err != nil {
		return nil, err
	}
	return b.Rank(ctx, limit)
}

// Rank computes the leaderboard without the access check, for the admin CLI.
func (b *Leaderboard) Rank(ctx context.Context, limit int) ([]domain.LoyalContributor, error) {
	if limit <= 0 {
		limit = b.limit
	}
	items, err := b.contributions.ListAll(ctx)
	if err != nil {
		return nil, storeErr("list contributions", err)
	}
	return domain.RankContributors(items, limit), nil
}
