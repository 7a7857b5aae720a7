package domain

import (
	"sort"
	"time"
)

// LoyalContributor is one row of the loyalty leaderboard.
type LoyalContributor struct {
	ContributorEmail string    `json:"contributorEmail"`
	ContributorName  string    `json:"contributorName"`
	Count            int       `json:"count"`
	FirstContributed time.Time `json:"firstContributedAt"`
}

// RankContributors groups contributions by contributor email and orders the
// groups by count, descending. Equal counts are ordered by the earliest
// contribution of each contributor, then by email, so the ranking is stable
// for unchanged input. limit <= 0 returns every contributor.
func RankContributors(items []Contribution, limit int) []LoyalContributor {
	groups := make(map[string]*LoyalContributor)
	order := make([]string, 0)
	for _, c := range items {
		email := NormalizeEmail(c.ContributorEmail)
		if email == "" {
			continue
		}
		g, ok := groups[email]
		if !ok {
			g = &LoyalContributor{
				ContributorEmail: email,
				ContributorName:  c.ContributorName,
				FirstContributed: c.CreatedAt,
			}
			groups[email] = g
			order = append(order, email)
		}
		g.Count++
		if c.CreatedAt.Before(g.FirstContributed) {
			g.FirstContributed = c.CreatedAt
			if c.ContributorName != "" {
				g.ContributorName = c.ContributorName
			}
		}
		if g.ContributorName == "" {
			g.ContributorName = c.ContributorName
		}
	}

	ranked := make([]LoyalContributor, 0, len(order))
	for _, email := range order {
		ranked = append(ranked, *groups[email])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if !a.FirstContributed.Equal(b.FirstContributed) {
			return a.FirstContributed.Before(b.FirstContributed)
		}
		return a.ContributorEmail < b.ContributorEmail
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
