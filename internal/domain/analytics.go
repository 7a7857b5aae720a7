package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CommunityStats summarizes the ledger for the landing page.
type CommunityStats struct {
	TotalUsers         int             `json:"totalUsers"`
	TotalIssues        int             `json:"totalIssues"`
	Resolved           int             `json:"resolved"`
	Pending            int             `json:"pending"`
	TotalContributions int             `json:"totalContributions"`
	TotalCollected     decimal.Decimal `json:"totalCollected"`
}

// SummarizeIssues fills the issue counters of stats from issues.
func (s *CommunityStats) SummarizeIssues(issues []Issue) {
	s.TotalIssues = len(issues)
	s.Resolved, s.Pending = 0, 0
	for _, issue := range issues {
		switch issue.Status {
		case IssueStatusEnded:
			s.Resolved++
		case IssueStatusOngoing:
			s.Pending++
		}
	}
}

// LatestIssues returns up to limit issues, newest first.
func LatestIssues(issues []Issue, limit int) []Issue {
	sorted := make([]Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
