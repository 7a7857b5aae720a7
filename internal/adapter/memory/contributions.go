package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"civicfund/internal/domain"
)

// ContributionRepository is an append-only slice of contributions.
type ContributionRepository struct {
	mu    sync.RWMutex
	items []domain.Contribution
}

func NewContributionRepository() *ContributionRepository {
	return &ContributionRepository{}
}

func (r *ContributionRepository) Append(_ context.Context, c *domain.Contribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	stored := *c
	if c.IssueID != nil {
		id := *c.IssueID
		stored.IssueID = &id
	}
	r.items = append(r.items, stored)
	return nil
}

func (r *ContributionRepository) ListByIssue(_ context.Context, issueID string) ([]domain.Contribution, error) {
	return r.filter(func(c domain.Contribution) bool {
		return c.IssueID != nil && *c.IssueID == issueID
	}), nil
}

func (r *ContributionRepository) ListByContributor(_ context.Context, email string) ([]domain.Contribution, error) {
	return r.filter(func(c domain.Contribution) bool {
		return domain.SameEmail(c.ContributorEmail, email)
	}), nil
}

func (r *ContributionRepository) ListAll(_ context.Context) ([]domain.Contribution, error) {
	return r.filter(func(domain.Contribution) bool { return true }), nil
}

// Len returns the number of stored contributions.
func (r *ContributionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *ContributionRepository) filter(keep func(domain.Contribution) bool) []domain.Contribution {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Contribution, 0)
	for _, c := range r.items {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

var _ domain.ContributionRepository = (*ContributionRepository)(nil)
