// Package memory holds in-process repositories for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"civicfund/internal/domain"
)

// IssueRepository keeps issues in a map. Deleted issues stay behind as
// tombstones so ownership can still be answered.
type IssueRepository struct {
	mu      sync.RWMutex
	issues  map[string]domain.Issue
	deleted map[string]bool
}

func NewIssueRepository() *IssueRepository {
	return &IssueRepository{
		issues:  make(map[string]domain.Issue),
		deleted: make(map[string]bool),
	}
}

func (r *IssueRepository) Create(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	r.issues[issue.ID] = *issue
	return nil
}

func (r *IssueRepository) Get(_ context.Context, id string) (*domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	issue, ok := r.issues[id]
	if !ok || r.deleted[id] {
		return nil, domain.ErrNotFound
	}
	return &issue, nil
}

func (r *IssueRepository) GetMany(_ context.Context, ids []string) (map[string]domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]domain.Issue, len(ids))
	for _, id := range ids {
		if issue, ok := r.issues[id]; ok && !r.deleted[id] {
			out[id] = issue
		}
	}
	return out, nil
}

func (r *IssueRepository) List(_ context.Context, filter domain.IssueFilter) ([]domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]domain.Issue, 0, len(r.issues))
	for id, issue := range r.issues {
		if r.deleted[id] {
			continue
		}
		if filter.ReporterEmail != "" && !domain.SameEmail(issue.ReporterEmail, filter.ReporterEmail) {
			continue
		}
		if filter.Category != "" && issue.Category != filter.Category {
			continue
		}
		items = append(items, issue)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *IssueRepository) Update(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.issues[issue.ID]
	if !ok || r.deleted[issue.ID] {
		return domain.ErrNotFound
	}
	next := *issue
	next.ReporterEmail = current.ReporterEmail
	next.CreatedAt = current.CreatedAt
	r.issues[issue.ID] = next
	return nil
}

func (r *IssueRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.issues[id]; !ok || r.deleted[id] {
		return domain.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

func (r *IssueRepository) Ownership(_ context.Context, id string) (domain.Ownership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	issue, ok := r.issues[id]
	if !ok {
		return domain.Ownership{}, domain.ErrNotFound
	}
	return domain.Ownership{ReporterEmail: issue.ReporterEmail, Deleted: r.deleted[id]}, nil
}

var _ domain.IssueRepository = (*IssueRepository)(nil)
