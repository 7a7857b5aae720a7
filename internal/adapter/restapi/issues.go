package restapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"civicfund/internal/domain"
)

// IssueRepository talks to /issues. The backend hard-deletes, so ownership of
// issues deleted through this process is remembered locally.
type IssueRepository struct {
	client *Client

	mu         sync.RWMutex
	tombstones map[string]string
}

func NewIssueRepository(client *Client) *IssueRepository {
	return &IssueRepository{client: client, tombstones: make(map[string]string)}
}

func (r *IssueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	var res insertResult
	resp, err := r.client.request(ctx).SetBody(toWireIssue(*issue)).SetResult(&res).Post("/issues")
	if err := r.client.check("create issue", resp, err); err != nil {
		return err
	}
	if res.InsertedID == "" {
		return &domain.TransportError{Op: "create issue", Err: errors.New("backend returned no id")}
	}
	issue.ID = res.InsertedID
	return nil
}

func (r *IssueRepository) Get(ctx context.Context, id string) (*domain.Issue, error) {
	var w wireIssue
	resp, err := r.client.request(ctx).SetResult(&w).Get("/issues/" + url.PathEscape(id))
	if err := r.client.check("get issue", resp, err); err != nil {
		return nil, err
	}
	if w.ID == "" {
		return nil, fmt.Errorf("get issue: %w", domain.ErrNotFound)
	}
	issue := w.domain()
	return &issue, nil
}

// GetMany fetches the issue list once and picks the requested ids.
func (r *IssueRepository) GetMany(ctx context.Context, ids []string) (map[string]domain.Issue, error) {
	out := make(map[string]domain.Issue, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	all, err := r.fetch(ctx, url.Values{})
	if err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, issue := range all {
		if want[issue.ID] {
			out[issue.ID] = issue
		}
	}
	return out, nil
}

func (r *IssueRepository) List(ctx context.Context, filter domain.IssueFilter) ([]domain.Issue, error) {
	params := url.Values{}
	if filter.ReporterEmail != "" {
		params.Set("email", domain.NormalizeEmail(filter.ReporterEmail))
	}
	if filter.Category != "" {
		params.Set("category", string(filter.Category))
	}
	all, err := r.fetch(ctx, params)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Issue, 0, len(all))
	for _, issue := range all {
		if filter.ReporterEmail != "" && !domain.SameEmail(issue.ReporterEmail, filter.ReporterEmail) {
			continue
		}
		if filter.Category != "" && issue.Category != filter.Category {
			continue
		}
		items = append(items, issue)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (r *IssueRepository) fetch(ctx context.Context, params url.Values) ([]domain.Issue, error) {
	var ws []wireIssue
	resp, err := r.client.request(ctx).SetQueryParamsFromValues(params).SetResult(&ws).Get("/issues")
	if err := r.client.check("list issues", resp, err); err != nil {
		return nil, err
	}
	items := make([]domain.Issue, 0, len(ws))
	for _, w := range ws {
		items = append(items, w.domain())
	}
	return items, nil
}

func (r *IssueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	resp, err := r.client.request(ctx).SetBody(toWireIssue(*issue)).Put("/issues/" + url.PathEscape(issue.ID))
	return r.client.check("update issue", resp, err)
}

func (r *IssueRepository) Delete(ctx context.Context, id string) error {
	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	resp, err := r.client.request(ctx).Delete("/issues/" + url.PathEscape(id))
	if err := r.client.check("delete issue", resp, err); err != nil {
		return err
	}
	r.mu.Lock()
	r.tombstones[id] = current.ReporterEmail
	r.mu.Unlock()
	return nil
}

func (r *IssueRepository) Ownership(ctx context.Context, id string) (domain.Ownership, error) {
	r.mu.RLock()
	reporter, deleted := r.tombstones[id]
	r.mu.RUnlock()
	if deleted {
		return domain.Ownership{ReporterEmail: reporter, Deleted: true}, nil
	}
	issue, err := r.Get(ctx, id)
	if err != nil {
		return domain.Ownership{}, err
	}
	return domain.Ownership{ReporterEmail: issue.ReporterEmail}, nil
}

var _ domain.IssueRepository = (*IssueRepository)(nil)
