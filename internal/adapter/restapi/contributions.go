package restapi

import (
	"context"
	"errors"
	"net/url"

	"civicfund/internal/domain"
)

// ContributionRepository talks to /contributions.
type ContributionRepository struct {
	client *Client
}

func NewContributionRepository(client *Client) *ContributionRepository {
	return &ContributionRepository{client: client}
}

// Append issues exactly one POST.
func (r *ContributionRepository) Append(ctx context.Context, c *domain.Contribution) error {
	var res insertResult
	resp, err := r.client.request(ctx).SetBody(toWireContribution(*c)).SetResult(&res).Post("/contributions")
	if err := r.client.check("record contribution", resp, err); err != nil {
		return err
	}
	if res.InsertedID == "" && !res.Acknowledged {
		return &domain.TransportError{Op: "record contribution", Err: errors.New("backend did not acknowledge")}
	}
	c.ID = res.InsertedID
	return nil
}

func (r *ContributionRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.Contribution, error) {
	items, err := r.list(ctx, url.Values{"issueId": {issueID}})
	if err != nil {
		return nil, err
	}
	return keep(items, func(c domain.Contribution) bool {
		return c.IssueID != nil && *c.IssueID == issueID
	}), nil
}

func (r *ContributionRepository) ListByContributor(ctx context.Context, email string) ([]domain.Contribution, error) {
	items, err := r.list(ctx, url.Values{"email": {domain.NormalizeEmail(email)}})
	if err != nil {
		return nil, err
	}
	return keep(items, func(c domain.Contribution) bool {
		return domain.SameEmail(c.ContributorEmail, email)
	}), nil
}

func (r *ContributionRepository) ListAll(ctx context.Context) ([]domain.Contribution, error) {
	return r.list(ctx, url.Values{})
}

// list treats a 404 as an empty ledger.
func (r *ContributionRepository) list(ctx context.Context, params url.Values) ([]domain.Contribution, error) {
	var ws []wireContribution
	resp, err := r.client.request(ctx).SetQueryParamsFromValues(params).SetResult(&ws).Get("/contributions")
	if err := r.client.check("list contributions", resp, err); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Contribution{}, nil
		}
		return nil, err
	}
	items := make([]domain.Contribution, 0, len(ws))
	for _, w := range ws {
		items = append(items, w.domain())
	}
	return items, nil
}

func keep(items []domain.Contribution, pred func(domain.Contribution) bool) []domain.Contribution {
	out := make([]domain.Contribution, 0, len(items))
	for _, c := range items {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

var _ domain.ContributionRepository = (*ContributionRepository)(nil)
