package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"civicfund/internal/domain"
	"civicfund/internal/infra"
	"civicfund/internal/sqlinline"
)

// ContributionRepositoryPG implements domain.ContributionRepository. Rows are
// only ever inserted.
type ContributionRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewContributionRepository(sql infra.SQLExecutor) *ContributionRepositoryPG {
	return &ContributionRepositoryPG{sql: sql}
}

// Append writes the contribution with a single INSERT.
func (r *ContributionRepositoryPG) Append(ctx context.Context, c *domain.Contribution) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	issueID := ""
	if c.IssueID != nil {
		issueID = *c.IssueID
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertContribution,
		c.ID,
		issueID,
		c.ContributorName,
		c.ContributorEmail,
		c.Amount.String(),
		c.Phone,
		c.Address,
		c.AdditionalInfo,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contribution: %w", err)
	}
	return nil
}

func (r *ContributionRepositoryPG) ListByIssue(ctx context.Context, issueID string) ([]domain.Contribution, error) {
	return r.list(ctx, sqlinline.QListContributionsByIssue, issueID)
}

func (r *ContributionRepositoryPG) ListByContributor(ctx context.Context, email string) ([]domain.Contribution, error) {
	return r.list(ctx, sqlinline.QListContributionsByEmail, email)
}

func (r *ContributionRepositoryPG) ListAll(ctx context.Context) ([]domain.Contribution, error) {
	return r.list(ctx, sqlinline.QListContributions)
}

func (r *ContributionRepositoryPG) list(ctx context.Context, query string, args ...any) ([]domain.Contribution, error) {
	rows, err := r.sql.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()
	items := make([]domain.Contribution, 0)
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	return items, nil
}

func scanContribution(row pgx.Row) (domain.Contribution, error) {
	var (
		c       domain.Contribution
		issueID string
		amount  string
	)
	if err := row.Scan(
		&c.ID,
		&issueID,
		&c.ContributorName,
		&c.ContributorEmail,
		&amount,
		&c.Phone,
		&c.Address,
		&c.AdditionalInfo,
		&c.CreatedAt,
	); err != nil {
		return domain.Contribution{}, fmt.Errorf("scan contribution: %w", err)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Contribution{}, fmt.Errorf("scan contribution amount: %w", err)
	}
	c.Amount = d
	if issueID != "" {
		c.IssueID = &issueID
	}
	return c, nil
}

var _ domain.ContributionRepository = (*ContributionRepositoryPG)(nil)
