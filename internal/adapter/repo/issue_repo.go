// Package repo implements the domain repositories on PostgreSQL through the
// marker-checked SQL runner.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"civicfund/internal/domain"
	"civicfund/internal/infra"
	"civicfund/internal/sqlinline"
)

// IssueRepositoryPG implements domain.IssueRepository. Deletes are soft: the
// row keeps its reporter and gets a deleted_at stamp.
type IssueRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewIssueRepository(sql infra.SQLExecutor) *IssueRepositoryPG {
	return &IssueRepositoryPG{sql: sql}
}

func (r *IssueRepositoryPG) Create(ctx context.Context, issue *domain.Issue) error {
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertIssue,
		issue.ID,
		issue.Title,
		string(issue.Category),
		issue.Location,
		issue.Description,
		issue.ImageURL,
		issue.SuggestedBudget.String(),
		string(issue.Status),
		issue.ReporterEmail,
		issue.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

func (r *IssueRepositoryPG) Get(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := scanIssue(r.sql.QueryRow(ctx, sqlinline.QSelectIssueByID, id))
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *IssueRepositoryPG) GetMany(ctx context.Context, ids []string) (map[string]domain.Issue, error) {
	out := make(map[string]domain.Issue, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.sql.Query(ctx, sqlinline.QSelectIssuesByIDs, ids)
	if err != nil {
		return nil, fmt.Errorf("select issues: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out[issue.ID] = issue
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select issues: %w", err)
	}
	return out, nil
}

func (r *IssueRepositoryPG) List(ctx context.Context, filter domain.IssueFilter) ([]domain.Issue, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListIssues, domain.NormalizeEmail(filter.ReporterEmail), string(filter.Category))
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()
	items := make([]domain.Issue, 0)
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return items, nil
}

func (r *IssueRepositoryPG) Update(ctx context.Context, issue *domain.Issue) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateIssue,
		issue.ID,
		issue.Title,
		string(issue.Category),
		issue.Location,
		issue.Description,
		issue.SuggestedBudget.String(),
		string(issue.Status),
	)
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *IssueRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QSoftDeleteIssue, id)
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *IssueRepositoryPG) Ownership(ctx context.Context, id string) (domain.Ownership, error) {
	var own domain.Ownership
	err := r.sql.QueryRow(ctx, sqlinline.QSelectIssueOwnership, id).Scan(&own.ReporterEmail, &own.Deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Ownership{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Ownership{}, fmt.Errorf("select issue owner: %w", err)
	}
	return own, nil
}

func scanIssue(row pgx.Row) (domain.Issue, error) {
	var (
		issue            domain.Issue
		category, status string
		budget           string
	)
	err := row.Scan(
		&issue.ID,
		&issue.Title,
		&category,
		&issue.Location,
		&issue.Description,
		&issue.ImageURL,
		&budget,
		&status,
		&issue.ReporterEmail,
		&issue.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Issue{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Issue{}, fmt.Errorf("scan issue: %w", err)
	}
	if issue.SuggestedBudget, err = decimal.NewFromString(budget); err != nil {
		return domain.Issue{}, fmt.Errorf("scan issue budget: %w", err)
	}
	issue.Category = domain.Category(category)
	issue.Status = domain.IssueStatus(status)
	return issue, nil
}

var _ domain.IssueRepository = (*IssueRepositoryPG)(nil)
