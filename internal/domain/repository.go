package domain

import "context"

// Ownership is what the store still knows about an issue's reporter, also
// after the issue has been deleted.
type Ownership struct {
	ReporterEmail string
	Deleted       bool
}

// IssueRepository is the system of record for issues. Get, GetMany and List
// never return deleted issues.
type IssueRepository interface {
	Create(ctx context.Context, issue *Issue) error
	Get(ctx context.Context, id string) (*Issue, error)
	GetMany(ctx context.Context, ids []string) (map[string]Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]Issue, error)
	Update(ctx context.Context, issue *Issue) error
	Delete(ctx context.Context, id string) error
	Ownership(ctx context.Context, id string) (Ownership, error)
}

// ContributionRepository is the append-only ledger. List methods return an
// empty slice, not ErrNotFound, when nothing matches.
type ContributionRepository interface {
	Append(ctx context.Context, c *Contribution) error
	ListByIssue(ctx context.Context, issueID string) ([]Contribution, error)
	ListByContributor(ctx context.Context, email string) ([]Contribution, error)
	ListAll(ctx context.Context) ([]Contribution, error)
}

// UserRepository keeps the roster of people who have signed in.
type UserRepository interface {
	Upsert(ctx context.Context, user *User) (*User, error)
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int, error)
}
