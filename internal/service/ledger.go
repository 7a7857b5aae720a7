package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"civicfund/internal/access"
	"civicfund/internal/domain"
	"civicfund/internal/metrics"
	"civicfund/internal/viewcache"
)

// IssueLedger is the contribution history of one issue with its running total.
type IssueLedger struct {
	IssueID        string                `json:"issueId"`
	Contributions  []domain.Contribution `json:"contributions"`
	TotalCollected decimal.Decimal       `json:"totalCollected"`
}

// Ledger is the append-only contribution ledger.
type Ledger struct {
	contributions domain.ContributionRepository
	enricher      *Enricher
	views         viewcache.Cache
	logger        zerolog.Logger
	now           Clock
}

func NewLedger(contributions domain.ContributionRepository, enricher *Enricher, views viewcache.Cache, logger zerolog.Logger) *Ledger {
	return &Ledger{
		contributions: contributions,
		enricher:      enricher,
		views:         views,
		logger:        logger,
		now:           time.Now,
	}
}

// Record appends one contribution. The referenced issue is not checked: a
// pledge may name an issue that was deleted or never existed.
func (l *Ledger) Record(ctx context.Context, input domain.ContributionInput) (*domain.Contribution, error) {
	caller, err := authorize(ctx, access.RecordContribution, access.Target{})
	if err != nil {
		return nil, err
	}
	c, err := input.Build(*caller, l.now())
	if err != nil {
		return nil, err
	}
	if err := l.contributions.Append(ctx, &c); err != nil {
		return nil, storeErr("record contribution", err)
	}
	metrics.ContributionRecorded(c.IsGeneralDrive())
	invalidate(ctx, l.views, l.logger, c.ContributorEmail, caller.Email)
	return &c, nil
}

// ListForIssue returns every contribution to issueID and their sum. An issue
// with no contributions yields an empty ledger, not ErrNotFound.
func (l *Ledger) ListForIssue(ctx context.Context, issueID string) (*IssueLedger, error) {
	if _, err := authorize(ctx, access.ListIssueContributions, access.Target{}); err != nil {
		return nil, err
	}
	items, err := l.contributions.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, storeErr("list issue contributions", err)
	}
	if items == nil {
		items = []domain.Contribution{}
	}
	return &IssueLedger{
		IssueID:        issueID,
		Contributions:  items,
		TotalCollected: domain.TotalCollected(items),
	}, nil
}

// ListForContributor returns the contributions made under email, which must
// be the caller's own address. Reads go straight to the ledger, so a Record
// by the same caller is always visible.
func (l *Ledger) ListForContributor(ctx context.Context, email string) ([]domain.Contribution, error) {
	caller, err := authorize(ctx, access.ListMyContributions, access.Target{})
	if err != nil {
		return nil, err
	}
	if !domain.SameEmail(caller.Email, email) {
		return nil, domain.ErrForbidden
	}
	items, err := l.contributions.ListByContributor(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, storeErr("list contributions", err)
	}
	if items == nil {
		items = []domain.Contribution{}
	}
	return items, nil
}

// Mine returns the caller's contributions joined with their issues. Only the
// caller's own records are cached, and dropped whenever the caller records
// again or signs out. The issue fields are looked up on every call, so an
// edited or deleted issue shows up at once.
func (l *Ledger) Mine(ctx context.Context) ([]domain.EnrichedContribution, error) {
	caller, err := authorize(ctx, access.ListMyContributions, access.Target{})
	if err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(caller.Email)
	items, err := cachedView(ctx, l.views, l.logger, email, viewcache.ViewMyContributions, func(ctx context.Context) ([]domain.Contribution, error) {
		items, err := l.contributions.ListByContributor(ctx, email)
		if err != nil {
			return nil, storeErr("list my contributions", err)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return l.enricher.Resolve(ctx, items)
}

// Total sums the contributions to issueID without the access check. Used by
// the admin CLI, which runs outside any session.
func (l *Ledger) Total(ctx context.Context, issueID string) (decimal.Decimal, error) {
	items, err := l.contributions.ListByIssue(ctx, issueID)
	if err != nil {
		return decimal.Zero, storeErr("list issue contributions", err)
	}
	return domain.TotalCollected(items), nil
}
