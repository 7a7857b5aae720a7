package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"civicfund/internal/domain"
	"civicfund/internal/metrics"
)

// DefaultEnrichConcurrency bounds parallel issue lookups when none is configured.
const DefaultEnrichConcurrency = 8

// IssueReader is the part of the issue store enrichment needs.
type IssueReader interface {
	Get(ctx context.Context, id string) (*domain.Issue, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Issue, error)
}

// EnrichMode picks how Resolve looks issues up.
type EnrichMode string

const (
	// EnrichBatch resolves all issues with one GetMany call.
	EnrichBatch EnrichMode = "batched"
	// EnrichConcurrent issues one Get per distinct issue, in parallel.
	EnrichConcurrent EnrichMode = "concurrent"
)

// ParseEnrichMode accepts the ENRICH_MODE values; empty means batched.
func ParseEnrichMode(raw string) (EnrichMode, bool) {
	switch EnrichMode(raw) {
	case "", EnrichBatch:
		return EnrichBatch, true
	case EnrichConcurrent:
		return EnrichConcurrent, true
	}
	return "", false
}

// Enricher joins contributions with the title and status of their issue.
// Contributions without an issue, or whose issue is gone, get the N/A
// placeholder; any other lookup failure fails the whole call.
type Enricher struct {
	issues IssueReader
	limit  int
	mode   EnrichMode
}

func NewEnricher(issues IssueReader, concurrency int, mode EnrichMode) *Enricher {
	if concurrency <= 0 {
		concurrency = DefaultEnrichConcurrency
	}
	if mode == "" {
		mode = EnrichBatch
	}
	return &Enricher{issues: issues, limit: concurrency, mode: mode}
}

// Resolve enriches items with the configured strategy.
func (e *Enricher) Resolve(ctx context.Context, items []domain.Contribution) ([]domain.EnrichedContribution, error) {
	if e.mode == EnrichConcurrent {
		return e.Enrich(ctx, items)
	}
	return e.EnrichBatched(ctx, items)
}

// Enrich looks up each distinct issue with its own Get call, running up to
// the configured number of lookups at once. Output order matches input order.
func (e *Enricher) Enrich(ctx context.Context, items []domain.Contribution) ([]domain.EnrichedContribution, error) {
	ids := distinctIssueIDs(items)
	found := make([]*domain.Issue, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			issue, err := e.issues.Get(gctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return storeErr("enrich contribution", err)
			}
			found[i] = issue
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Issue, len(ids))
	for i, id := range ids {
		if found[i] != nil {
			byID[id] = *found[i]
		}
	}
	return join(items, byID), nil
}

// EnrichBatched resolves every distinct issue with a single GetMany call.
// The result is identical to Enrich.
func (e *Enricher) EnrichBatched(ctx context.Context, items []domain.Contribution) ([]domain.EnrichedContribution, error) {
	ids := distinctIssueIDs(items)
	byID := map[string]domain.Issue{}
	if len(ids) > 0 {
		var err error
		byID, err = e.issues.GetMany(ctx, ids)
		if err != nil {
			return nil, storeErr("enrich contributions", err)
		}
	}
	return join(items, byID), nil
}

func distinctIssueIDs(items []domain.Contribution) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, c := range items {
		if c.IssueID == nil || seen[*c.IssueID] {
			continue
		}
		seen[*c.IssueID] = true
		ids = append(ids, *c.IssueID)
	}
	return ids
}

func join(items []domain.Contribution, byID map[string]domain.Issue) []domain.EnrichedContribution {
	out := make([]domain.EnrichedContribution, 0, len(items))
	missing := 0
	for _, c := range items {
		var issue *domain.Issue
		if c.IssueID != nil {
			if found, ok := byID[*c.IssueID]; ok {
				issue = &found
			}
		}
		if issue == nil {
			missing++
		}
		out = append(out, domain.Enrich(c, issue))
	}
	metrics.EnrichmentFallback(missing)
	return out
}
