package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"civicfund/internal/access"
	"civicfund/internal/domain"
	"civicfund/internal/session"
	"civicfund/internal/viewcache"
)

// DefaultLatestLimit is the number of issues shown on the landing page.
const DefaultLatestLimit = 6

// IssueService is the issue store.
type IssueService struct {
	issues domain.IssueRepository
	views  viewcache.Cache
	logger zerolog.Logger
	now    Clock
}

func NewIssueService(issues domain.IssueRepository, views viewcache.Cache, logger zerolog.Logger) *IssueService {
	return &IssueService{issues: issues, views: views, logger: logger, now: time.Now}
}

// Create files a new issue reported by the caller.
func (s *IssueService) Create(ctx context.Context, draft domain.IssueDraft) (*domain.Issue, error) {
	caller, err := authorize(ctx, access.CreateIssue, access.Target{})
	if err != nil {
		return nil, err
	}
	issue, err := draft.Build(caller.Email, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.issues.Create(ctx, &issue); err != nil {
		return nil, storeErr("create issue", err)
	}
	invalidate(ctx, s.views, s.logger, issue.ReporterEmail)
	return &issue, nil
}

// Browse lists every issue in its public form, optionally narrowed to one
// category. Open to anonymous callers.
func (s *IssueService) Browse(ctx context.Context, category string) ([]domain.PublicIssue, error) {
	if _, err := authorize(ctx, access.ListIssues, access.Target{}); err != nil {
		return nil, err
	}
	filter := domain.IssueFilter{}
	if category != "" {
		c, ok := domain.ParseCategory(category)
		if !ok {
			return nil, &domain.ValidationError{Fields: map[string]string{"category": "unknown category"}}
		}
		filter.Category = c
	}
	issues, err := s.issues.List(ctx, filter)
	if err != nil {
		return nil, storeErr("list issues", err)
	}
	return publicIssues(issues), nil
}

// Latest returns the newest limit issues in public form.
func (s *IssueService) Latest(ctx context.Context, limit int) ([]domain.PublicIssue, error) {
	if _, err := authorize(ctx, access.LatestIssues, access.Target{}); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	issues, err := s.issues.List(ctx, domain.IssueFilter{})
	if err != nil {
		return nil, storeErr("list issues", err)
	}
	return publicIssues(domain.LatestIssues(issues, limit)), nil
}

// ListByReporter returns the issues filed by email, which must be the
// caller's own address.
func (s *IssueService) ListByReporter(ctx context.Context, email string) ([]domain.Issue, error) {
	caller, err := authorize(ctx, access.ListMyIssues, access.Target{})
	if err != nil {
		return nil, err
	}
	if !domain.SameEmail(caller.Email, email) {
		return nil, domain.ErrForbidden
	}
	return s.Mine(ctx)
}

// Mine returns the caller's own issues, served from the view cache when a
// current copy exists.
func (s *IssueService) Mine(ctx context.Context) ([]domain.Issue, error) {
	caller, err := authorize(ctx, access.ListMyIssues, access.Target{})
	if err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(caller.Email)
	return cachedView(ctx, s.views, s.logger, email, viewcache.ViewMyIssues, func(ctx context.Context) ([]domain.Issue, error) {
		issues, err := s.issues.List(ctx, domain.IssueFilter{ReporterEmail: email})
		if err != nil {
			return nil, storeErr("list my issues", err)
		}
		if issues == nil {
			issues = []domain.Issue{}
		}
		return issues, nil
	})
}

// Get returns the full issue, including budget and reporter.
func (s *IssueService) Get(ctx context.Context, id string) (*domain.Issue, error) {
	if _, err := authorize(ctx, access.ReadIssue, access.Target{}); err != nil {
		return nil, err
	}
	issue, err := s.issues.Get(ctx, id)
	if err != nil {
		return nil, storeErr("get issue", err)
	}
	return issue, nil
}

// Update replaces the editable fields of an issue. Only its reporter may do so.
func (s *IssueService) Update(ctx context.Context, id string, update domain.IssueUpdate) (*domain.Issue, error) {
	if _, err := s.authorizeOwner(ctx, access.UpdateIssue, id); err != nil {
		return nil, err
	}
	current, err := s.issues.Get(ctx, id)
	if err != nil {
		return nil, storeErr("get issue", err)
	}
	next, err := update.Apply(*current)
	if err != nil {
		return nil, err
	}
	if err := s.issues.Update(ctx, &next); err != nil {
		return nil, storeErr("update issue", err)
	}
	invalidate(ctx, s.views, s.logger, next.ReporterEmail)
	return &next, nil
}

// Delete removes an issue. Contributions that reference it are kept.
func (s *IssueService) Delete(ctx context.Context, id string) error {
	own, err := s.authorizeOwner(ctx, access.DeleteIssue, id)
	if err != nil {
		return err
	}
	if err := s.issues.Delete(ctx, id); err != nil {
		return storeErr("delete issue", err)
	}
	invalidate(ctx, s.views, s.logger, own.ReporterEmail)
	return nil
}

// authorizeOwner resolves the reporter of id and checks the caller against
// it. An issue that never existed has no owner, so the caller is refused; the
// reporter of an already deleted issue gets ErrNotFound.
func (s *IssueService) authorizeOwner(ctx context.Context, op access.Operation, id string) (domain.Ownership, error) {
	var own domain.Ownership
	if session.IdentityFromContext(ctx) != nil {
		o, err := s.issues.Ownership(ctx, id)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return domain.Ownership{}, storeErr("issue ownership", err)
		default:
			own = o
		}
	}
	if _, err := authorize(ctx, op, access.Target{OwnerEmail: own.ReporterEmail}); err != nil {
		return domain.Ownership{}, err
	}
	if own.Deleted {
		return domain.Ownership{}, domain.ErrNotFound
	}
	return own, nil
}

func publicIssues(issues []domain.Issue) []domain.PublicIssue {
	out := make([]domain.PublicIssue, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Public())
	}
	return out
}
