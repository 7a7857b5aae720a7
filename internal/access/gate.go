// Package access decides whether a caller may perform an operation. Decide is
// a pure function: it reads nothing but its arguments and has no side effects.
package access

import (
	"fmt"

	"civicfund/internal/domain"
)

// Operation names an action guarded by the gate.
type Operation string

const (
	ListIssues             Operation = "list_issues"
	LatestIssues           Operation = "latest_issues"
	CommunityStats         Operation = "community_stats"
	ReadIssue              Operation = "read_issue"
	CreateIssue            Operation = "create_issue"
	UpdateIssue            Operation = "update_issue"
	DeleteIssue            Operation = "delete_issue"
	ListMyIssues           Operation = "list_my_issues"
	RecordContribution     Operation = "record_contribution"
	ListIssueContributions Operation = "list_issue_contributions"
	ListMyContributions    Operation = "list_my_contributions"
	ReadLeaderboard        Operation = "read_leaderboard"
	ListUsers              Operation = "list_users"
	RegisterUser           Operation = "register_user"
)

// Target describes the record an operation acts on. OwnerEmail is empty when
// the operation has no owned target or the target does not exist.
type Target struct {
	OwnerEmail string
}

// Decide returns nil when identity may perform op on target, ErrUnauthenticated
// when op needs a signed-in caller and identity is nil, and ErrForbidden when
// the caller is not the target's owner. Anonymous callers may only browse
// public data.
func Decide(identity *domain.Identity, op Operation, target Target) error {
	switch op {
	case ListIssues, LatestIssues, CommunityStats:
		return nil
	}

	if identity == nil || domain.NormalizeEmail(identity.Email) == "" {
		return fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}

	switch op {
	case UpdateIssue, DeleteIssue:
		if !domain.SameEmail(identity.Email, target.OwnerEmail) {
			return fmt.Errorf("%s: %w", op, domain.ErrForbidden)
		}
	}
	return nil
}

// Anonymous reports whether op is open to callers without a session.
func Anonymous(op Operation) bool {
	return Decide(nil, op, Target{}) == nil
}
